// Package update реализует HTTP-обработчик обновления секций анкеты.
// Запрос перезаписывает секции целиком: отсутствующие становятся пустыми
// объектами, неизвестные поля отбрасываются при декодировании.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vrxmike/biodata/internal/http/response"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики обновления анкеты.
type Service interface {
	Update(ctx context.Context, profileUID string, p models.Profile) error
}

// Handler обрабатывает HTTP-запросы на обновление анкеты.
type Handler struct {
	log            *slog.Logger
	profileService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, profileService Service) *Handler {
	return &Handler{
		log:            log,
		profileService: profileService,
	}
}

// ServeHTTP godoc
// @Summary Обновление анкеты
// @Description Перезаписывает секции анкеты значениями из запроса.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Param profileId path string true "UID анкеты"
// @Param request body models.Profile true "Секции анкеты"
// @Success 200 {object} response.Response "Анкета обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /profile/{profileId} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileUID := chi.URLParam(r, "profileId")
	if profileUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing profile id"))
		return
	}

	var req models.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.profileService.Update(r.Context(), profileUID, req); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	log.Info("profile updated", slog.String("profile_uid", profileUID))
	render.JSON(w, r, response.OK("profile updated successfully"))
}
