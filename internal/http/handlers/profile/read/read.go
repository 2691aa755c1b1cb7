// Package read реализует HTTP-обработчик чтения анкеты по её UID.
package read

import (
	"context"
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

// Service описывает интерфейс бизнес-логики чтения анкеты.
type Service interface {
	Get(ctx context.Context, profileUID string) (*models.Profile, error)
}

// Handler обрабатывает HTTP-запросы на чтение анкеты.
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
// @Summary Получение анкеты
// @Description Возвращает все секции анкеты по её UID.
// @Tags Profile
// @Produce  json
// @Param profileId path string true "UID анкеты"
// @Success 200 {object} response.Response "Анкета"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /profile/{profileId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

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

	result, err := h.profileService.Get(r.Context(), profileUID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
