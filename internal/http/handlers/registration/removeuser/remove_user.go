// Package removeuser реализует HTTP-обработчик удаления пользователя вместе
// с анкетой. Обе записи удаляются в одной транзакции.
package removeuser

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
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики удаления пользователя с анкетой.
type Service interface {
	DeleteUserAndProfile(ctx context.Context, userUID string) error
}

// Handler обрабатывает HTTP-запросы на удаление пользователя.
type Handler struct {
	log                 *slog.Logger
	registrationService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, registrationService Service) *Handler {
	return &Handler{
		log:                 log,
		registrationService: registrationService,
	}
}

// ServeHTTP godoc
// @Summary Удаление пользователя с анкетой
// @Description Удаляет пользователя и его анкету в одной транзакции.
// @Tags Registration
// @Produce  json
// @Param userId path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь удалён"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь или анкета не найдены"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registration/user/{userId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.removeuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userId")
	if userUID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	if err := h.registrationService.DeleteUserAndProfile(r.Context(), userUID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, repository.ErrProfileNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		default:
			log.Error("failed to delete user and profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("user and profile deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK("user and profile deleted successfully"))
}
