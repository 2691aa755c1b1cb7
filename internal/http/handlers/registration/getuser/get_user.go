// Package getuser реализует HTTP-обработчик чтения пользователя вместе с
// его анкетой. Доступ разрешён владельцу записи и администратору.
package getuser

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
	"github.com/vrxmike/biodata/internal/services/registration"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения пользователя с анкетой.
type Service interface {
	GetUserAndProfile(ctx context.Context, userUID string) (*registration.UserWithProfile, error)
}

// Handler обрабатывает HTTP-запросы на чтение пользователя с анкетой.
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
// @Summary Получение пользователя с анкетой
// @Description Возвращает email пользователя и все секции его анкеты.
// @Tags Registration
// @Produce  json
// @Param userId path string true "UID пользователя"
// @Success 200 {object} response.Response "Пользователь и анкета"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь или анкета не найдены"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registration/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.getuser"

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

	result, err := h.registrationService.GetUserAndProfile(r.Context(), userUID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, repository.ErrProfileNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		default:
			log.Error("failed to get user and profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
