// Package verifyemailupdate реализует HTTP-обработчик подтверждения смены
// email по одноразовому токену из письма.
package verifyemailupdate

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

// Service описывает интерфейс бизнес-логики подтверждения смены email.
type Service interface {
	VerifyEmailUpdate(ctx context.Context, token string) error
}

// Handler обрабатывает HTTP-запросы на подтверждение смены email.
type Handler struct {
	log         *slog.Logger
	userService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, userService Service) *Handler {
	return &Handler{
		log:         log,
		userService: userService,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение смены email
// @Description Делает ожидающий адрес действующим email пользователя. Токен одноразовый.
// @Tags User
// @Produce  json
// @Param token path string true "Токен подтверждения"
// @Success 200 {object} response.Response "Email обновлён"
// @Failure 400 {object} response.ErrorResponse "Недействительный или просроченный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/verify-email-update/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.verifyemailupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	if err := h.userService.VerifyEmailUpdate(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired token"))
			return
		}
		log.Error("email update verification failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	render.JSON(w, r, response.OK("email updated successfully"))
}
