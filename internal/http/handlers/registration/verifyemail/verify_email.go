// Package verifyemail реализует HTTP-обработчик подтверждения email по
// одноразовому токену из письма.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vrxmike/biodata/internal/http/response"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики подтверждения email.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// Handler обрабатывает HTTP-запросы на подтверждение email.
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
// @Summary Подтверждение email
// @Description Подтверждает email по токену из письма. Токен одноразовый: повторный вызов возвращает 400.
// @Tags Registration
// @Produce  json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} response.Response "Email подтвержден"
// @Failure 400 {object} response.ErrorResponse "Недействительный или просроченный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /registration/verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.verifyemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("missing token query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	if err := h.registrationService.VerifyEmail(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired token"))
			return
		}
		log.Error("email verification failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	render.JSON(w, r, response.OK("email verified successfully"))
}
