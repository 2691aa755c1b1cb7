// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Тело запроса содержит учётные данные и секции анкеты. Пользователь и
// профиль создаются атомарно; письмо подтверждения отправляется после
// фиксации транзакции, его неудача не отменяет регистрацию.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vrxmike/biodata/internal/http/response"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/services/registration"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Request — входные данные для регистрации: учётные данные и секции анкеты.
// Неизвестные секции отбрасываются при декодировании, отсутствующие
// сохраняются пустыми объектами.
type Request struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Role           string `json:"role"`
	models.Profile        // секции анкеты: personal_info, voter_info и далее
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, password, role string, profile models.Profile) (*registration.RegisterResult, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log                 *slog.Logger
	registrationService Service
	validate            *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, registrationService Service) *Handler {
	return &Handler{
		log:                 log,
		registrationService: registrationService,
		validate:            validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и анкету атомарно, отправляет письмо подтверждения email.
// @Tags Registration
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные и секции анкеты"
// @Success 201 {object} response.Response "Регистрация выполнена"
// @Failure 400 {object} response.ErrorResponse "Недопустимая роль или занятый email"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /registration/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.StructExcept(req, "Profile"); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.registrationService.Register(r.Context(), req.Email, req.Password, req.Role, req.Profile)
	if err != nil {
		switch {
		case errors.Is(err, registration.ErrInvalidRole):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid role"))
		case errors.Is(err, repository.ErrEmailExists):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already exists"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("error during registration"))
		}
		return
	}

	data := map[string]any{
		"userUid":    result.UserUID,
		"profileUid": result.ProfileUID,
		"message":    "registration successful",
	}
	if result.MailWarning != "" {
		data["warning"] = result.MailWarning
	}

	log.Info("user registered", slog.String("user_uid", result.UserUID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(data))
}
