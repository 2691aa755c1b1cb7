// Package biodata предоставляет маршруты для основного приложения.
package biodata

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vrxmike/biodata/internal/http/handlers/auth/login"
	"github.com/vrxmike/biodata/internal/http/handlers/auth/logout"
	"github.com/vrxmike/biodata/internal/http/handlers/auth/refresh"
	"github.com/vrxmike/biodata/internal/http/handlers/auth/resetpassword"
	"github.com/vrxmike/biodata/internal/http/handlers/auth/resetrequest"
	profileread "github.com/vrxmike/biodata/internal/http/handlers/profile/read"
	profileupdate "github.com/vrxmike/biodata/internal/http/handlers/profile/update"
	"github.com/vrxmike/biodata/internal/http/handlers/registration/getuser"
	"github.com/vrxmike/biodata/internal/http/handlers/registration/register"
	"github.com/vrxmike/biodata/internal/http/handlers/registration/removeuser"
	"github.com/vrxmike/biodata/internal/http/handlers/registration/resendverification"
	"github.com/vrxmike/biodata/internal/http/handlers/registration/verifyemail"
	"github.com/vrxmike/biodata/internal/http/handlers/user/requestemailupdate"
	"github.com/vrxmike/biodata/internal/http/handlers/user/verifyemailupdate"
	"github.com/vrxmike/biodata/internal/http/middlewarectx"
	"github.com/vrxmike/biodata/internal/metrics"
	authservice "github.com/vrxmike/biodata/internal/services/auth"
	profileservice "github.com/vrxmike/biodata/internal/services/profile"
	registrationservice "github.com/vrxmike/biodata/internal/services/registration"
	userservice "github.com/vrxmike/biodata/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	registrationService *registrationservice.RegistrationService,
	userService *userservice.UserService,
	profileService *profileservice.ProfileService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/registration/register", register.New(logger, registrationService).ServeHTTP)
		r.Get("/registration/verify-email", verifyemail.New(logger, registrationService).ServeHTTP)
		r.Post("/registration/resend-verification", resendverification.New(logger, registrationService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Post("/auth/request-password-reset", resetrequest.New(logger, userService).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, userService).ServeHTTP)
		r.Get("/user/verify-email-update/{token}", verifyemailupdate.New(logger, userService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/user/request-email-update", requestemailupdate.New(logger, userService).ServeHTTP)
			r.Get("/profile/{profileId}", profileread.New(logger, profileService).ServeHTTP)
			r.Put("/profile/{profileId}", profileupdate.New(logger, profileService).ServeHTTP)

			// Чтение и удаление учётной записи: владелец либо администратор
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSelfOrAdmin("userId", logger))
				r.Get("/registration/user/{userId}", getuser.New(logger, registrationService).ServeHTTP)
				r.Delete("/registration/user/{userId}", removeuser.New(logger, registrationService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
