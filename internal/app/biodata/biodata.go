// Package biodata собирает HTTP-приложение: хранилище, миграции, кеш,
// очередь исходящей почты, сервисы и маршруты.
package biodata

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/vrxmike/biodata/internal/cache"
	"github.com/vrxmike/biodata/internal/config"
	jwtlib "github.com/vrxmike/biodata/internal/lib/jwt"
	"github.com/vrxmike/biodata/internal/mail"
	"github.com/vrxmike/biodata/internal/migrations"
	"github.com/vrxmike/biodata/internal/rabbitmq"
	authservice "github.com/vrxmike/biodata/internal/services/auth"
	profileservice "github.com/vrxmike/biodata/internal/services/profile"
	registrationservice "github.com/vrxmike/biodata/internal/services/registration"
	userservice "github.com/vrxmike/biodata/internal/services/user"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = db.CheckReady(ctx); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetMailQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	mailPublisher := mail.NewQueuePublisher(ch, cfg.MailFrom)
	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.RefreshSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, logger)
	registrationService := registrationservice.NewRegistrationService(db, cacheRedis, mailPublisher, cfg.PublicURL, logger)
	userService := userservice.NewUserService(db, cacheRedis, mailPublisher, cfg.PublicURL, logger)
	profileService := profileservice.NewProfileService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, registrationService, userService, profileService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
