// Package authbackend собирает все зависимости сервиса аутентификации
// и управляет жизненным циклом HTTP-сервера.
package authbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/auth-backend/internal/cache"
	"github.com/magabrotheeeer/auth-backend/internal/config"
	"github.com/magabrotheeeer/auth-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/auth-backend/internal/migrations"
	authservice "github.com/magabrotheeeer/auth-backend/internal/services/auth"
	profileservice "github.com/magabrotheeeer/auth-backend/internal/services/profile"
	senderservice "github.com/magabrotheeeer/auth-backend/internal/services/sender"
	"github.com/magabrotheeeer/auth-backend/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает базу, применяет миграции,
// поднимает Redis и собирает сервисы с обработчиками.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey)
	transport := smtp.NewTransport(cfg.EmailConnection, logger)
	sender := senderservice.NewSenderService(transport, cfg.ResetLinkURL, logger)

	authService := authservice.NewAuthService(db, jwtMaker, sender,
		cfg.SessionTokenTTL, cfg.ResetTokenTTL)
	profileService := profileservice.NewProfileService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, profileService)

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
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
