// Package authbackend предоставляет маршруты сервиса аутентификации.
package authbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/auth-backend/internal/config"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/health"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/auth-backend/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/auth-backend/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/auth-backend/internal/services/auth"
	profileservice "github.com/magabrotheeeer/auth-backend/internal/services/profile"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, profileService *profileservice.ProfileService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Запросы без заголовка Origin (не из браузера) пропускаются всегда,
	// браузерные — только с адресов из списка.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Открытые конечные точки
	r.Post("/signup", signup.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Post("/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
	r.Post("/reset-password", resetpassword.New(logger, authService).ServeHTTP)

	// Группа с проверкой сессионного токена
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(authService, logger))
		r.Get("/me", profile.New(logger, profileService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
