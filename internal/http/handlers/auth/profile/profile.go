// Package profile реализует HTTP-обработчик чтения профиля текущего пользователя.
//
// Идентификатор пользователя берется из контекста запроса, куда его кладет
// SessionMiddleware после проверки сессионного токена.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-backend/internal/http/response"
	"github.com/magabrotheeeer/auth-backend/internal/lib/sl"
	profileservice "github.com/magabrotheeeer/auth-backend/internal/services/profile"
	"github.com/magabrotheeeer/auth-backend/internal/storage/repository"
)

// Service описывает интерфейс чтения профиля.
type Service interface {
	GetProfile(ctx context.Context, userUID string) (*profileservice.Profile, error)
}

// Handler обрабатывает HTTP-запросы профиля.
type Handler struct {
	log     *slog.Logger
	profile Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, profile Service) *Handler {
	return &Handler{
		log:     log,
		profile: profile,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("user uid missing in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	profile, err := h.profile.GetProfile(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Error("user from token not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": profile,
	}))
}
