// Package forgotpassword реализует HTTP-обработчик запроса восстановления пароля.
//
// Обработчик делегирует выдачу токена восстановления и отправку письма
// бизнес-сервису. Ответ при успехе намеренно не раскрывает ничего,
// кроме факта принятия запроса.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/auth-backend/internal/http/response"
	"github.com/magabrotheeeer/auth-backend/internal/lib/sl"
	services "github.com/magabrotheeeer/auth-backend/internal/services/auth"
)

// Request — структура входных данных для запроса восстановления пароля.
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Service описывает интерфейс бизнес-логики восстановления пароля.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы восстановления пароля.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

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
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			log.Error("reset request rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			log.Error("reset request for unknown user", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("reset request failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to send reset email"))
		}
		return
	}

	log.Info("reset email sent", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Password reset link sent to your email",
	}))
}
