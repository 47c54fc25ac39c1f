// Package signup реализует HTTP-обработчик регистрации пользователей.
//
// В нём определяется структура Request для входных данных, выполняется
// декодирование JSON, проверка полей и делегирование операции регистрации
// бизнес-сервису. При успехе возвращается JSON с данными пользователя
// и сессионным токеном.
package signup

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
	"github.com/magabrotheeeer/auth-backend/internal/models"
	services "github.com/magabrotheeeer/auth-backend/internal/services/auth"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Fullname        string `json:"fullname" validate:"required"`
	Email           string `json:"email" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Signup(ctx context.Context, fullname, email, phoneNumber,
		password, confirmPassword string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
	const op = "handlers.auth.signup"

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

	user, token, err := h.auth.Signup(r.Context(), req.Fullname, req.Email,
		req.PhoneNumber, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingField),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrInvalidPhoneNumber),
			errors.Is(err, services.ErrPasswordMismatch),
			errors.Is(err, services.ErrEmailTaken):
			log.Error("signup rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("signup failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create user"))
		}
		return
	}

	log.Info("signup success", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Registered successfully",
		"user": map[string]any{
			"fullname":     user.Fullname,
			"email":        user.Email,
			"phone_number": user.PhoneNumber,
		},
		"token": token,
	}))
}
