// Package services содержит логику бизнес-уровня для работы с учетными
// записями: регистрацию, вход, запрос и завершение восстановления пароля.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/auth-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-backend/internal/lib/password"
	"github.com/magabrotheeeer/auth-backend/internal/lib/validation"
	"github.com/magabrotheeeer/auth-backend/internal/models"
	"github.com/magabrotheeeer/auth-backend/internal/storage/repository"
)

// Ошибки операций аутентификации. HTTP-слой сравнивает их через errors.Is
// и переводит в статусы ответов.
var (
	// ErrMissingField — один из обязательных параметров пуст.
	ErrMissingField = errors.New("all fields are required")
	// ErrInvalidEmail — email не прошел синтаксическую проверку.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPhoneNumber — номер телефона не соответствует E.164.
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	// ErrPasswordMismatch — пароль и подтверждение не совпадают.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль. Текст одинаков
	// для несуществующего пользователя и неверного пароля.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound — пользователь с таким email не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrSendFailed — письмо со ссылкой восстановления не отправлено.
	ErrSendFailed = errors.New("failed to send reset email")
	// ErrInvalidResetToken — токен восстановления невалиден, истек,
	// уже использован или вытеснен более новым.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateResetToken записывает пользователю токен восстановления пароля.
	UpdateResetToken(ctx context.Context, userUID, resetToken string) error

	// UpdatePasswordByResetToken атомарно записывает новый хеш пароля
	// и очищает токен восстановления при совпадении сохраненного токена.
	UpdatePasswordByResetToken(ctx context.Context, userUID, passwordHash, resetToken string) error
}

// ResetSender описывает отправку письма со ссылкой восстановления пароля.
type ResetSender interface {
	SendPasswordResetLink(email, fullname, resetToken string) error
}

// AuthService отвечает за регистрацию, вход и восстановление пароля.
type AuthService struct {
	users      UserRepository
	jwtMaker   jwt.Maker
	sender     ResetSender
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, sender ResetSender,
	sessionTTL, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwtMaker:   jwtMaker,
		sender:     sender,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// Signup регистрирует нового пользователя и выдает сессионный токен.
//
// Уникальность email гарантируется ограничением схемы: предварительный
// поиск не выполняется, дубликат вставки переводится в ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, fullname, email, phoneNumber,
	rawPassword, confirmPassword string) (*models.User, string, error) {
	const op = "services.auth.Signup"

	if fullname == "" || email == "" || phoneNumber == "" || rawPassword == "" || confirmPassword == "" {
		return nil, "", ErrMissingField
	}
	if !validation.IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if !validation.IsValidPhoneNumber(phoneNumber) {
		return nil, "", ErrInvalidPhoneNumber
	}
	if rawPassword != confirmPassword {
		return nil, "", ErrPasswordMismatch
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Fullname:     fullname,
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: hashed,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	token, err := s.jwtMaker.GenerateToken(uid, jwt.PurposeSession, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &user, token, nil
}

// Login проверяет пару email/пароль и выдает сессионный токен.
//
// Несуществующий пользователь и неверный пароль дают одинаковую ошибку,
// чтобы не раскрывать, зарегистрирован ли адрес.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	if !validation.IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, jwt.PurposeSession, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// RequestPasswordReset выдает токен восстановления, сохраняет его
// в записи пользователя и отправляет письмо со ссылкой.
//
// Повторный запрос перезаписывает прежний токен: действителен только
// последний. Если письмо отправить не удалось, токен остается в базе —
// повторный запрос выдаст новый и вытеснит его.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "services.auth.RequestPasswordReset"

	if !validation.IsValidEmail(email) {
		return ErrInvalidEmail
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	resetToken, err := s.jwtMaker.GenerateToken(user.UID, jwt.PurposeReset, s.resetTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.UpdateResetToken(ctx, user.UID, resetToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.sender.SendPasswordResetLink(user.Email, user.Fullname, resetToken); err != nil {
		return fmt.Errorf("%s: %w", op, ErrSendFailed)
	}
	return nil
}

// CompletePasswordReset проверяет токен восстановления и устанавливает
// новый пароль. Токен обязан совпадать с сохраненным в записи пользователя:
// это отсекает повторное использование после завершенного восстановления
// и токены, вытесненные более новым запросом.
//
// Новый сессионный токен не выдается — пользователь входит заново.
func (s *AuthService) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	const op = "services.auth.CompletePasswordReset"

	if resetToken == "" || newPassword == "" {
		return ErrMissingField
	}

	claims, err := s.jwtMaker.ParseToken(resetToken)
	if err != nil || claims.Purpose != jwt.PurposeReset {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.ResetToken == nil || *user.ResetToken != resetToken {
		return ErrInvalidResetToken
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.users.UpdatePasswordByResetToken(ctx, user.UID, hashed, resetToken); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateSessionToken проверяет сессионный токен и возвращает UID
// пользователя. Токены восстановления пароля здесь не принимаются.
func (s *AuthService) ValidateSessionToken(_ context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil || claims.Purpose != jwt.PurposeSession {
		return "", ErrInvalidCredentials
	}
	return claims.UserUID, nil
}
