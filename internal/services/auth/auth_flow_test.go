package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/auth-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-backend/internal/models"
	services "github.com/magabrotheeeer/auth-backend/internal/services/auth"
	"github.com/magabrotheeeer/auth-backend/internal/storage/repository"
)

// memoryUserRepo — хранилище в памяти для сквозных тестов жизненного цикла.
// Повторяет контрактные гарантии настоящего хранилища: уникальный email,
// обновление пароля только при совпадении сохраненного токена.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // ключ — UID
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return "", fmt.Errorf("memory: %w", repository.ErrEmailExists)
		}
	}
	user.UID = uuid.NewString()
	r.users[user.UID] = &user
	return user.UID, nil
}

func (r *memoryUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepo) GetUser(_ context.Context, userUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userUID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) UpdateResetToken(_ context.Context, userUID, resetToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userUID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken = &resetToken
	return nil
}

func (r *memoryUserRepo) UpdatePasswordByResetToken(_ context.Context, userUID, passwordHash, resetToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userUID]
	if !ok || u.ResetToken == nil || *u.ResetToken != resetToken {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	return nil
}

// recordingSender запоминает последний отправленный токен вместо отправки письма.
type recordingSender struct {
	lastEmail string
	lastToken string
}

func (s *recordingSender) SendPasswordResetLink(email, _, resetToken string) error {
	s.lastEmail = email
	s.lastToken = resetToken
	return nil
}

func TestAuthService_FullPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	sender := &recordingSender{}
	maker := customjwt.NewJWTMaker("flow_test_secret_key")
	svc := services.NewAuthService(repo, maker, sender, time.Hour, 15*time.Minute)

	// Регистрация.
	user, token, err := svc.Signup(ctx, "Flow User", "flow@example.com", "+14155551234",
		"old_password", "old_password")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, user.UID)

	// Запрос восстановления: токен уходит в письмо и сохраняется в записи.
	require.NoError(t, svc.RequestPasswordReset(ctx, "flow@example.com"))
	require.NotEmpty(t, sender.lastToken)

	stored, err := repo.GetUserByEmail(ctx, "flow@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	assert.Equal(t, sender.lastToken, *stored.ResetToken)

	// Завершение восстановления.
	require.NoError(t, svc.CompletePasswordReset(ctx, sender.lastToken, "new_password"))

	// Новый пароль работает, старый — нет.
	_, _, err = svc.Login(ctx, "flow@example.com", "new_password")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "flow@example.com", "old_password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Повторное использование токена отклоняется: запись уже очищена.
	err = svc.CompletePasswordReset(ctx, sender.lastToken, "another_password")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}

func TestAuthService_RepeatResetRequestInvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	sender := &recordingSender{}
	maker := customjwt.NewJWTMaker("flow_test_secret_key")
	svc := services.NewAuthService(repo, maker, sender, time.Hour, 15*time.Minute)

	_, _, err := svc.Signup(ctx, "Flow User", "repeat@example.com", "+14155551234",
		"password123", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "repeat@example.com"))
	firstToken := sender.lastToken

	// Токены содержат секунду выпуска; для различимости ждем смены секунды.
	time.Sleep(1100 * time.Millisecond)

	require.NoError(t, svc.RequestPasswordReset(ctx, "repeat@example.com"))
	secondToken := sender.lastToken
	require.NotEqual(t, firstToken, secondToken)

	// Старый токен вытеснен последним запросом.
	err = svc.CompletePasswordReset(ctx, firstToken, "new_password")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)

	// Последний токен работает.
	assert.NoError(t, svc.CompletePasswordReset(ctx, secondToken, "new_password"))
}

func TestAuthService_SignupTwiceKeepsSingleRecord(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryUserRepo()
	maker := customjwt.NewJWTMaker("flow_test_secret_key")
	svc := services.NewAuthService(repo, maker, &recordingSender{}, time.Hour, 15*time.Minute)

	_, _, err := svc.Signup(ctx, "First", "dup@example.com", "+14155551234",
		"password123", "password123")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Second", "dup@example.com", "+14155559999",
		"password456", "password456")
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	assert.Len(t, repo.users, 1)
	stored, err := repo.GetUserByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", stored.Fullname)
}

func TestAuthService_ValidateSessionToken(t *testing.T) {
	maker := customjwt.NewJWTMaker("flow_test_secret_key")
	svc := services.NewAuthService(newMemoryUserRepo(), maker, &recordingSender{}, time.Hour, 15*time.Minute)

	sessionToken, err := maker.GenerateToken("uid-1", customjwt.PurposeSession, time.Hour)
	require.NoError(t, err)
	resetToken, err := maker.GenerateToken("uid-1", customjwt.PurposeReset, 15*time.Minute)
	require.NoError(t, err)

	uid, err := svc.ValidateSessionToken(context.Background(), sessionToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	// Токен сброса пароля не дает доступа к сессионным ресурсам.
	_, err = svc.ValidateSessionToken(context.Background(), resetToken)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.ValidateSessionToken(context.Background(), "garbage")
	assert.Error(t, err)
}
