// Package services реализует чтение профиля пользователя с кэшированием в Redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/auth-backend/internal/lib/sl"
	"github.com/magabrotheeeer/auth-backend/internal/models"
)

// Профиль неизменяем (операций редактирования нет), поэтому TTL кэша
// нужен только чтобы не держать записи вечно.
const profileCacheTTL = 10 * time.Minute

// UserProvider описывает чтение пользователя из хранилища.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает используемое подмножество операций кэша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Profile — публичные поля профиля пользователя. Хеш пароля и токен
// восстановления в кэш и в ответы не попадают.
type Profile struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// ProfileService отвечает за чтение профиля пользователя.
type ProfileService struct {
	users UserProvider
	cache Cache
	log   *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(users UserProvider, cache Cache, log *slog.Logger) *ProfileService {
	return &ProfileService{
		users: users,
		cache: cache,
		log:   log,
	}
}

// GetProfile возвращает профиль пользователя по UID, используя кэш.
// Ошибка кэша не фатальна: профиль читается из базы.
func (s *ProfileService) GetProfile(ctx context.Context, userUID string) (*Profile, error) {
	const op = "services.profile.GetProfile"
	cacheKey := "user_profile:" + userUID

	var cached Profile
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := &Profile{
		Fullname:    user.Fullname,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	}
	if err = s.cache.Set(ctx, cacheKey, profile, profileCacheTTL); err != nil {
		s.log.Warn("profile cache write failed", sl.Err(err))
	}
	return profile, nil
}
