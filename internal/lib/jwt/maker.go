// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для выпуска и проверки токенов, несущих
// идентификатор пользователя и назначение токена (сессия или сброс пароля).
// MakerImpl — конкретная реализация с подписью секретным ключом.
package jwt

import (
	"time"
)

// Назначения токена. Сессионный токен предъявляется повторно до истечения
// срока, токен сброса пароля используется ровно один раз.
const (
	// PurposeSession — токен сессии после входа или регистрации.
	PurposeSession = "session"
	// PurposeReset — токен для восстановления пароля.
	PurposeReset = "reset"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен с идентификатором пользователя,
	// назначением и абсолютным сроком истечения now + ttl.
	GenerateToken(userUID, purpose string, ttl time.Duration) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает *CustomClaims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа.
type MakerImpl struct {
	secretKey string // Секретный ключ для подписи токенов.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа.
func NewJWTMaker(secretKey string) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
	}
}
