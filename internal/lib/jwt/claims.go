// Package jwt реализует генерацию и парсинг JWT токенов сессии с
// пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с UID и ролью
// пользователя. MakerImpl — конкретная реализация с использованием секретного
// ключа и срока жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
//
// Методы позволяют создавать токен с указанием UID и роли пользователя,
// а также разбирать токен и извлекать из него кастомные данные.
type Maker interface {
	// GenerateToken создает токен сессии для пользователя с заданной ролью
	GenerateToken(userUID, role string) (string, error)
	// ParseToken возвращает *CustomClaims с UID и ролью
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
