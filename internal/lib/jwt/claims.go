// Package jwt реализует выпуск и проверку подписанных JWT токенов сессии:
// короткоживущего access-токена и долгоживущего refresh-токена.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"user_uid"` // Идентификатор пользователя
	Role                 string `json:"role"`     // Роль пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	GenerateAccessToken(userUID, role string) (string, error)
	GenerateRefreshToken(userUID, role string) (string, error)
	ParseAccessToken(tokenStr string) (*CustomClaims, error)
	ParseRefreshToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker. Access- и refresh-токены
// подписываются разными секретами, поэтому access-токен нельзя
// предъявить как refresh и наоборот.
type MakerImpl struct {
	secretKey        string
	refreshSecretKey string
	accessTTL        time.Duration
	refreshTTL       time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl с секретами и временем жизни токенов.
func NewJWTMaker(secretKey, refreshSecretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:        secretKey,
		refreshSecretKey: refreshSecretKey,
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
	}
}
