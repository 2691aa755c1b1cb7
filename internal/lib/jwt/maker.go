package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken создает access-токен с uid и ролью пользователя,
// подписанный секретным ключом. Время жизни задаётся accessTTL.
func (j *MakerImpl) GenerateAccessToken(userUID, role string) (string, error) {
	return j.generate(userUID, role, j.secretKey, j.accessTTL)
}

// GenerateRefreshToken создает refresh-токен с теми же claims, но подписанный
// отдельным секретом и с большим временем жизни. Сам по себе токен ещё не даёт
// права на обновление сессии: он дополнительно сверяется со значением,
// сохранённым у пользователя.
func (j *MakerImpl) GenerateRefreshToken(userUID, role string) (string, error) {
	return j.generate(userUID, role, j.refreshSecretKey, j.refreshTTL)
}

func (j *MakerImpl) generate(userUID, role, secret string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserUID: userUID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken парсит access-токен, проверяет подпись и срок действия,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*CustomClaims, error) {
	return j.parse(tokenStr, j.secretKey)
}

// ParseRefreshToken парсит refresh-токен, подписанный refresh-секретом.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*CustomClaims, error) {
	return j.parse(tokenStr, j.refreshSecretKey)
}

func (j *MakerImpl) parse(tokenStr, secret string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
