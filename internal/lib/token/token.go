// Package token генерирует одноразовые непрозрачные токены для подтверждения
// email, сброса пароля и смены адреса. Токен — это случайная
// криптографически стойкая строка; все связанные с ним данные хранятся
// на стороне сервера, в самом токене ничего не закодировано.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenBytes — количество случайных байт в токене. 20 байт энтропии
// дают 40 символов hex, подобрать такой токен перебором невозможно.
const tokenBytes = 20

// New возвращает новый одноразовый токен в hex-кодировке.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}

// NewWithExpiry возвращает токен вместе с моментом истечения его срока
// действия. Используется для токенов сброса пароля, которые действуют
// ограниченное время.
func NewWithExpiry(ttl time.Duration) (string, time.Time, error) {
	t, err := New()
	if err != nil {
		return "", time.Time{}, err
	}
	return t, time.Now().UTC().Add(ttl), nil
}
