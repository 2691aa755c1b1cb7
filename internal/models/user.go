// Package models содержит доменную модель сервиса: учётную запись
// пользователя с полями одноразовых токенов и анкету-профиль.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Поля *Token хранят одноразовые непрозрачные токены. Каждый токен
// действителен до первого использования: его потребление обнуляет поле.
// Токен сброса пароля дополнительно ограничен сроком PasswordResetExpires.
type User struct {
	UID                    string     `json:"uid"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	Role                   string     `json:"role"`
	IsVerified             bool       `json:"is_verified"`
	IsActivated            bool       `json:"is_activated"`
	EmailVerificationToken *string    `json:"-"`
	RefreshToken           *string    `json:"-"`
	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpires   *time.Time `json:"-"`
	EmailUpdateToken       *string    `json:"-"`
	PendingNewEmail        *string    `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}
