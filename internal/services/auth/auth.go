// Package auth содержит бизнес-логику аутентификации: вход по email и
// паролю, обновление access-токена по refresh-токену и выход из системы.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	jwtlib "github.com/vrxmike/biodata/internal/lib/jwt"
	"github.com/vrxmike/biodata/internal/lib/password"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверном email или пароле.
// Ошибка намеренно одна на оба случая: по ответу нельзя определить,
// существует ли учётная запись.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefreshToken возвращается, если refresh-токен не прошёл проверку
// подписи, пользователь не найден или предъявленное значение не совпадает
// с сохранённым.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя по email (регистронезависимо).
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateRefreshToken перезаписывает сохранённый refresh-токен; nil очищает его.
	UpdateRefreshToken(ctx context.Context, userUID string, refreshToken *string) error
}

// AuthService отвечает за вход, обновление сессии и выход.
type AuthService struct {
	users    UserRepository
	jwtMaker jwtlib.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwtlib.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет учётные данные и выдаёт пару access/refresh токенов.
// Новый refresh-токен перезаписывает сохранённый, поэтому все ранее
// выданные refresh-токены становятся недействительными.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (access, refresh string, err error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	access, err = s.jwtMaker.GenerateAccessToken(user.UID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	refresh, err = s.jwtMaker.GenerateRefreshToken(user.UID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err = s.users.UpdateRefreshToken(ctx, user.UID, &refresh); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("user_uid", user.UID))
	return access, refresh, nil
}

// Refresh выдаёт новый access-токен по refresh-токену. Помимо подписи
// проверяется точное совпадение с токеном, сохранённым у пользователя:
// после нового входа или выхода старый refresh-токен отклоняется.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "auth.Refresh"

	claims, err := s.jwtMaker.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		s.log.Warn("refresh token mismatch", slog.String("user_uid", user.UID))
		return "", ErrInvalidRefreshToken
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return access, nil
}

// Logout очищает сохранённый refresh-токен пользователя.
func (s *AuthService) Logout(ctx context.Context, userUID string) error {
	const op = "auth.Logout"

	if err := s.users.UpdateRefreshToken(ctx, userUID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged out", slog.String("user_uid", userUID))
	return nil
}

// ValidateToken проверяет access-токен и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, tokenStr string) (*jwtlib.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseAccessToken(tokenStr)
	if err != nil {
		s.log.Debug("access token rejected", sl.Err(err))
		return nil, err
	}
	return claims, nil
}
