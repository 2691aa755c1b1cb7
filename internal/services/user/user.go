// Package user содержит бизнес-логику самообслуживания учётной записи:
// запрос и выполнение сброса пароля, запрос и подтверждение смены email.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vrxmike/biodata/internal/lib/password"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/lib/token"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// resetTokenTTL — срок действия токена сброса пароля.
const resetTokenTTL = time.Hour

// Repository описывает контракт хранилища для операций с учётной записью.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetPasswordResetToken(ctx context.Context, userUID, token string, expires time.Time) error
	ConsumePasswordResetToken(ctx context.Context, token, newPasswordHash string) error
	SetEmailUpdateToken(ctx context.Context, userUID, token, newEmail string) error
	ConsumeEmailUpdateToken(ctx context.Context, token string) (string, string, error)
}

// Cache описывает методы для инвалидации закешированных чтений.
type Cache interface {
	Invalidate(key string) error
}

// MailPublisher ставит письмо в очередь исходящей почты.
type MailPublisher interface {
	Publish(to, subject, body string) error
}

// UserService реализует воркфлоу сброса пароля и смены email.
type UserService struct {
	repo      Repository
	cache     Cache
	mail      MailPublisher
	publicURL string
	log       *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo Repository, cache Cache, mail MailPublisher, publicURL string, log *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		cache:     cache,
		mail:      mail,
		publicURL: publicURL,
		log:       log,
	}
}

// RequestPasswordReset выпускает токен сброса пароля со сроком действия один
// час, перекрывая прежний токен, и ставит письмо со ссылкой в очередь.
// Для неизвестного email возвращается repository.ErrUserNotFound.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "user.RequestPasswordReset"

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetToken, expires, err := token.NewWithExpiry(resetTokenTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.SetPasswordResetToken(ctx, u.UID, resetToken, expires); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n"+
			"Please click on the following link, or paste this into your browser to complete the process:\n\n"+
			"%s/reset-password?token=%s\n\n"+
			"If you did not request this, please ignore this email and your password will remain unchanged.\n",
		s.publicURL, resetToken)
	if err := s.mail.Publish(u.Email, "Password Reset", body); err != nil {
		s.log.Warn("failed to enqueue password reset email", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password reset requested", slog.String("user_uid", u.UID))
	return nil
}

// ResetPassword меняет пароль по токену сброса. Токен одноразовый и
// действителен только до истечения срока: просроченный или уже потреблённый
// токен даёт repository.ErrTokenNotFound.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	const op = "user.ResetPassword"

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.ConsumePasswordResetToken(ctx, resetToken, hashed); err != nil {
		return err
	}

	s.log.Info("password reset completed")
	return nil
}

// RequestEmailUpdate сохраняет новый адрес как ожидающий подтверждения
// и отправляет ссылку подтверждения на этот новый адрес. Занятый адрес
// отклоняется сразу с repository.ErrEmailExists, а не в момент
// подтверждения.
func (s *UserService) RequestEmailUpdate(ctx context.Context, userUID, newEmail string) error {
	const op = "user.RequestEmailUpdate"

	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}

	taken, err := s.repo.GetUserByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	if taken != nil {
		return fmt.Errorf("%s: %w", op, repository.ErrEmailExists)
	}

	updateToken, err := token.New()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.SetEmailUpdateToken(ctx, u.UID, updateToken, newEmail); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Please click on the following link, or paste this into your browser to complete the process:\n\n"+
			"%s/api/v1/user/verify-email-update/%s\n\n"+
			"If you did not request this, please ignore this email and your email address will remain unchanged.\n",
		s.publicURL, updateToken)
	if err := s.mail.Publish(newEmail, "Email Update Verification", body); err != nil {
		s.log.Warn("failed to enqueue email update message", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email update requested", slog.String("user_uid", u.UID))
	return nil
}

// VerifyEmailUpdate подтверждает смену адреса: pending-адрес становится
// основным, токен гасится, закешированное чтение пользователя сбрасывается.
func (s *UserService) VerifyEmailUpdate(ctx context.Context, updateToken string) error {
	userUID, newEmail, err := s.repo.ConsumeEmailUpdateToken(ctx, updateToken)
	if err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("user:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("email updated", slog.String("user_uid", userUID), slog.String("email", newEmail))
	return nil
}
