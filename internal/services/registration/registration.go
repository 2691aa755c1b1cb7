// Package registration содержит бизнес-логику регистрации: атомарное
// создание пользователя вместе с профилем, подтверждение email, повторную
// отправку письма подтверждения, чтение и каскадное удаление пары
// пользователь+профиль.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vrxmike/biodata/internal/lib/authz"
	"github.com/vrxmike/biodata/internal/lib/password"
	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/lib/token"
	"github.com/vrxmike/biodata/internal/models"
)

// ErrInvalidRole возвращается, если запрошенная роль не входит в список допустимых.
var ErrInvalidRole = errors.New("invalid role")

// Repository описывает контракт хранилища для воркфлоу регистрации.
type Repository interface {
	// CreateUserWithProfile атомарно создает пользователя и профиль.
	CreateUserWithProfile(ctx context.Context, user models.User, profile models.Profile) (string, string, error)
	// ConsumeEmailVerificationToken помечает email подтверждённым и гасит токен.
	ConsumeEmailVerificationToken(ctx context.Context, token string) error
	// SetEmailVerificationToken перезаписывает токен подтверждения.
	SetEmailVerificationToken(ctx context.Context, userUID, token string) error
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetProfileByUserUID возвращает профиль пользователя.
	GetProfileByUserUID(ctx context.Context, userUID string) (*models.Profile, error)
	// DeleteUserAndProfile атомарно удаляет пользователя и профиль.
	DeleteUserAndProfile(ctx context.Context, userUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// MailPublisher ставит письмо в очередь исходящей почты.
type MailPublisher interface {
	Publish(to, subject, body string) error
}

// RegistrationService реализует воркфлоу регистрации и подтверждения email.
type RegistrationService struct {
	repo      Repository
	cache     Cache
	mail      MailPublisher
	publicURL string
	log       *slog.Logger
}

// NewRegistrationService создает новый экземпляр RegistrationService.
func NewRegistrationService(repo Repository, cache Cache, mail MailPublisher, publicURL string, log *slog.Logger) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		cache:     cache,
		mail:      mail,
		publicURL: publicURL,
		log:       log,
	}
}

// RegisterResult — результат успешной регистрации. MailWarning заполняется,
// если учётная запись создана, но письмо подтверждения не удалось поставить
// в очередь: это предупреждение, а не ошибка запроса.
type RegisterResult struct {
	UserUID     string
	ProfileUID  string
	MailWarning string
}

// UserWithProfile — ответ на чтение пользователя вместе с анкетой.
type UserWithProfile struct {
	Email   string         `json:"email"`
	Profile models.Profile `json:"profile"`
}

func userCacheKey(userUID string) string {
	return fmt.Sprintf("user:%s", userUID)
}

// Register создает пользователя и профиль в одной транзакции хранилища,
// после фиксации ставит письмо подтверждения в очередь. Письмо — best
// effort: если очередь недоступна, учётная запись всё равно остаётся.
func (s *RegistrationService) Register(ctx context.Context, email, rawPassword, role string, profile models.Profile) (*RegisterResult, error) {
	const op = "registration.Register"

	if role == "" {
		role = authz.RoleStandardUser
	}
	if !authz.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	verificationToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:                  email,
		PasswordHash:           hashed,
		Role:                   role,
		EmailVerificationToken: &verificationToken,
	}
	profile.FillEmptySections()

	userUID, profileUID, err := s.repo.CreateUserWithProfile(ctx, user, profile)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", slog.String("user_uid", userUID), slog.String("profile_uid", profileUID))

	result := &RegisterResult{UserUID: userUID, ProfileUID: profileUID}

	body := fmt.Sprintf(
		"Please verify your email address by clicking on the following link: %s/api/v1/registration/verify-email?token=%s",
		s.publicURL, verificationToken)
	if err := s.mail.Publish(email, "Email Verification", body); err != nil {
		s.log.Warn("failed to enqueue verification email", sl.Err(err))
		result.MailWarning = "verification email could not be sent"
	}

	return result, nil
}

// VerifyEmail подтверждает email по токену. Токен одноразовый: повторное
// предъявление возвращает repository.ErrTokenNotFound.
func (s *RegistrationService) VerifyEmail(ctx context.Context, verificationToken string) error {
	if err := s.repo.ConsumeEmailVerificationToken(ctx, verificationToken); err != nil {
		return err
	}
	s.log.Info("email verified")
	return nil
}

// ResendVerification выпускает новый токен подтверждения, перекрывая прежний,
// и ставит письмо в очередь. Для неизвестного email возвращается
// repository.ErrUserNotFound.
func (s *RegistrationService) ResendVerification(ctx context.Context, email string) error {
	const op = "registration.ResendVerification"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	verificationToken, err := token.New()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.repo.SetEmailVerificationToken(ctx, user.UID, verificationToken); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Please verify your email address by clicking on the following link: %s/api/v1/registration/verify-email?token=%s",
		s.publicURL, verificationToken)
	if err := s.mail.Publish(user.Email, "Email Verification", body); err != nil {
		s.log.Warn("failed to enqueue verification email", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserAndProfile возвращает email пользователя вместе с профилем,
// используя кеш для повторных чтений.
func (s *RegistrationService) GetUserAndProfile(ctx context.Context, userUID string) (*UserWithProfile, error) {
	var cached UserWithProfile
	cacheKey := userCacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfileByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}

	result := &UserWithProfile{Email: user.Email, Profile: *profile}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// DeleteUserAndProfile каскадно удаляет пользователя и его профиль
// и инвалидирует кеш.
func (s *RegistrationService) DeleteUserAndProfile(ctx context.Context, userUID string) error {
	cacheKey := userCacheKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if err := s.repo.DeleteUserAndProfile(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("user and profile deleted", slog.String("user_uid", userUID))
	return nil
}
