package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vrxmike/biodata/internal/models"
)

const userColumns = `uid, email, password_hash, role, is_verified, is_activated,
			  email_verification_token, refresh_token, password_reset_token,
			  password_reset_expires, email_update_token, pending_new_email,
			  created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		verificationToken, refreshToken, resetToken sql.NullString
		emailUpdateToken, pendingNewEmail           sql.NullString
		resetExpires                                sql.NullTime
	)
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&u.IsActivated, &verificationToken, &refreshToken, &resetToken,
		&resetExpires, &emailUpdateToken, &pendingNewEmail,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if verificationToken.Valid {
		u.EmailVerificationToken = &verificationToken.String
	}
	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}
	if resetToken.Valid {
		u.PasswordResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		u.PasswordResetExpires = &resetExpires.Time
	}
	if emailUpdateToken.Valid {
		u.EmailUpdateToken = &emailUpdateToken.String
	}
	if pendingNewEmail.Valid {
		u.PendingNewEmail = &pendingNewEmail.String
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email. Поиск регистронезависимый:
// при входе в систему a@b.com и A@B.COM считаются одним адресом.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateRefreshToken перезаписывает refresh-токен пользователя. Передача nil
// очищает токен (logout). Прежний токен при этом перестаёт действовать:
// валидность проверяется точным совпадением с сохранённым значением.
func (s *Storage) UpdateRefreshToken(ctx context.Context, userUID string, refreshToken *string) error {
	const op = "storage.UpdateRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET refresh_token = $1, updated_at = now()
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, refreshToken, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetEmailVerificationToken сохраняет новый токен подтверждения email,
// перезаписывая предыдущий непотреблённый токен.
func (s *Storage) SetEmailVerificationToken(ctx context.Context, userUID, token string) error {
	const op = "storage.SetEmailVerificationToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email_verification_token = $1, updated_at = now()
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, token, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ConsumeEmailVerificationToken отмечает email подтверждённым и обнуляет токен
// одним условным UPDATE. При гонке двух запросов с одним токеном строку
// изменит ровно один из них, второй получит ErrTokenNotFound.
func (s *Storage) ConsumeEmailVerificationToken(ctx context.Context, token string) error {
	const op = "storage.ConsumeEmailVerificationToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_verified = TRUE, email_verification_token = NULL, updated_at = now()
			  WHERE email_verification_token = $1`
	result, err := s.DB.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}
	return nil
}

// SetPasswordResetToken сохраняет токен сброса пароля вместе со сроком действия.
func (s *Storage) SetPasswordResetToken(ctx context.Context, userUID, token string, expires time.Time) error {
	const op = "storage.SetPasswordResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_reset_token = $1, password_reset_expires = $2, updated_at = now()
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, token, expires, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ConsumePasswordResetToken меняет хэш пароля по токену сброса. Токен
// принимается только до истечения срока действия; просроченный токен
// неотличим от отсутствующего.
func (s *Storage) ConsumePasswordResetToken(ctx context.Context, token, newPasswordHash string) error {
	const op = "storage.ConsumePasswordResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $2, password_reset_token = NULL,
			      password_reset_expires = NULL, updated_at = now()
			  WHERE password_reset_token = $1 AND password_reset_expires > now()`
	result, err := s.DB.ExecContext(ctx, query, token, newPasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}
	return nil
}

// SetEmailUpdateToken сохраняет токен смены email и новый адрес,
// ожидающий подтверждения.
func (s *Storage) SetEmailUpdateToken(ctx context.Context, userUID, token, newEmail string) error {
	const op = "storage.SetEmailUpdateToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email_update_token = $1, pending_new_email = $2, updated_at = now()
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, token, newEmail, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ConsumeEmailUpdateToken переносит pending_new_email в email и обнуляет
// токен одним условным UPDATE. Возвращает uid пользователя и новый адрес.
func (s *Storage) ConsumeEmailUpdateToken(ctx context.Context, token string) (string, string, error) {
	const op = "storage.ConsumeEmailUpdateToken"
	select {
	case <-ctx.Done():
		return "", "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = pending_new_email, pending_new_email = NULL,
			      email_update_token = NULL, updated_at = now()
			  WHERE email_update_token = $1 AND pending_new_email IS NOT NULL
			  RETURNING uid, email`
	var userUID, newEmail string
	err := s.DB.QueryRowContext(ctx, query, token).Scan(&userUID, &newEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, newEmail, nil
}
