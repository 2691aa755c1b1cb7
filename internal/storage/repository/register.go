package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vrxmike/biodata/internal/models"
)

// isUniqueViolation сообщает, что ошибка вызвана нарушением уникального
// ограничения (код 23505). Так проявляется гонка двух регистраций с одним
// email: обе проходят предварительную проверку занятости, но вставку
// выполняет только одна.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateUserWithProfile выполняет регистрацию как одну транзакцию:
// проверка занятости email, вставка пользователя, вставка профиля и
// сохранение токена подтверждения. Либо фиксируются обе записи, либо
// ни одной — параллельные читатели никогда не увидят пользователя
// без профиля.
func (s *Storage) CreateUserWithProfile(ctx context.Context, user models.User, profile models.Profile) (string, string, error) {
	const op = "storage.CreateUserWithProfile"
	select {
	case <-ctx.Done():
		return "", "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		user.Email).Scan(&exists)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return "", "", fmt.Errorf("%s: %w", op, ErrEmailExists)
	}

	var userUID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role, email_verification_token)
		 VALUES ($1, $2, $3, $4)
		 RETURNING uid`,
		user.Email, user.PasswordHash, user.Role, user.EmailVerificationToken).Scan(&userUID)
	if isUniqueViolation(err) {
		return "", "", fmt.Errorf("%s: %w", op, ErrEmailExists)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	var profileUID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO profiles (user_uid, personal_info, voter_info, affiliations,
		     education, languages, religious_service, employment, health_info,
		     emergency_contact_info, documents, application_status, application_progress)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING uid`,
		userUID, profile.PersonalInfo, profile.VoterInfo, profile.Affiliations,
		profile.Education, profile.Languages, profile.ReligiousService,
		profile.Employment, profile.HealthInfo, profile.EmergencyContactInfo,
		profile.Documents, profile.ApplicationStatus, profile.ApplicationProgress).Scan(&profileUID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, profileUID, nil
}

// DeleteUserAndProfile удаляет пользователя вместе с профилем в одной
// транзакции. Пользователь не может остаться без профиля и наоборот.
func (s *Storage) DeleteUserAndProfile(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUserAndProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var uid string
	err = tx.QueryRowContext(ctx, `SELECT uid FROM users WHERE uid = $1`, userUID).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
