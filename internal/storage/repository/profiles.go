package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vrxmike/biodata/internal/models"
)

const profileColumns = `uid, user_uid, personal_info, voter_info, affiliations,
			  education, languages, religious_service, employment, health_info,
			  emergency_contact_info, documents, application_status, admin_notes,
			  admin_approval_date, admin_rejection_date, application_progress, created_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var (
		languages, applicationStatus, adminNotes sql.NullString
		approvalDate, rejectionDate              sql.NullTime
	)
	if err := row.Scan(&p.UID, &p.UserUID, &p.PersonalInfo, &p.VoterInfo,
		&p.Affiliations, &p.Education, &languages, &p.ReligiousService,
		&p.Employment, &p.HealthInfo, &p.EmergencyContactInfo, &p.Documents,
		&applicationStatus, &adminNotes, &approvalDate, &rejectionDate,
		&p.ApplicationProgress, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Languages = languages.String
	p.ApplicationStatus = applicationStatus.String
	p.AdminNotes = adminNotes.String
	if approvalDate.Valid {
		p.AdminApprovalDate = &approvalDate.Time
	}
	if rejectionDate.Valid {
		p.AdminRejectionDate = &rejectionDate.Time
	}
	return p, nil
}

// GetProfile возвращает профиль по его UID.
func (s *Storage) GetProfile(ctx context.Context, profileUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles
			  WHERE uid = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, profileUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProfileByUserUID возвращает профиль, принадлежащий пользователю.
func (s *Storage) GetProfileByUserUID(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfileByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles
			  WHERE user_uid = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProfileSections перезаписывает JSONB-секции и плоские поля анкеты.
func (s *Storage) UpdateProfileSections(ctx context.Context, profileUID string, p models.Profile) error {
	const op = "storage.UpdateProfileSections"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET personal_info = $1, voter_info = $2, affiliations = $3,
			      education = $4, languages = $5, religious_service = $6,
			      employment = $7, health_info = $8, emergency_contact_info = $9,
			      documents = $10, application_status = $11,
			      application_progress = $12
			  WHERE uid = $13`
	result, err := s.DB.ExecContext(ctx, query,
		p.PersonalInfo, p.VoterInfo, p.Affiliations, p.Education, p.Languages,
		p.ReligiousService, p.Employment, p.HealthInfo, p.EmergencyContactInfo,
		p.Documents, p.ApplicationStatus, p.ApplicationProgress, profileUID)
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
	return nil
}
