package models

import (
	"encoding/json"
	"time"
)

// Profile — анкета заявителя, связанная один-к-одному с пользователем.
//
// Секции анкеты полуструктурированы и хранятся как JSONB: сервис не
// интерпретирует их содержимое, валидация на этом уровне ограничивается
// наличием и типом. Неизвестные секции во входных данных отбрасываются,
// отсутствующие сохраняются пустыми объектами.
type Profile struct {
	UID                  string          `json:"uid"`
	UserUID              string          `json:"user_uid"`
	PersonalInfo         json.RawMessage `json:"personal_info"`
	VoterInfo            json.RawMessage `json:"voter_info"`
	Affiliations         json.RawMessage `json:"affiliations"`
	Education            json.RawMessage `json:"education"`
	Languages            string          `json:"languages"`
	ReligiousService     json.RawMessage `json:"religious_service"`
	Employment           json.RawMessage `json:"employment"`
	HealthInfo           json.RawMessage `json:"health_info"`
	EmergencyContactInfo json.RawMessage `json:"emergency_contact_info"`
	Documents            json.RawMessage `json:"documents"`
	ApplicationStatus    string          `json:"application_status"`
	AdminNotes           string          `json:"admin_notes,omitempty"`
	AdminApprovalDate    *time.Time      `json:"admin_approval_date,omitempty"`
	AdminRejectionDate   *time.Time      `json:"admin_rejection_date,omitempty"`
	ApplicationProgress  json.RawMessage `json:"application_progress"`
	CreatedAt            time.Time       `json:"created_at"`
}

// emptyObject — значение JSONB-секции, если она не передана в запросе.
var emptyObject = json.RawMessage(`{}`)

// FillEmptySections заменяет отсутствующие секции пустыми объектами,
// чтобы в хранилище всегда попадал корректный JSON.
func (p *Profile) FillEmptySections() {
	sections := []*json.RawMessage{
		&p.PersonalInfo, &p.VoterInfo, &p.Affiliations, &p.Education,
		&p.ReligiousService, &p.Employment, &p.HealthInfo,
		&p.EmergencyContactInfo, &p.Documents, &p.ApplicationProgress,
	}
	for _, s := range sections {
		if len(*s) == 0 {
			*s = emptyObject
		}
	}
}
