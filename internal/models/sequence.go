package models

import (
	"fmt"
	"time"
)

// SequenceEntity identifies which numbered collection a counter belongs to.
type SequenceEntity string

// Entities that carry human-readable sequence numbers.
const (
	SequenceEnquiry      SequenceEntity = "enquiry"
	SequenceAdmission    SequenceEntity = "admission"
	SequenceRegistration SequenceEntity = "registration"
)

// Prefix returns the identifier prefix for the entity.
func (e SequenceEntity) Prefix() string {
	switch e {
	case SequenceEnquiry:
		return "ENQ"
	case SequenceAdmission:
		return "ADM"
	case SequenceRegistration:
		return "ATAT"
	}
	return ""
}

// ScopeKey returns the time-window scope for the entity: year+month for
// enquiries, year alone for admissions and registrations.
func (e SequenceEntity) ScopeKey(at time.Time) string {
	switch e {
	case SequenceEnquiry:
		return fmt.Sprintf("%s%02d%02d", e.Prefix(), at.Year()%100, int(at.Month()))
	default:
		return fmt.Sprintf("%s%02d", e.Prefix(), at.Year()%100)
	}
}

// SequenceCounter is one atomic counter row scoped to an entity and time window.
type SequenceCounter struct {
	EntityType SequenceEntity `db:"entity_type" json:"entity_type"`
	ScopeKey   string         `db:"scope_key" json:"scope_key"`
	Value      int64          `db:"value" json:"value"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
