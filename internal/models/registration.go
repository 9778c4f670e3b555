package models

import "time"

// RegistrationStatus represents the scholarship-test registration state.
type RegistrationStatus string

// Possible registration statuses.
const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Valid reports whether the status is part of the closed enum.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	}
	return false
}

// registrationTransitions is the allowed transition table. Approved and rejected are terminal.
var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationStatusPending: {RegistrationStatusApproved, RegistrationStatusRejected},
}

// CanTransition reports whether the status may move to the target state.
func (s RegistrationStatus) CanTransition(to RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Registration is a standalone scholarship-test (ATAT) application. Rank and
// ScholarshipPercentage are administrator-entered and only meaningful once the
// status is approved.
type Registration struct {
	ID                 string             `db:"id" json:"id"`
	RegistrationNumber string             `db:"registration_number" json:"registration_number"`
	StudentName        string             `db:"student_name" json:"student_name"`
	DateOfBirth        time.Time          `db:"date_of_birth" json:"date_of_birth"`
	Gender             string             `db:"gender" json:"gender"`
	FatherName         string             `db:"father_name" json:"father_name"`
	MotherName         string             `db:"mother_name" json:"mother_name"`
	Mobile             string             `db:"mobile" json:"mobile"`
	Email              *string            `db:"email" json:"email,omitempty"`
	Address            string             `db:"address" json:"address"`
	ClassApplied       string             `db:"class_applied" json:"class_applied"`
	PresentSchool      string             `db:"present_school" json:"present_school"`
	TestDate           time.Time          `db:"test_date" json:"test_date"`
	TestVenue          *string            `db:"test_venue" json:"test_venue,omitempty"`
	TestTime           *string            `db:"test_time" json:"test_time,omitempty"`
	Rank               *int               `db:"rank" json:"rank,omitempty"`
	ScholarshipPct     *float64           `db:"scholarship_percentage" json:"scholarship_percentage,omitempty"`
	PhotoPath          string             `db:"photo_path" json:"photo_path"`
	Status             RegistrationStatus `db:"status" json:"status"`
	Notes              string             `db:"notes" json:"notes"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// RegistrationFilter captures filtering criteria for the admin registration list.
type RegistrationFilter struct {
	Status       RegistrationStatus
	ClassApplied string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
