package models

import "time"

// EnquiryStatus represents the admission-enquiry workflow state.
type EnquiryStatus string

// Possible enquiry statuses.
const (
	EnquiryStatusPending  EnquiryStatus = "pending"
	EnquiryStatusApproved EnquiryStatus = "approved"
	EnquiryStatusRejected EnquiryStatus = "rejected"
)

// Valid reports whether the status is part of the closed enum.
func (s EnquiryStatus) Valid() bool {
	switch s {
	case EnquiryStatusPending, EnquiryStatusApproved, EnquiryStatusRejected:
		return true
	}
	return false
}

// enquiryTransitions is the allowed transition table. Approved and rejected are terminal.
var enquiryTransitions = map[EnquiryStatus][]EnquiryStatus{
	EnquiryStatusPending: {EnquiryStatusApproved, EnquiryStatusRejected},
}

// CanTransition reports whether the status may move to the target state.
func (s EnquiryStatus) CanTransition(to EnquiryStatus) bool {
	for _, allowed := range enquiryTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Enquiry is the initial parent/student interest record. An enquiry must be
// administratively approved before an admission can be started against it.
type Enquiry struct {
	ID            string        `db:"id" json:"id"`
	EnquiryNumber string        `db:"enquiry_number" json:"enquiry_number"`
	ParentName    string        `db:"parent_name" json:"parent_name"`
	StudentName   string        `db:"student_name" json:"student_name"`
	ClassApplied  string        `db:"class_applied" json:"class_applied"`
	Mobile        string        `db:"mobile" json:"mobile"`
	Email         *string       `db:"email" json:"email,omitempty"`
	Location      string        `db:"location" json:"location"`
	Notes         string        `db:"notes" json:"notes"`
	Status        EnquiryStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// EnquiryFilter captures filtering criteria for the admin enquiry list.
type EnquiryFilter struct {
	Status    EnquiryStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// VerificationState discriminates the outcome of an enquiry-number check.
type VerificationState string

// Possible verification outcomes.
const (
	VerificationValid       VerificationState = "valid"
	VerificationNotFound    VerificationState = "not_found"
	VerificationNotApproved VerificationState = "not_approved"
)

// VerificationResult is returned by the verification gate. Enquiry is set only
// when State is VerificationValid.
type VerificationResult struct {
	Valid   bool              `json:"valid"`
	State   VerificationState `json:"state"`
	Message string            `json:"message"`
	Enquiry *Enquiry          `json:"enquiry,omitempty"`
}
