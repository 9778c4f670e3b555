package models

import "time"

// AdmissionStatus represents the admission workflow state.
type AdmissionStatus string

// Possible admission statuses.
const (
	AdmissionStatusPending   AdmissionStatus = "pending"
	AdmissionStatusReviewing AdmissionStatus = "reviewing"
	AdmissionStatusApproved  AdmissionStatus = "approved"
	AdmissionStatusRejected  AdmissionStatus = "rejected"
)

// Valid reports whether the status is part of the closed enum.
func (s AdmissionStatus) Valid() bool {
	switch s {
	case AdmissionStatusPending, AdmissionStatusReviewing, AdmissionStatusApproved, AdmissionStatusRejected:
		return true
	}
	return false
}

// admissionTransitions is the allowed transition table. Approved and rejected are terminal.
var admissionTransitions = map[AdmissionStatus][]AdmissionStatus{
	AdmissionStatusPending:   {AdmissionStatusReviewing, AdmissionStatusApproved, AdmissionStatusRejected},
	AdmissionStatusReviewing: {AdmissionStatusApproved, AdmissionStatusRejected},
}

// CanTransition reports whether the status may move to the target state.
func (s AdmissionStatus) CanTransition(to AdmissionStatus) bool {
	for _, allowed := range admissionTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AdmissionCategory is the reservation category of the applicant.
type AdmissionCategory string

// Possible admission categories.
const (
	CategorySC          AdmissionCategory = "SC"
	CategoryST          AdmissionCategory = "ST"
	CategoryGeneral     AdmissionCategory = "General"
	CategoryHandicapped AdmissionCategory = "Handicapped"
)

// Valid reports whether the category is part of the closed enum.
func (c AdmissionCategory) Valid() bool {
	switch c {
	case CategorySC, CategoryST, CategoryGeneral, CategoryHandicapped:
		return true
	}
	return false
}

// AcademicRecord is one prior-school marks row attached to an admission.
// Percentage is stored exactly as submitted.
type AcademicRecord struct {
	ID            string  `db:"id" json:"-"`
	AdmissionID   string  `db:"admission_id" json:"-"`
	Position      int     `db:"position" json:"-"`
	Subject       string  `db:"subject" json:"subject"`
	MaxMarks      float64 `db:"max_marks" json:"max_marks"`
	MarksObtained float64 `db:"marks_obtained" json:"marks_obtained"`
	Percentage    float64 `db:"percentage" json:"percentage"`
	Remarks       string  `db:"remarks" json:"remarks,omitempty"`
}

// Sibling is a brother/sister entry attached to an admission.
type Sibling struct {
	ID          string `db:"id" json:"-"`
	AdmissionID string `db:"admission_id" json:"-"`
	Position    int    `db:"position" json:"-"`
	Name        string `db:"name" json:"name"`
	Age         int    `db:"age" json:"age"`
	School      string `db:"school" json:"school"`
}

// Admission is the full formal application record, gated by an approved enquiry.
// AdmissionNo and SlNo are only meaningful once the status is approved.
type Admission struct {
	ID            string  `db:"id" json:"id"`
	EnquiryID     string  `db:"enquiry_id" json:"enquiry_id"`
	EnquiryNumber string  `db:"enquiry_number" json:"enquiry_number"`
	AdmissionNo   *string `db:"admission_no" json:"admission_no,omitempty"`
	SlNo          *string `db:"sl_no" json:"sl_no,omitempty"`

	StudentName    string            `db:"student_name" json:"student_name"`
	DateOfBirth    time.Time         `db:"date_of_birth" json:"date_of_birth"`
	Gender         string            `db:"gender" json:"gender"`
	Category       AdmissionCategory `db:"category" json:"category"`
	ClassApplied   string            `db:"class_applied" json:"class_applied"`
	FatherName     string            `db:"father_name" json:"father_name"`
	FatherJob      string            `db:"father_occupation" json:"father_occupation"`
	MotherName     string            `db:"mother_name" json:"mother_name"`
	MotherJob      string            `db:"mother_occupation" json:"mother_occupation"`
	Mobile         string            `db:"mobile" json:"mobile"`
	Email          *string           `db:"email" json:"email,omitempty"`
	PresentAddress string            `db:"present_address" json:"present_address"`
	PermAddress    string            `db:"permanent_address" json:"permanent_address"`
	PrevSchool     string            `db:"previous_school" json:"previous_school"`
	PrevClass      string            `db:"previous_class" json:"previous_class"`

	SingleGirlChild bool `db:"single_girl_child" json:"single_girl_child"`
	SpeciallyAbled  bool `db:"specially_abled" json:"specially_abled"`
	EWS             bool `db:"ews" json:"ews"`

	PhotoPath            string `db:"photo_path" json:"photo_path"`
	BirthCertificatePath string `db:"birth_certificate_path" json:"birth_certificate_path"`

	Status    AdmissionStatus `db:"status" json:"status"`
	Notes     string          `db:"notes" json:"notes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`

	Academics []AcademicRecord `db:"-" json:"academics"`
	Siblings  []Sibling        `db:"-" json:"siblings"`
}

// AdmissionFilter captures filtering criteria for the admin admission list.
type AdmissionFilter struct {
	Status        AdmissionStatus
	ClassApplied  string
	EnquiryNumber string
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
