package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/export"
)

const dateLayout = "2006-01-02"

type admissionRepository interface {
	Create(ctx context.Context, admission *models.Admission) error
	FindByID(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error)
	UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus, notes string, admissionNo, slNo *string) error
	Delete(ctx context.Context, id string) error
}

type enquiryVerifier interface {
	Verify(ctx context.Context, enquiryNumber string) (*models.VerificationResult, error)
}

type attachmentCleaner interface {
	Enqueue(path string)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// AcademicRecordRequest is one prior-school marks row in the submission. The
// percentage is taken as given; the server does not recompute it.
type AcademicRecordRequest struct {
	Subject       string  `json:"subject" validate:"required"`
	MaxMarks      float64 `json:"max_marks" validate:"required,gt=0"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Percentage    float64 `json:"percentage" validate:"gte=0,lte=100"`
	Remarks       string  `json:"remarks"`
}

// SiblingRequest is one sibling entry in the submission.
type SiblingRequest struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"gte=0"`
	School string `json:"school"`
}

// CreateAdmissionRequest describes the public admission submission. The
// enquiry number must belong to an approved enquiry.
type CreateAdmissionRequest struct {
	EnquiryNumber  string                   `json:"enquiry_number" validate:"required"`
	StudentName    string                   `json:"student_name" validate:"required"`
	DateOfBirth    string                   `json:"date_of_birth" validate:"required"`
	Gender         string                   `json:"gender" validate:"required"`
	Category       models.AdmissionCategory `json:"category" validate:"required"`
	ClassApplied   string                   `json:"class_applied" validate:"required"`
	FatherName     string                   `json:"father_name" validate:"required"`
	FatherJob      string                   `json:"father_occupation"`
	MotherName     string                   `json:"mother_name" validate:"required"`
	MotherJob      string                   `json:"mother_occupation"`
	Mobile         string                   `json:"mobile" validate:"required"`
	Email          *string                  `json:"email" validate:"omitempty,email"`
	PresentAddress string                   `json:"present_address" validate:"required"`
	PermAddress    string                   `json:"permanent_address"`
	PrevSchool     string                   `json:"previous_school"`
	PrevClass      string                   `json:"previous_class"`

	SingleGirlChild bool `json:"single_girl_child"`
	SpeciallyAbled  bool `json:"specially_abled"`
	EWS             bool `json:"ews"`

	PhotoPath            string `json:"photo_path" validate:"required"`
	BirthCertificatePath string `json:"birth_certificate_path" validate:"required"`

	Academics []AcademicRecordRequest `json:"academics" validate:"dive"`
	Siblings  []SiblingRequest        `json:"siblings" validate:"dive"`
}

// UpdateAdmissionStatusRequest describes the admin status mutation. The
// admission number is either entered free-text by the administrator
// (AdmissionNo) or issued by the sequence generator (AssignNumber); the two
// paths are mutually exclusive and only valid when approving.
type UpdateAdmissionStatusRequest struct {
	Status       models.AdmissionStatus `json:"status" validate:"required"`
	Notes        string                 `json:"notes"`
	AdmissionNo  *string                `json:"admission_no"`
	SlNo         *string                `json:"sl_no"`
	AssignNumber bool                   `json:"assign_number"`
}

// AdmissionService owns the admission lifecycle, gated on enquiry verification.
type AdmissionService struct {
	repo      admissionRepository
	enquiries enquiryVerifier
	sequences numberIssuer
	cleaner   attachmentCleaner
	csv       csvRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdmissionService constructs AdmissionService.
func NewAdmissionService(repo admissionRepository, enquiries enquiryVerifier, sequences numberIssuer, cleaner attachmentCleaner, csv csvRenderer, validate *validator.Validate, logger *zap.Logger) *AdmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &AdmissionService{repo: repo, enquiries: enquiries, sequences: sequences, cleaner: cleaner, csv: csv, validator: validate, logger: logger}
}

// Create runs the verification gate and persists the admission with its
// sub-collections in submission order.
func (s *AdmissionService) Create(ctx context.Context, req CreateAdmissionRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("category %q outside category domain", req.Category))
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_of_birth must be YYYY-MM-DD")
	}

	verification, err := s.enquiries.Verify(ctx, req.EnquiryNumber)
	if err != nil {
		return nil, err
	}
	switch verification.State {
	case models.VerificationValid:
	case models.VerificationNotFound:
		return nil, appErrors.Clone(appErrors.ErrEnquiryNotFound, verification.Message)
	default:
		return nil, appErrors.Clone(appErrors.ErrEnquiryNotApproved, verification.Message)
	}

	admission := &models.Admission{
		EnquiryID:            verification.Enquiry.ID,
		EnquiryNumber:        verification.Enquiry.EnquiryNumber,
		StudentName:          req.StudentName,
		DateOfBirth:          dob,
		Gender:               req.Gender,
		Category:             req.Category,
		ClassApplied:         req.ClassApplied,
		FatherName:           req.FatherName,
		FatherJob:            req.FatherJob,
		MotherName:           req.MotherName,
		MotherJob:            req.MotherJob,
		Mobile:               req.Mobile,
		Email:                req.Email,
		PresentAddress:       req.PresentAddress,
		PermAddress:          req.PermAddress,
		PrevSchool:           req.PrevSchool,
		PrevClass:            req.PrevClass,
		SingleGirlChild:      req.SingleGirlChild,
		SpeciallyAbled:       req.SpeciallyAbled,
		EWS:                  req.EWS,
		PhotoPath:            req.PhotoPath,
		BirthCertificatePath: req.BirthCertificatePath,
		Status:               models.AdmissionStatusPending,
	}
	for _, record := range req.Academics {
		admission.Academics = append(admission.Academics, models.AcademicRecord{
			Subject:       record.Subject,
			MaxMarks:      record.MaxMarks,
			MarksObtained: record.MarksObtained,
			Percentage:    record.Percentage,
			Remarks:       record.Remarks,
		})
	}
	for _, sibling := range req.Siblings {
		admission.Siblings = append(admission.Siblings, models.Sibling{
			Name:   sibling.Name,
			Age:    sibling.Age,
			School: sibling.School,
		})
	}

	if err := s.repo.Create(ctx, admission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admission")
	}

	s.logger.Info("admission created",
		zap.String("admission_id", admission.ID),
		zap.String("enquiry_number", admission.EnquiryNumber),
	)
	return s.Get(ctx, admission.ID)
}

// Get returns a single admission with its sub-collections.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Admission, error) {
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
	}
	return admission, nil
}

// List returns admissions with pagination metadata.
func (s *AdmissionService) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	admissions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admissions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return admissions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus applies an admin transition. Admission numbers are accepted
// only when the target status is approved, via exactly one of the two paths.
func (s *AdmissionService) UpdateStatus(ctx context.Context, id string, req UpdateAdmissionStatusRequest) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status %q outside admission status domain", req.Status))
	}

	numbering := req.AdmissionNo != nil || req.SlNo != nil || req.AssignNumber
	if numbering && req.Status != models.AdmissionStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admission numbers may only be set when approving")
	}
	if req.AssignNumber && req.AdmissionNo != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assign_number and admission_no are mutually exclusive")
	}

	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
	}
	if !admission.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move admission from %s to %s", admission.Status, req.Status))
	}

	admissionNo := req.AdmissionNo
	if req.AssignNumber {
		number, err := s.sequences.Next(ctx, models.SequenceAdmission, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		admissionNo = &number
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes, admissionNo, req.SlNo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admission status")
	}
	return s.Get(ctx, id)
}

// Delete removes the admission and schedules cleanup of its stored
// attachments.
func (s *AdmissionService) Delete(ctx context.Context, id string) error {
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admission not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admission")
	}

	if s.cleaner != nil {
		s.cleaner.Enqueue(admission.PhotoPath)
		s.cleaner.Enqueue(admission.BirthCertificatePath)
	}
	return nil
}

// ExportCSV renders the filtered admission list as CSV for the admin console.
func (s *AdmissionService) ExportCSV(ctx context.Context, filter models.AdmissionFilter) ([]byte, error) {
	filter.PageSize = 100
	if filter.Page < 1 {
		filter.Page = 1
	}
	admissions, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admissions")
	}

	dataset := export.Dataset{
		Headers: []string{"Admission No", "Enquiry Number", "Student", "Class", "Category", "Status", "Created"},
	}
	for _, admission := range admissions {
		admissionNo := ""
		if admission.AdmissionNo != nil {
			admissionNo = *admission.AdmissionNo
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Admission No":   admissionNo,
			"Enquiry Number": admission.EnquiryNumber,
			"Student":        admission.StudentName,
			"Class":          admission.ClassApplied,
			"Category":       string(admission.Category),
			"Status":         string(admission.Status),
			"Created":        admission.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.csv.Render(dataset)
}
