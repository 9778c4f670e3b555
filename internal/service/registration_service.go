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

type registrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, notes string, rank *int, scholarshipPct *float64) error
	Delete(ctx context.Context, id string) error
}

// CreateRegistrationRequest describes the public scholarship-test submission.
type CreateRegistrationRequest struct {
	StudentName   string  `json:"student_name" validate:"required"`
	DateOfBirth   string  `json:"date_of_birth" validate:"required"`
	Gender        string  `json:"gender" validate:"required"`
	FatherName    string  `json:"father_name" validate:"required"`
	MotherName    string  `json:"mother_name" validate:"required"`
	Mobile        string  `json:"mobile" validate:"required"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       string  `json:"address" validate:"required"`
	ClassApplied  string  `json:"class_applied" validate:"required"`
	PresentSchool string  `json:"present_school"`
	TestDate      string  `json:"test_date" validate:"required"`
	TestVenue     *string `json:"test_venue"`
	TestTime      *string `json:"test_time"`
	PhotoPath     string  `json:"photo_path" validate:"required"`
}

// UpdateRegistrationStatusRequest describes the admin status mutation. Rank
// and scholarship percentage are administrator-entered and accepted only when
// approving.
type UpdateRegistrationStatusRequest struct {
	Status         models.RegistrationStatus `json:"status" validate:"required"`
	Notes          string                    `json:"notes"`
	Rank           *int                      `json:"rank" validate:"omitempty,gt=0"`
	ScholarshipPct *float64                  `json:"scholarship_percentage" validate:"omitempty,gte=0,lte=100"`
}

// RegistrationService owns the scholarship-test (ATAT) registration lifecycle.
type RegistrationService struct {
	repo      registrationRepository
	sequences numberIssuer
	cleaner   attachmentCleaner
	csv       csvRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs RegistrationService.
func NewRegistrationService(repo registrationRepository, sequences numberIssuer, cleaner attachmentCleaner, csv csvRenderer, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &RegistrationService{repo: repo, sequences: sequences, cleaner: cleaner, csv: csv, validator: validate, logger: logger}
}

// Create validates the submission, assigns the next ATAT number and persists
// the registration with status pending. No gate applies.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_of_birth must be YYYY-MM-DD")
	}
	testDate, err := time.Parse(dateLayout, req.TestDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "test_date must be YYYY-MM-DD")
	}

	number, err := s.sequences.Next(ctx, models.SequenceRegistration, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	registration := &models.Registration{
		RegistrationNumber: number,
		StudentName:        req.StudentName,
		DateOfBirth:        dob,
		Gender:             req.Gender,
		FatherName:         req.FatherName,
		MotherName:         req.MotherName,
		Mobile:             req.Mobile,
		Email:              req.Email,
		Address:            req.Address,
		ClassApplied:       req.ClassApplied,
		PresentSchool:      req.PresentSchool,
		TestDate:           testDate,
		TestVenue:          req.TestVenue,
		TestTime:           req.TestTime,
		PhotoPath:          req.PhotoPath,
		Status:             models.RegistrationStatusPending,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}

	s.logger.Info("registration created", zap.String("registration_number", registration.RegistrationNumber))
	return registration, nil
}

// Get returns a single registration by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return registration, nil
}

// List returns registrations with pagination metadata.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	registrations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return registrations, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus applies an admin transition. Rank and scholarship percentage
// are only meaningful on approval and rejected otherwise.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, req UpdateRegistrationStatusRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status %q outside registration status domain", req.Status))
	}
	if (req.Rank != nil || req.ScholarshipPct != nil) && req.Status != models.RegistrationStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rank and scholarship may only be set when approving")
	}

	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if !registration.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move registration from %s to %s", registration.Status, req.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes, req.Rank, req.ScholarshipPct); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration status")
	}
	return s.Get(ctx, id)
}

// Delete removes the registration and schedules cleanup of its stored photo.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}

	if s.cleaner != nil {
		s.cleaner.Enqueue(registration.PhotoPath)
	}
	return nil
}

// ExportCSV renders the filtered registration list as CSV for the admin console.
func (s *RegistrationService) ExportCSV(ctx context.Context, filter models.RegistrationFilter) ([]byte, error) {
	filter.PageSize = 100
	if filter.Page < 1 {
		filter.Page = 1
	}
	registrations, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}

	dataset := export.Dataset{
		Headers: []string{"Registration Number", "Student", "Class", "Test Date", "Rank", "Scholarship %", "Status"},
	}
	for _, registration := range registrations {
		rank := ""
		if registration.Rank != nil {
			rank = fmt.Sprintf("%d", *registration.Rank)
		}
		scholarship := ""
		if registration.ScholarshipPct != nil {
			scholarship = fmt.Sprintf("%.1f", *registration.ScholarshipPct)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Registration Number": registration.RegistrationNumber,
			"Student":             registration.StudentName,
			"Class":               registration.ClassApplied,
			"Test Date":           registration.TestDate.Format(dateLayout),
			"Rank":                rank,
			"Scholarship %":       scholarship,
			"Status":              string(registration.Status),
		})
	}
	return s.csv.Render(dataset)
}
