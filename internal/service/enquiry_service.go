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
)

type enquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	FindByID(ctx context.Context, id string) (*models.Enquiry, error)
	FindByNumber(ctx context.Context, enquiryNumber string) (*models.Enquiry, error)
	List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, int, error)
	UpdateStatus(ctx context.Context, id string, status models.EnquiryStatus, notes string) error
	Delete(ctx context.Context, id string) error
}

type admissionCounter interface {
	CountByEnquiryNumber(ctx context.Context, enquiryNumber string) (int, error)
}

type numberIssuer interface {
	Next(ctx context.Context, entity models.SequenceEntity, at time.Time) (string, error)
}

type verifyCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateEnquiryRequest describes the public enquiry submission.
type CreateEnquiryRequest struct {
	ParentName   string  `json:"parent_name" validate:"required"`
	StudentName  string  `json:"student_name" validate:"required"`
	ClassApplied string  `json:"class_applied" validate:"required"`
	Mobile       string  `json:"mobile" validate:"required"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Location     string  `json:"location"`
	Notes        string  `json:"notes"`
}

// UpdateEnquiryStatusRequest describes the admin status mutation.
type UpdateEnquiryStatusRequest struct {
	Status models.EnquiryStatus `json:"status" validate:"required"`
	Notes  string               `json:"notes"`
}

// EnquiryService owns the enquiry lifecycle: creation, verification and
// admin-driven status transitions.
type EnquiryService struct {
	repo       enquiryRepository
	admissions admissionCounter
	sequences  numberIssuer
	cache      verifyCache
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewEnquiryService constructs EnquiryService.
func NewEnquiryService(repo enquiryRepository, admissions admissionCounter, sequences numberIssuer, cache verifyCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *EnquiryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &EnquiryService{repo: repo, admissions: admissions, sequences: sequences, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Create validates the submission, assigns the next enquiry number and
// persists the record with status pending.
func (s *EnquiryService) Create(ctx context.Context, req CreateEnquiryRequest) (*models.Enquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enquiry payload")
	}

	number, err := s.sequences.Next(ctx, models.SequenceEnquiry, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	enquiry := &models.Enquiry{
		EnquiryNumber: number,
		ParentName:    req.ParentName,
		StudentName:   req.StudentName,
		ClassApplied:  req.ClassApplied,
		Mobile:        req.Mobile,
		Email:         req.Email,
		Location:      req.Location,
		Notes:         req.Notes,
		Status:        models.EnquiryStatusPending,
	}
	if err := s.repo.Create(ctx, enquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enquiry")
	}

	s.logger.Info("enquiry created", zap.String("enquiry_number", enquiry.EnquiryNumber))
	return enquiry, nil
}

// Verify is the gate check for admission creation. The outcome distinguishes a
// missing number from one that is not yet approved.
func (s *EnquiryService) Verify(ctx context.Context, enquiryNumber string) (*models.VerificationResult, error) {
	if enquiryNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enquiry number is required")
	}

	cacheKey := "verify:" + enquiryNumber
	if s.cache != nil {
		var cached models.VerificationResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result := s.lookup(ctx, enquiryNumber)
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "failed to verify enquiry")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache verification result", zap.Error(err))
		}
	}
	return result, nil
}

func (s *EnquiryService) lookup(ctx context.Context, enquiryNumber string) *models.VerificationResult {
	enquiry, err := s.repo.FindByNumber(ctx, enquiryNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.VerificationResult{
				Valid:   false,
				State:   models.VerificationNotFound,
				Message: fmt.Sprintf("no enquiry found for %s", enquiryNumber),
			}
		}
		s.logger.Error("enquiry lookup failed", zap.String("enquiry_number", enquiryNumber), zap.Error(err))
		return nil
	}
	if enquiry.Status != models.EnquiryStatusApproved {
		return &models.VerificationResult{
			Valid:   false,
			State:   models.VerificationNotApproved,
			Message: fmt.Sprintf("enquiry %s is %s, not approved", enquiryNumber, enquiry.Status),
		}
	}
	return &models.VerificationResult{
		Valid:   true,
		State:   models.VerificationValid,
		Message: "enquiry approved",
		Enquiry: enquiry,
	}
}

// Get returns a single enquiry by id.
func (s *EnquiryService) Get(ctx context.Context, id string) (*models.Enquiry, error) {
	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enquiry")
	}
	return enquiry, nil
}

// List returns enquiries with pagination metadata.
func (s *EnquiryService) List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	enquiries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enquiries")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return enquiries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus applies an admin transition, enforcing the closed status enum
// and the transition table (pending may move; approved/rejected are terminal).
func (s *EnquiryService) UpdateStatus(ctx context.Context, id string, req UpdateEnquiryStatusRequest) (*models.Enquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status %q outside enquiry status domain", req.Status))
	}

	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enquiry")
	}
	if !enquiry.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move enquiry from %s to %s", enquiry.Status, req.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enquiry status")
	}
	s.invalidate(ctx, enquiry.EnquiryNumber)

	return s.Get(ctx, id)
}

// Delete removes an enquiry. Deletion is blocked while any admission still
// references the enquiry number.
func (s *EnquiryService) Delete(ctx context.Context, id string) error {
	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enquiry")
	}

	referencing, err := s.admissions.CountByEnquiryNumber(ctx, enquiry.EnquiryNumber)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check referencing admissions")
	}
	if referencing > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%d admission(s) reference enquiry %s", referencing, enquiry.EnquiryNumber))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enquiry")
	}
	s.invalidate(ctx, enquiry.EnquiryNumber)
	return nil
}

func (s *EnquiryService) invalidate(ctx context.Context, enquiryNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "verify:"+enquiryNumber); err != nil {
		s.logger.Warn("failed to invalidate verification cache", zap.String("enquiry_number", enquiryNumber), zap.Error(err))
	}
}
