package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/export"
	"github.com/noah-isme/school-admissions-api/pkg/storage"
)

// DocumentType selects which printable document to generate.
type DocumentType string

// Supported document types.
const (
	DocumentAdmitCard       DocumentType = "admit_card"
	DocumentAdmissionLetter DocumentType = "admission_letter"
)

type registrationReader interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
}

type admissionReader interface {
	FindByID(ctx context.Context, id string) (*models.Admission, error)
}

type documentStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type documentObserver interface {
	DocumentRendered(docType string)
}

// DocumentConfig carries school letterhead details and URL settings.
type DocumentConfig struct {
	APIPrefix     string
	SchoolName    string
	SchoolAddress string
}

// GenerateDocumentRequest identifies the record to render.
type GenerateDocumentRequest struct {
	Type DocumentType `json:"type" validate:"required,oneof=admit_card admission_letter"`
	ID   string       `json:"id" validate:"required"`
}

// GeneratedDocument points at a rendered, signed-URL-protected PDF.
type GeneratedDocument struct {
	Type      DocumentType `json:"type"`
	Reference string       `json:"reference"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// DocumentService renders admit cards and admission approval letters from
// approved records and hands out signed download URLs.
type DocumentService struct {
	registrations registrationReader
	admissions    admissionReader
	store         documentStore
	renderer      documentRenderer
	signer        *storage.SignedURLSigner
	metrics       documentObserver
	cfg           DocumentConfig
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewDocumentService constructs DocumentService.
func NewDocumentService(registrations registrationReader, admissions admissionReader, store documentStore, renderer documentRenderer, signer *storage.SignedURLSigner, metrics documentObserver, cfg DocumentConfig, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewDocumentRenderer()
	}
	return &DocumentService{
		registrations: registrations,
		admissions:    admissions,
		store:         store,
		renderer:      renderer,
		signer:        signer,
		metrics:       metrics,
		cfg:           cfg,
		validator:     validate,
		logger:        logger,
	}
}

// Generate renders the requested document. Only approved records qualify.
func (s *DocumentService) Generate(ctx context.Context, req GenerateDocumentRequest) (*GeneratedDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document request")
	}

	var (
		doc       export.Document
		reference string
		filename  string
	)
	switch req.Type {
	case DocumentAdmitCard:
		registration, err := s.registrations.FindByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
		}
		if registration.Status != models.RegistrationStatusApproved {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "admit card requires an approved registration")
		}
		doc = s.admitCard(registration)
		reference = registration.RegistrationNumber
		filename = path.Join("admitcards", registration.RegistrationNumber+".pdf")
	case DocumentAdmissionLetter:
		admission, err := s.admissions.FindByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admission")
		}
		if admission.Status != models.AdmissionStatusApproved {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "approval letter requires an approved admission")
		}
		doc = s.admissionLetter(admission)
		reference = admission.EnquiryNumber
		if admission.AdmissionNo != nil {
			reference = *admission.AdmissionNo
		}
		filename = path.Join("letters", admission.ID+".pdf")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported document type %q", req.Type))
	}

	payload, err := s.renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	relPath, err := s.store.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	token, expiresAt, err := s.signer.Generate(req.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign document url")
	}

	if s.metrics != nil {
		s.metrics.DocumentRendered(string(req.Type))
	}
	s.logger.Info("document generated", zap.String("type", string(req.Type)), zap.String("reference", reference))

	return &GeneratedDocument{
		Type:      req.Type,
		Reference: reference,
		URL:       fmt.Sprintf("%s/documents/download?token=%s", s.cfg.APIPrefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Download validates a signed token and opens the referenced file.
func (s *DocumentService) Download(ctx context.Context, token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid or expired download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document no longer available")
	}
	return file, nil
}

func (s *DocumentService) admitCard(registration *models.Registration) export.Document {
	fields := []export.DocumentField{
		{Label: "Registration No", Value: registration.RegistrationNumber},
		{Label: "Student Name", Value: registration.StudentName},
		{Label: "Father's Name", Value: registration.FatherName},
		{Label: "Class Applied", Value: registration.ClassApplied},
		{Label: "Test Date", Value: registration.TestDate.Format("02 Jan 2006")},
	}
	if registration.TestVenue != nil {
		fields = append(fields, export.DocumentField{Label: "Venue", Value: *registration.TestVenue})
	}
	if registration.TestTime != nil {
		fields = append(fields, export.DocumentField{Label: "Reporting Time", Value: *registration.TestTime})
	}
	return export.Document{
		SchoolName:    s.cfg.SchoolName,
		SchoolAddress: s.cfg.SchoolAddress,
		Title:         "SCHOLARSHIP TEST ADMIT CARD",
		Reference:     registration.RegistrationNumber,
		Fields:        fields,
		Footer:        "Bring this admit card and a recent passport photograph to the test centre. Mobile phones are not permitted in the examination hall.",
	}
}

func (s *DocumentService) admissionLetter(admission *models.Admission) export.Document {
	fields := []export.DocumentField{
		{Label: "Student Name", Value: admission.StudentName},
		{Label: "Father's Name", Value: admission.FatherName},
		{Label: "Class", Value: admission.ClassApplied},
		{Label: "Enquiry Number", Value: admission.EnquiryNumber},
	}
	if admission.AdmissionNo != nil {
		fields = append(fields, export.DocumentField{Label: "Admission No", Value: *admission.AdmissionNo})
	}
	if admission.SlNo != nil {
		fields = append(fields, export.DocumentField{Label: "Serial No", Value: *admission.SlNo})
	}
	return export.Document{
		SchoolName:    s.cfg.SchoolName,
		SchoolAddress: s.cfg.SchoolAddress,
		Title:         "ADMISSION APPROVAL LETTER",
		Reference:     admission.EnquiryNumber,
		Fields:        fields,
		Footer:        "Please report to the school office with this letter and the original documents within fifteen days.",
	}
}
