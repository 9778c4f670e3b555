package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/storage"
)

func newDocumentService(t *testing.T, registrations *mockRegistrationRepo, admissions *mockAdmissionRepo) *DocumentService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	cfg := DocumentConfig{
		APIPrefix:     "/api/v1",
		SchoolName:    "Adarsha Vidya Mandir",
		SchoolAddress: "School Road, Balasore",
	}
	return NewDocumentService(registrations, admissions, store, nil, signer, nil, cfg, validator.New(), zap.NewNop())
}

func approvedRegistration() *models.Registration {
	venue := "Main Campus"
	return &models.Registration{
		ID:                 "r1",
		RegistrationNumber: "ATAT250001",
		StudentName:        "Asha Mohanty",
		FatherName:         "Ravi Mohanty",
		ClassApplied:       "V",
		TestDate:           time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
		TestVenue:          &venue,
		Status:             models.RegistrationStatusApproved,
	}
}

func TestDocumentServiceGenerateAdmitCard(t *testing.T) {
	registrations := &mockRegistrationRepo{items: map[string]*models.Registration{
		"r1": approvedRegistration(),
	}}
	service := newDocumentService(t, registrations, &mockAdmissionRepo{})

	doc, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmitCard, ID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, DocumentAdmitCard, doc.Type)
	assert.Equal(t, "ATAT250001", doc.Reference)
	assert.True(t, strings.HasPrefix(doc.URL, "/api/v1/documents/download?token="))
	assert.True(t, doc.ExpiresAt.After(time.Now()))
}

func TestDocumentServiceAdmitCardRequiresApproval(t *testing.T) {
	pending := approvedRegistration()
	pending.Status = models.RegistrationStatusPending
	registrations := &mockRegistrationRepo{items: map[string]*models.Registration{"r1": pending}}
	service := newDocumentService(t, registrations, &mockAdmissionRepo{})

	_, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmitCard, ID: "r1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestDocumentServiceGenerateAdmissionLetter(t *testing.T) {
	admissionNo := "ADM250001"
	admissions := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {
			ID:            "a1",
			EnquiryNumber: "ENQ25060001",
			AdmissionNo:   &admissionNo,
			StudentName:   "Asha Mohanty",
			FatherName:    "Ravi Mohanty",
			ClassApplied:  "V",
			Status:        models.AdmissionStatusApproved,
		},
	}}
	service := newDocumentService(t, &mockRegistrationRepo{}, admissions)

	doc, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmissionLetter, ID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, "ADM250001", doc.Reference)
}

func TestDocumentServiceLetterRequiresApproval(t *testing.T) {
	admissions := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {ID: "a1", EnquiryNumber: "ENQ25060001", Status: models.AdmissionStatusReviewing},
	}}
	service := newDocumentService(t, &mockRegistrationRepo{}, admissions)

	_, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmissionLetter, ID: "a1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestDocumentServiceGenerateNotFound(t *testing.T) {
	service := newDocumentService(t, &mockRegistrationRepo{}, &mockAdmissionRepo{})

	_, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmitCard, ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDocumentServiceDownloadRoundTrip(t *testing.T) {
	registrations := &mockRegistrationRepo{items: map[string]*models.Registration{
		"r1": approvedRegistration(),
	}}
	service := newDocumentService(t, registrations, &mockAdmissionRepo{})

	doc, err := service.Generate(context.Background(), GenerateDocumentRequest{Type: DocumentAdmitCard, ID: "r1"})
	require.NoError(t, err)

	token := strings.TrimPrefix(doc.URL, "/api/v1/documents/download?token=")
	file, err := service.Download(context.Background(), token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestDocumentServiceDownloadBadToken(t *testing.T) {
	service := newDocumentService(t, &mockRegistrationRepo{}, &mockAdmissionRepo{})

	_, err := service.Download(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
