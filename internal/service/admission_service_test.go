package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
)

type mockAdmissionRepo struct {
	items      map[string]*models.Admission
	listResult []models.Admission
	listTotal  int
	deleted    []string
}

func (m *mockAdmissionRepo) Create(ctx context.Context, admission *models.Admission) error {
	if m.items == nil {
		m.items = make(map[string]*models.Admission)
	}
	if admission.ID == "" {
		admission.ID = "generated"
	}
	now := time.Now()
	admission.CreatedAt = now
	admission.UpdatedAt = now
	cp := *admission
	cp.Academics = append([]models.AcademicRecord(nil), admission.Academics...)
	cp.Siblings = append([]models.Sibling(nil), admission.Siblings...)
	m.items[admission.ID] = &cp
	return nil
}

func (m *mockAdmissionRepo) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	if admission, ok := m.items[id]; ok {
		cp := *admission
		cp.Academics = append([]models.AcademicRecord(nil), admission.Academics...)
		cp.Siblings = append([]models.Sibling(nil), admission.Siblings...)
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdmissionRepo) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockAdmissionRepo) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus, notes string, admissionNo, slNo *string) error {
	admission, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	admission.Status = status
	admission.Notes = notes
	if admissionNo != nil {
		admission.AdmissionNo = admissionNo
	}
	if slNo != nil {
		admission.SlNo = slNo
	}
	return nil
}

func (m *mockAdmissionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockVerifier struct {
	result *models.VerificationResult
}

func (m *mockVerifier) Verify(ctx context.Context, enquiryNumber string) (*models.VerificationResult, error) {
	return m.result, nil
}

type mockCleaner struct {
	paths []string
}

func (m *mockCleaner) Enqueue(path string) {
	m.paths = append(m.paths, path)
}

func approvedVerification() *models.VerificationResult {
	return &models.VerificationResult{
		Valid:   true,
		State:   models.VerificationValid,
		Enquiry: &models.Enquiry{ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusApproved},
	}
}

func validAdmissionRequest() CreateAdmissionRequest {
	return CreateAdmissionRequest{
		EnquiryNumber:        "ENQ25060001",
		StudentName:          "Asha Mohanty",
		DateOfBirth:          "2015-04-12",
		Gender:               "female",
		Category:             models.CategoryGeneral,
		ClassApplied:         "V",
		FatherName:           "Ravi Mohanty",
		MotherName:           "Sita Mohanty",
		Mobile:               "9876543210",
		PresentAddress:       "Balasore",
		PhotoPath:            "attachments/photo.jpg",
		BirthCertificatePath: "attachments/cert.pdf",
	}
}

func newAdmissionService(repo *mockAdmissionRepo, verifier *mockVerifier, issuer *mockNumberIssuer, cleaner *mockCleaner) *AdmissionService {
	var ac attachmentCleaner
	if cleaner != nil {
		ac = cleaner
	}
	return NewAdmissionService(repo, verifier, issuer, ac, nil, validator.New(), zap.NewNop())
}

func TestAdmissionServiceCreate(t *testing.T) {
	repo := &mockAdmissionRepo{}
	service := newAdmissionService(repo, &mockVerifier{result: approvedVerification()}, &mockNumberIssuer{}, nil)

	admission, err := service.Create(context.Background(), validAdmissionRequest())
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusPending, admission.Status)
	assert.Equal(t, "ENQ25060001", admission.EnquiryNumber)
	assert.Equal(t, "e1", admission.EnquiryID)
	assert.Nil(t, admission.AdmissionNo)
}

func TestAdmissionServiceCreateGateNotFound(t *testing.T) {
	verifier := &mockVerifier{result: &models.VerificationResult{State: models.VerificationNotFound, Message: "no enquiry"}}
	service := newAdmissionService(&mockAdmissionRepo{}, verifier, &mockNumberIssuer{}, nil)

	_, err := service.Create(context.Background(), validAdmissionRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEnquiryNotFound.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceCreateGateNotApproved(t *testing.T) {
	verifier := &mockVerifier{result: &models.VerificationResult{State: models.VerificationNotApproved, Message: "still pending"}}
	service := newAdmissionService(&mockAdmissionRepo{}, verifier, &mockNumberIssuer{}, nil)

	_, err := service.Create(context.Background(), validAdmissionRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEnquiryNotApproved.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceCreateKeepsCollectionOrder(t *testing.T) {
	repo := &mockAdmissionRepo{}
	service := newAdmissionService(repo, &mockVerifier{result: approvedVerification()}, &mockNumberIssuer{}, nil)

	req := validAdmissionRequest()
	req.Academics = []AcademicRecordRequest{
		{Subject: "Maths", MaxMarks: 100, MarksObtained: 92, Percentage: 92},
		{Subject: "English", MaxMarks: 100, MarksObtained: 81, Percentage: 81},
		{Subject: "Science", MaxMarks: 50, MarksObtained: 44, Percentage: 88},
	}
	req.Siblings = []SiblingRequest{
		{Name: "Arun", Age: 12, School: "DAV"},
		{Name: "Mina", Age: 9},
	}

	admission, err := service.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, admission.Academics, 3)
	assert.Equal(t, "Maths", admission.Academics[0].Subject)
	assert.Equal(t, "English", admission.Academics[1].Subject)
	assert.Equal(t, "Science", admission.Academics[2].Subject)
	require.Len(t, admission.Siblings, 2)
	assert.Equal(t, "Arun", admission.Siblings[0].Name)
	assert.Equal(t, "Mina", admission.Siblings[1].Name)
}

func TestAdmissionServiceCreateBadDate(t *testing.T) {
	service := newAdmissionService(&mockAdmissionRepo{}, &mockVerifier{result: approvedVerification()}, &mockNumberIssuer{}, nil)

	req := validAdmissionRequest()
	req.DateOfBirth = "12/04/2015"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceUpdateStatusAssignNumber(t *testing.T) {
	repo := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {ID: "a1", EnquiryNumber: "ENQ25060001", Status: models.AdmissionStatusReviewing},
	}}
	issuer := &mockNumberIssuer{next: "ADM250001"}
	service := newAdmissionService(repo, &mockVerifier{}, issuer, nil)

	admission, err := service.UpdateStatus(context.Background(), "a1", UpdateAdmissionStatusRequest{
		Status:       models.AdmissionStatusApproved,
		AssignNumber: true,
	})
	require.NoError(t, err)
	require.NotNil(t, admission.AdmissionNo)
	assert.Equal(t, "ADM250001", *admission.AdmissionNo)
}

func TestAdmissionServiceUpdateStatusManualNumber(t *testing.T) {
	repo := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {ID: "a1", Status: models.AdmissionStatusPending},
	}}
	service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, nil)

	manual := "ADM/2025/117"
	slNo := "117"
	admission, err := service.UpdateStatus(context.Background(), "a1", UpdateAdmissionStatusRequest{
		Status:      models.AdmissionStatusApproved,
		AdmissionNo: &manual,
		SlNo:        &slNo,
	})
	require.NoError(t, err)
	require.NotNil(t, admission.AdmissionNo)
	assert.Equal(t, manual, *admission.AdmissionNo)
	require.NotNil(t, admission.SlNo)
	assert.Equal(t, slNo, *admission.SlNo)
}

func TestAdmissionServiceUpdateStatusNumberPathsExclusive(t *testing.T) {
	repo := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {ID: "a1", Status: models.AdmissionStatusPending},
	}}
	service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, nil)

	manual := "ADM/2025/117"
	_, err := service.UpdateStatus(context.Background(), "a1", UpdateAdmissionStatusRequest{
		Status:       models.AdmissionStatusApproved,
		AdmissionNo:  &manual,
		AssignNumber: true,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceUpdateStatusNumberOnlyWhenApproving(t *testing.T) {
	repo := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {ID: "a1", Status: models.AdmissionStatusPending},
	}}
	service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, nil)

	_, err := service.UpdateStatus(context.Background(), "a1", UpdateAdmissionStatusRequest{
		Status:       models.AdmissionStatusReviewing,
		AssignNumber: true,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.AdmissionStatus
		to      models.AdmissionStatus
		allowed bool
	}{
		{models.AdmissionStatusPending, models.AdmissionStatusReviewing, true},
		{models.AdmissionStatusPending, models.AdmissionStatusApproved, true},
		{models.AdmissionStatusPending, models.AdmissionStatusRejected, true},
		{models.AdmissionStatusReviewing, models.AdmissionStatusApproved, true},
		{models.AdmissionStatusReviewing, models.AdmissionStatusRejected, true},
		{models.AdmissionStatusReviewing, models.AdmissionStatusPending, false},
		{models.AdmissionStatusApproved, models.AdmissionStatusRejected, false},
		{models.AdmissionStatusRejected, models.AdmissionStatusPending, false},
	}
	for _, tc := range cases {
		repo := &mockAdmissionRepo{items: map[string]*models.Admission{
			"a1": {ID: "a1", Status: tc.from},
		}}
		service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, nil)

		_, err := service.UpdateStatus(context.Background(), "a1", UpdateAdmissionStatusRequest{Status: tc.to})
		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			require.Error(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
		}
	}
}

func TestAdmissionServiceDeleteCleansAttachments(t *testing.T) {
	repo := &mockAdmissionRepo{items: map[string]*models.Admission{
		"a1": {
			ID:                   "a1",
			Status:               models.AdmissionStatusRejected,
			PhotoPath:            "attachments/photo.jpg",
			BirthCertificatePath: "attachments/cert.pdf",
		},
	}}
	cleaner := &mockCleaner{}
	service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, cleaner)

	err := service.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, repo.deleted)
	assert.ElementsMatch(t, []string{"attachments/photo.jpg", "attachments/cert.pdf"}, cleaner.paths)
}

func TestAdmissionServiceExportCSV(t *testing.T) {
	admissionNo := "ADM250001"
	repo := &mockAdmissionRepo{listResult: []models.Admission{
		{EnquiryNumber: "ENQ25060001", StudentName: "Asha Mohanty", ClassApplied: "V", Category: models.CategoryGeneral, Status: models.AdmissionStatusApproved, AdmissionNo: &admissionNo},
	}, listTotal: 1}
	service := newAdmissionService(repo, &mockVerifier{}, &mockNumberIssuer{}, nil)

	payload, err := service.ExportCSV(context.Background(), models.AdmissionFilter{})
	require.NoError(t, err)
	csv := string(payload)
	assert.Contains(t, csv, "Admission No")
	assert.Contains(t, csv, "ADM250001")
	assert.Contains(t, csv, "Asha Mohanty")
}
