package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
)

type mockEnquiryRepo struct {
	items      map[string]*models.Enquiry
	listResult []models.Enquiry
	listTotal  int
	deleted    []string
}

func (m *mockEnquiryRepo) Create(ctx context.Context, enquiry *models.Enquiry) error {
	if m.items == nil {
		m.items = make(map[string]*models.Enquiry)
	}
	if enquiry.ID == "" {
		enquiry.ID = "generated"
	}
	now := time.Now()
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now
	cp := *enquiry
	m.items[enquiry.ID] = &cp
	return nil
}

func (m *mockEnquiryRepo) FindByID(ctx context.Context, id string) (*models.Enquiry, error) {
	if enquiry, ok := m.items[id]; ok {
		cp := *enquiry
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnquiryRepo) FindByNumber(ctx context.Context, enquiryNumber string) (*models.Enquiry, error) {
	for _, enquiry := range m.items {
		if enquiry.EnquiryNumber == enquiryNumber {
			cp := *enquiry
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnquiryRepo) List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockEnquiryRepo) UpdateStatus(ctx context.Context, id string, status models.EnquiryStatus, notes string) error {
	if enquiry, ok := m.items[id]; ok {
		enquiry.Status = status
		enquiry.Notes = notes
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockEnquiryRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockAdmissionCounter struct {
	counts map[string]int
}

func (m *mockAdmissionCounter) CountByEnquiryNumber(ctx context.Context, enquiryNumber string) (int, error) {
	return m.counts[enquiryNumber], nil
}

type mockNumberIssuer struct {
	next string
	err  error
}

func (m *mockNumberIssuer) Next(ctx context.Context, entity models.SequenceEntity, at time.Time) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.next, nil
}

type mockVerifyCache struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func (m *mockVerifyCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *mockVerifyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	m.sets++
	return nil
}

func (m *mockVerifyCache) Delete(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	delete(m.entries, key)
	return nil
}

func newEnquiryService(repo *mockEnquiryRepo, admissions *mockAdmissionCounter, issuer *mockNumberIssuer, cache *mockVerifyCache) *EnquiryService {
	if admissions == nil {
		admissions = &mockAdmissionCounter{}
	}
	var vc verifyCache
	if cache != nil {
		vc = cache
	}
	return NewEnquiryService(repo, admissions, issuer, vc, time.Minute, validator.New(), zap.NewNop())
}

func TestEnquiryServiceCreate(t *testing.T) {
	repo := &mockEnquiryRepo{}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{next: "ENQ25060001"}, nil)

	enquiry, err := service.Create(context.Background(), CreateEnquiryRequest{
		ParentName:   "Ravi Mohanty",
		StudentName:  "Asha Mohanty",
		ClassApplied: "V",
		Mobile:       "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "ENQ25060001", enquiry.EnquiryNumber)
	assert.Equal(t, models.EnquiryStatusPending, enquiry.Status)
	assert.Len(t, repo.items, 1)
}

func TestEnquiryServiceCreateValidation(t *testing.T) {
	service := newEnquiryService(&mockEnquiryRepo{}, nil, &mockNumberIssuer{next: "ENQ25060001"}, nil)

	_, err := service.Create(context.Background(), CreateEnquiryRequest{StudentName: "Asha"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnquiryServiceVerifyNotFound(t *testing.T) {
	service := newEnquiryService(&mockEnquiryRepo{}, nil, &mockNumberIssuer{}, nil)

	result, err := service.Verify(context.Background(), "ENQ25069999")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.VerificationNotFound, result.State)
	assert.Nil(t, result.Enquiry)
}

func TestEnquiryServiceVerifyNotApproved(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusPending},
	}}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, nil)

	result, err := service.Verify(context.Background(), "ENQ25060001")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.VerificationNotApproved, result.State)
}

func TestEnquiryServiceVerifyValid(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusApproved},
	}}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, nil)

	result, err := service.Verify(context.Background(), "ENQ25060001")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, models.VerificationValid, result.State)
	require.NotNil(t, result.Enquiry)
	assert.Equal(t, "ENQ25060001", result.Enquiry.EnquiryNumber)
}

func TestEnquiryServiceVerifyUsesCache(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusApproved},
	}}
	cache := &mockVerifyCache{}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, cache)

	_, err := service.Verify(context.Background(), "ENQ25060001")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache even after the row disappears.
	delete(repo.items, "e1")
	result, err := service.Verify(context.Background(), "ENQ25060001")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, cache.sets)
}

func TestEnquiryServiceUpdateStatusApprove(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusPending},
	}}
	cache := &mockVerifyCache{}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, cache)

	enquiry, err := service.UpdateStatus(context.Background(), "e1", UpdateEnquiryStatusRequest{Status: models.EnquiryStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusApproved, enquiry.Status)
	assert.Contains(t, cache.deletes, "verify:ENQ25060001")
}

func TestEnquiryServiceUpdateStatusTerminal(t *testing.T) {
	for _, terminal := range []models.EnquiryStatus{models.EnquiryStatusApproved, models.EnquiryStatusRejected} {
		repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
			"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: terminal},
		}}
		service := newEnquiryService(repo, nil, &mockNumberIssuer{}, nil)

		_, err := service.UpdateStatus(context.Background(), "e1", UpdateEnquiryStatusRequest{Status: models.EnquiryStatusPending})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	}
}

func TestEnquiryServiceUpdateStatusOutsideDomain(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusPending},
	}}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, nil)

	_, err := service.UpdateStatus(context.Background(), "e1", UpdateEnquiryStatusRequest{Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnquiryServiceDeleteBlockedByAdmissions(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusApproved},
	}}
	admissions := &mockAdmissionCounter{counts: map[string]int{"ENQ25060001": 2}}
	service := newEnquiryService(repo, admissions, &mockNumberIssuer{}, nil)

	err := service.Delete(context.Background(), "e1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestEnquiryServiceDelete(t *testing.T) {
	repo := &mockEnquiryRepo{items: map[string]*models.Enquiry{
		"e1": {ID: "e1", EnquiryNumber: "ENQ25060001", Status: models.EnquiryStatusRejected},
	}}
	cache := &mockVerifyCache{}
	service := newEnquiryService(repo, nil, &mockNumberIssuer{}, cache)

	err := service.Delete(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, repo.deleted)
	assert.Contains(t, cache.deletes, "verify:ENQ25060001")
}

func TestEnquiryServiceGetNotFound(t *testing.T) {
	service := newEnquiryService(&mockEnquiryRepo{}, nil, &mockNumberIssuer{}, nil)

	_, err := service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.False(t, errors.Is(err, sql.ErrNoRows))
}
