package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admissions-api/internal/models"
)

func enquiryRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "enquiry_number", "parent_name", "student_name", "class_applied", "mobile", "email", "location", "notes", "status", "created_at", "updated_at"}).
		AddRow("e1", "ENQ25060001", "Ravi Mohanty", "Asha Mohanty", "V", "9876543210", nil, "Balasore", "", "pending", now, now)
}

func TestEnquiryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectExec("INSERT INTO enquiries").WillReturnResult(sqlmock.NewResult(1, 1))

	enquiry := &models.Enquiry{
		EnquiryNumber: "ENQ25060001",
		ParentName:    "Ravi Mohanty",
		StudentName:   "Asha Mohanty",
		ClassApplied:  "V",
		Mobile:        "9876543210",
		Status:        models.EnquiryStatusPending,
	}
	err := repo.Create(context.Background(), enquiry)
	require.NoError(t, err)
	assert.NotEmpty(t, enquiry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryFindByNumber(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM enquiries WHERE enquiry_number").
		WithArgs("ENQ25060001").
		WillReturnRows(enquiryRows(time.Now()))

	enquiry, err := repo.FindByNumber(context.Background(), "ENQ25060001")
	require.NoError(t, err)
	assert.Equal(t, "ENQ25060001", enquiry.EnquiryNumber)
	assert.Equal(t, models.EnquiryStatusPending, enquiry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryFindByNumberMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM enquiries WHERE enquiry_number").
		WithArgs("ENQ25069999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByNumber(context.Background(), "ENQ25069999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestEnquiryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM enquiries WHERE status = \\$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs(models.EnquiryStatusPending).
		WillReturnRows(enquiryRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enquiries WHERE status = $1")).
		WithArgs(models.EnquiryStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	enquiries, total, err := repo.List(context.Background(), models.EnquiryFilter{Status: models.EnquiryStatusPending})
	require.NoError(t, err)
	assert.Len(t, enquiries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enquiries SET status = $2, notes = $3, updated_at = $4 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "e1", models.EnquiryStatusApproved, "verified on call")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnquiryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enquiries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "e1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
