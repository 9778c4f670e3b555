package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admissions-api/internal/models"
)

func TestSequenceIncrement(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSequenceRepository(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow(42)
	mock.ExpectQuery("INSERT INTO sequence_counters").
		WithArgs("enquiry", "ENQ2506").
		WillReturnRows(rows)

	value, err := repo.Increment(context.Background(), models.SequenceEnquiry, "ENQ2506")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceCurrent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSequenceRepository(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow(7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM sequence_counters WHERE entity_type = $1 AND scope_key = $2")).
		WithArgs("admission", "ADM25").
		WillReturnRows(rows)

	value, err := repo.Current(context.Background(), models.SequenceAdmission, "ADM25")
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceCurrentEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSequenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM sequence_counters WHERE entity_type = $1 AND scope_key = $2")).
		WithArgs("registration", "ATAT25").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, err := repo.Current(context.Background(), models.SequenceRegistration, "ATAT25")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
