package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admissions-api/internal/models"
)

// SequenceRepository owns the per-scope atomic counters backing human-readable
// record numbers.
type SequenceRepository struct {
	db *sqlx.DB
}

// NewSequenceRepository constructs the repository.
func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Increment obtains the next serial for the scope in a single atomic statement.
// Concurrent callers each receive a distinct value; there is no read-then-write
// window.
func (r *SequenceRepository) Increment(ctx context.Context, entity models.SequenceEntity, scopeKey string) (int64, error) {
	const query = `INSERT INTO sequence_counters (entity_type, scope_key, value, updated_at)
        VALUES ($1, $2, 1, NOW())
        ON CONFLICT (entity_type, scope_key)
        DO UPDATE SET value = sequence_counters.value + 1, updated_at = NOW()
        RETURNING value`
	var value int64
	if err := r.db.GetContext(ctx, &value, query, entity, scopeKey); err != nil {
		return 0, fmt.Errorf("increment sequence %s/%s: %w", entity, scopeKey, err)
	}
	return value, nil
}

// Current returns the last issued serial for the scope, zero when none exists.
func (r *SequenceRepository) Current(ctx context.Context, entity models.SequenceEntity, scopeKey string) (int64, error) {
	const query = `SELECT value FROM sequence_counters WHERE entity_type = $1 AND scope_key = $2`
	var value int64
	if err := r.db.GetContext(ctx, &value, query, entity, scopeKey); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("read sequence %s/%s: %w", entity, scopeKey, err)
	}
	return value, nil
}
