package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admissions-api/internal/models"
)

// RegistrationRepository handles persistence of scholarship-test registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, registration_number, student_name, date_of_birth, gender, father_name, mother_name, mobile, email, address,
        class_applied, present_school, test_date, test_venue, test_time, rank, scholarship_percentage, photo_path, status, notes, created_at, updated_at`

// Create persists a new registration record.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = now
	}
	registration.UpdatedAt = now
	const query = `INSERT INTO registrations (` + registrationColumns + `)
        VALUES (:id, :registration_number, :student_name, :date_of_birth, :gender, :father_name, :mother_name, :mobile, :email, :address,
        :class_applied, :present_school, :test_date, :test_venue, :test_time, :rank, :scholarship_percentage, :photo_path, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// FindByID returns a registration by its internal id.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindByNumber returns a registration by its human-facing registration number.
func (r *RegistrationRepository) FindByNumber(ctx context.Context, registrationNumber string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE registration_number = $1`
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, registrationNumber); err != nil {
		return nil, err
	}
	return &registration, nil
}

// List returns registrations filtered by the provided criteria.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error) {
	base := `FROM registrations`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.ClassApplied != "" {
		conditions = append(conditions, fmt.Sprintf("class_applied = $%d", len(args)+1))
		args = append(args, filter.ClassApplied)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(student_name ILIKE $%d OR father_name ILIKE $%d OR registration_number ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":          "created_at",
		"student_name":        "student_name",
		"registration_number": "registration_number",
		"rank":                "rank",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+registrationColumns+` %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var registrations []models.Registration
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return registrations, total, nil
}

// UpdateStatus overwrites status, notes and the post-result fields.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus, notes string, rank *int, scholarshipPct *float64) error {
	const query = `UPDATE registrations SET status = $2, notes = $3, rank = COALESCE($4, rank), scholarship_percentage = COALESCE($5, scholarship_percentage), updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, notes, rank, scholarshipPct, time.Now().UTC()); err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	return nil
}

// Delete removes a registration record.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM registrations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
