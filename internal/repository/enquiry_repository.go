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

// EnquiryRepository handles persistence of admission enquiries.
type EnquiryRepository struct {
	db *sqlx.DB
}

// NewEnquiryRepository constructs the repository.
func NewEnquiryRepository(db *sqlx.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

// Create persists a new enquiry record.
func (r *EnquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	if enquiry.ID == "" {
		enquiry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enquiry.CreatedAt.IsZero() {
		enquiry.CreatedAt = now
	}
	enquiry.UpdatedAt = now
	const query = `INSERT INTO enquiries (id, enquiry_number, parent_name, student_name, class_applied, mobile, email, location, notes, status, created_at, updated_at)
        VALUES (:id, :enquiry_number, :parent_name, :student_name, :class_applied, :mobile, :email, :location, :notes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enquiry); err != nil {
		return fmt.Errorf("create enquiry: %w", err)
	}
	return nil
}

// FindByID returns an enquiry by its internal id.
func (r *EnquiryRepository) FindByID(ctx context.Context, id string) (*models.Enquiry, error) {
	const query = `SELECT id, enquiry_number, parent_name, student_name, class_applied, mobile, email, location, notes, status, created_at, updated_at
        FROM enquiries WHERE id = $1`
	var enquiry models.Enquiry
	if err := r.db.GetContext(ctx, &enquiry, query, id); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// FindByNumber returns an enquiry by its human-facing enquiry number.
func (r *EnquiryRepository) FindByNumber(ctx context.Context, enquiryNumber string) (*models.Enquiry, error) {
	const query = `SELECT id, enquiry_number, parent_name, student_name, class_applied, mobile, email, location, notes, status, created_at, updated_at
        FROM enquiries WHERE enquiry_number = $1`
	var enquiry models.Enquiry
	if err := r.db.GetContext(ctx, &enquiry, query, enquiryNumber); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// List returns enquiries filtered by the provided criteria.
func (r *EnquiryRepository) List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, int, error) {
	base := `FROM enquiries`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(student_name ILIKE $%d OR parent_name ILIKE $%d OR enquiry_number ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":     "created_at",
		"enquiry_number": "enquiry_number",
		"student_name":   "student_name",
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

	query := fmt.Sprintf(`SELECT id, enquiry_number, parent_name, student_name, class_applied, mobile, email, location, notes, status, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var enquiries []models.Enquiry
	if err := r.db.SelectContext(ctx, &enquiries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enquiries: %w", err)
	}
	return enquiries, total, nil
}

// UpdateStatus overwrites status and notes for an enquiry.
func (r *EnquiryRepository) UpdateStatus(ctx context.Context, id string, status models.EnquiryStatus, notes string) error {
	const query = `UPDATE enquiries SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, notes, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enquiry status: %w", err)
	}
	return nil
}

// Delete removes an enquiry record.
func (r *EnquiryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enquiries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enquiry: %w", err)
	}
	return nil
}
