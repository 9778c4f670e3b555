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

// AdmissionRepository handles persistence of admission applications and their
// ordered academic/sibling sub-collections.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs the repository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

const admissionColumns = `id, enquiry_id, enquiry_number, admission_no, sl_no, student_name, date_of_birth, gender, category, class_applied,
        father_name, father_occupation, mother_name, mother_occupation, mobile, email, present_address, permanent_address,
        previous_school, previous_class, single_girl_child, specially_abled, ews, photo_path, birth_certificate_path,
        status, notes, created_at, updated_at`

// Create persists an admission with its child rows inside one transaction.
// Child rows keep the submitted order through the position column.
func (r *AdmissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	if admission.ID == "" {
		admission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admission.CreatedAt.IsZero() {
		admission.CreatedAt = now
	}
	admission.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admission tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertAdmission = `INSERT INTO admissions (` + admissionColumns + `)
        VALUES (:id, :enquiry_id, :enquiry_number, :admission_no, :sl_no, :student_name, :date_of_birth, :gender, :category, :class_applied,
        :father_name, :father_occupation, :mother_name, :mother_occupation, :mobile, :email, :present_address, :permanent_address,
        :previous_school, :previous_class, :single_girl_child, :specially_abled, :ews, :photo_path, :birth_certificate_path,
        :status, :notes, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertAdmission, admission); err != nil {
		return fmt.Errorf("create admission: %w", err)
	}

	const insertAcademic = `INSERT INTO admission_academics (id, admission_id, position, subject, max_marks, marks_obtained, percentage, remarks)
        VALUES (:id, :admission_id, :position, :subject, :max_marks, :marks_obtained, :percentage, :remarks)`
	for i := range admission.Academics {
		record := &admission.Academics[i]
		record.ID = uuid.NewString()
		record.AdmissionID = admission.ID
		record.Position = i
		if _, err := tx.NamedExecContext(ctx, insertAcademic, record); err != nil {
			return fmt.Errorf("create admission academic: %w", err)
		}
	}

	const insertSibling = `INSERT INTO admission_siblings (id, admission_id, position, name, age, school)
        VALUES (:id, :admission_id, :position, :name, :age, :school)`
	for i := range admission.Siblings {
		sibling := &admission.Siblings[i]
		sibling.ID = uuid.NewString()
		sibling.AdmissionID = admission.ID
		sibling.Position = i
		if _, err := tx.NamedExecContext(ctx, insertSibling, sibling); err != nil {
			return fmt.Errorf("create admission sibling: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit admission tx: %w", err)
	}
	return nil
}

// FindByID returns an admission with its child rows in submission order.
func (r *AdmissionRepository) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admissions WHERE id = $1`
	var admission models.Admission
	if err := r.db.GetContext(ctx, &admission, query, id); err != nil {
		return nil, err
	}

	const academicsQuery = `SELECT id, admission_id, position, subject, max_marks, marks_obtained, percentage, remarks
        FROM admission_academics WHERE admission_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &admission.Academics, academicsQuery, id); err != nil {
		return nil, fmt.Errorf("load admission academics: %w", err)
	}

	const siblingsQuery = `SELECT id, admission_id, position, name, age, school
        FROM admission_siblings WHERE admission_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &admission.Siblings, siblingsQuery, id); err != nil {
		return nil, fmt.Errorf("load admission siblings: %w", err)
	}
	return &admission, nil
}

// List returns admissions filtered by the provided criteria, without child rows.
func (r *AdmissionRepository) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	base := `FROM admissions`
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
	if filter.EnquiryNumber != "" {
		conditions = append(conditions, fmt.Sprintf("enquiry_number = $%d", len(args)+1))
		args = append(args, filter.EnquiryNumber)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(student_name ILIKE $%d OR father_name ILIKE $%d OR enquiry_number ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":   "created_at",
		"student_name": "student_name",
		"admission_no": "admission_no",
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

	query := fmt.Sprintf(`SELECT `+admissionColumns+` %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var admissions []models.Admission
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admissions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admissions: %w", err)
	}
	return admissions, total, nil
}

// CountByEnquiryNumber counts admissions referencing the enquiry number. Used
// by the enquiry deletion policy.
func (r *AdmissionRepository) CountByEnquiryNumber(ctx context.Context, enquiryNumber string) (int, error) {
	const query = `SELECT COUNT(*) FROM admissions WHERE enquiry_number = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, enquiryNumber); err != nil {
		return 0, fmt.Errorf("count admissions by enquiry: %w", err)
	}
	return count, nil
}

// UpdateStatus overwrites status, notes and the admin-assigned numbers.
func (r *AdmissionRepository) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus, notes string, admissionNo, slNo *string) error {
	const query = `UPDATE admissions SET status = $2, notes = $3, admission_no = COALESCE($4, admission_no), sl_no = COALESCE($5, sl_no), updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, notes, admissionNo, slNo, time.Now().UTC()); err != nil {
		return fmt.Errorf("update admission status: %w", err)
	}
	return nil
}

// Delete removes an admission and its child rows.
func (r *AdmissionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admission delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM admission_academics WHERE admission_id = $1`, id); err != nil {
		return fmt.Errorf("delete admission academics: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM admission_siblings WHERE admission_id = $1`, id); err != nil {
		return fmt.Errorf("delete admission siblings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM admissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete admission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit admission delete tx: %w", err)
	}
	return nil
}
