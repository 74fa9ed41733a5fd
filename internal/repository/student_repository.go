package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidsread/kidsread-api/internal/models"
)

// StudentRepository manages persistence for kid student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns kid students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.KidStudentFilter) ([]models.KidStudent, int, error) {
	var fb filterBuilder
	if filter.UserID != nil {
		fb.add("user_id = $%d", *filter.UserID)
	}
	if filter.GradeID != nil {
		fb.add("grade_id = $%d", *filter.GradeID)
	}
	if filter.ClassID != nil {
		fb.add("class_id = $%d", *filter.ClassID)
	}
	if filter.Active != nil {
		fb.add("active = $%d", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("LOWER(full_name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}
	baseQuery := fb.where("FROM kid_students WHERE 1=1")
	args := fb.args

	orderBy := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"full_name":  "full_name",
		"grade_id":   "grade_id",
		"created_at": "created_at",
	}, "created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT id, user_id, full_name, grade_id, class_id, birth_date, active, created_at, updated_at %s ORDER BY %s LIMIT %d OFFSET %d", baseQuery, orderBy, limit, offset)

	var students []models.KidStudent
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list kid students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count kid students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a kid student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.KidStudent, error) {
	const query = `SELECT id, user_id, full_name, grade_id, class_id, birth_date, active, created_at, updated_at FROM kid_students WHERE id = $1 LIMIT 1`
	var student models.KidStudent
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find kid student: %w", err)
	}
	return &student, nil
}

// Create inserts a new kid student and fills in the generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.KidStudent) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO kid_students (user_id, full_name, grade_id, class_id, birth_date, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &student.ID, query, student.UserID, student.FullName, student.GradeID, student.ClassID, student.BirthDate, student.Active, student.CreatedAt, student.UpdatedAt); err != nil {
		return fmt.Errorf("create kid student: %w", err)
	}
	return nil
}

// Update modifies an existing kid student.
func (r *StudentRepository) Update(ctx context.Context, student *models.KidStudent) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE kid_students SET full_name = :full_name, grade_id = :grade_id, class_id = :class_id, birth_date = :birth_date, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update kid student: %w", err)
	}
	return nil
}

// Deactivate marks a kid student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE kid_students SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate kid student: %w", err)
	}
	return nil
}
