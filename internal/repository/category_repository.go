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

// CategoryRepository manages persistence for reading categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories matching the provided filters.
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	var fb filterBuilder
	if filter.GradeID != nil {
		fb.add("min_grade <= $%[1]d AND max_grade >= $%[1]d", *filter.GradeID)
	}
	if filter.Active != nil {
		fb.add("active = $%d", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("LOWER(name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}
	baseQuery := fb.where("FROM categories WHERE 1=1")
	args := fb.args

	requestedOrder := filter.SortOrder
	if requestedOrder == "" {
		requestedOrder = "ASC"
	}
	orderBy := sortClause(filter.SortBy, requestedOrder, map[string]string{
		"name":       "name",
		"min_grade":  "min_grade",
		"created_at": "created_at",
	}, "name")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT id, name, description, min_grade, max_grade, active, created_at, updated_at %s ORDER BY %s LIMIT %d OFFSET %d", baseQuery, orderBy, limit, offset)

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	return categories, total, nil
}

// FindByID fetches a category by id.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	const query = `SELECT id, name, description, min_grade, max_grade, active, created_at, updated_at FROM categories WHERE id = $1 LIMIT 1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// ExistsByName checks if a category name is already taken.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check category name: %w", err)
	}
	return true, nil
}

// Create inserts a new category and fills in the generated id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
	const query = `INSERT INTO categories (name, description, min_grade, max_grade, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &category.ID, query, category.Name, category.Description, category.MinGrade, category.MaxGrade, category.Active, category.CreatedAt, category.UpdatedAt); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categories SET name = :name, description = :description, min_grade = :min_grade, max_grade = :max_grade, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Deactivate marks a category inactive.
func (r *CategoryRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE categories SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return nil
}
