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

// EbookRepository manages persistence for the e-book catalogue.
type EbookRepository struct {
	db *sqlx.DB
}

// NewEbookRepository constructs an EbookRepository.
func NewEbookRepository(db *sqlx.DB) *EbookRepository {
	return &EbookRepository{db: db}
}

// List returns e-books with their category name, matching the filters.
func (r *EbookRepository) List(ctx context.Context, filter models.EbookFilter) ([]models.EbookDetail, int, error) {
	var fb filterBuilder
	if filter.CategoryID != nil {
		fb.add("e.category_id = $%d", *filter.CategoryID)
	}
	if filter.GradeID != nil {
		fb.add("e.grade_id = $%d", *filter.GradeID)
	}
	if filter.Active != nil {
		fb.add("e.active = $%d", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("(LOWER(e.title) LIKE $%[1]d OR LOWER(e.author) LIKE $%[1]d)", "%"+strings.ToLower(filter.Search)+"%")
	}
	baseQuery := fb.where("FROM ebooks e JOIN categories c ON c.id = e.category_id WHERE 1=1")
	args := fb.args

	orderBy := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"title":      "e.title",
		"author":     "e.author",
		"grade_id":   "e.grade_id",
		"created_at": "e.created_at",
	}, "e.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf(`SELECT e.id, e.title, e.author, e.category_id, e.grade_id, e.cover_url, e.content_url, e.pages, e.active, e.created_at, e.updated_at,
        c.name AS category_name
        %s ORDER BY %s LIMIT %d OFFSET %d`, baseQuery, orderBy, limit, offset)

	var ebooks []models.EbookDetail
	if err := r.db.SelectContext(ctx, &ebooks, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list ebooks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count ebooks: %w", err)
	}
	return ebooks, total, nil
}

// FindByID fetches an e-book with its category name.
func (r *EbookRepository) FindByID(ctx context.Context, id int64) (*models.EbookDetail, error) {
	const query = `SELECT e.id, e.title, e.author, e.category_id, e.grade_id, e.cover_url, e.content_url, e.pages, e.active, e.created_at, e.updated_at,
        c.name AS category_name
        FROM ebooks e JOIN categories c ON c.id = e.category_id
        WHERE e.id = $1 LIMIT 1`
	var detail models.EbookDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find ebook: %w", err)
	}
	return &detail, nil
}

// Create inserts a new e-book and fills in the generated id.
func (r *EbookRepository) Create(ctx context.Context, ebook *models.Ebook) error {
	now := time.Now().UTC()
	if ebook.CreatedAt.IsZero() {
		ebook.CreatedAt = now
	}
	ebook.UpdatedAt = now
	const query = `INSERT INTO ebooks (title, author, category_id, grade_id, cover_url, content_url, pages, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.GetContext(ctx, &ebook.ID, query, ebook.Title, ebook.Author, ebook.CategoryID, ebook.GradeID, ebook.CoverURL, ebook.ContentURL, ebook.Pages, ebook.Active, ebook.CreatedAt, ebook.UpdatedAt); err != nil {
		return fmt.Errorf("create ebook: %w", err)
	}
	return nil
}

// Update modifies an existing e-book.
func (r *EbookRepository) Update(ctx context.Context, ebook *models.Ebook) error {
	ebook.UpdatedAt = time.Now().UTC()
	const query = `UPDATE ebooks SET title = :title, author = :author, category_id = :category_id, grade_id = :grade_id, cover_url = :cover_url, content_url = :content_url, pages = :pages, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ebook); err != nil {
		return fmt.Errorf("update ebook: %w", err)
	}
	return nil
}

// Deactivate marks an e-book inactive.
func (r *EbookRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE ebooks SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate ebook: %w", err)
	}
	return nil
}
