package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidsread/kidsread-api/internal/models"
)

// ReadingRepository manages persistence for kid reading sessions.
type ReadingRepository struct {
	db *sqlx.DB
}

// NewReadingRepository constructs a ReadingRepository.
func NewReadingRepository(db *sqlx.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// List returns readings with their e-book title, matching the filters.
func (r *ReadingRepository) List(ctx context.Context, filter models.ReadingFilter) ([]models.KidReadingDetail, int, error) {
	var fb filterBuilder
	if filter.KidStudentID != nil {
		fb.add("kr.kid_student_id = $%d", *filter.KidStudentID)
	}
	if filter.EbookID != nil {
		fb.add("kr.ebook_id = $%d", *filter.EbookID)
	}
	if filter.Status != nil {
		fb.add("kr.status = $%d", *filter.Status)
	}
	if filter.DateFrom != nil {
		fb.add("kr.read_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		fb.add("kr.read_date <= $%d", *filter.DateTo)
	}
	baseQuery := fb.where("FROM kid_readings kr JOIN ebooks e ON e.id = kr.ebook_id WHERE 1=1")
	args := fb.args

	orderBy := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"read_date":  "kr.read_date",
		"score":      "kr.score",
		"created_at": "kr.created_at",
	}, "kr.read_date")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf(`SELECT kr.id, kr.kid_student_id, kr.ebook_id, kr.status, kr.score, kr.stars, kr.duration_minutes, kr.read_date, kr.created_at, kr.updated_at,
        e.title AS ebook_title
        %s ORDER BY %s LIMIT %d OFFSET %d`, baseQuery, orderBy, limit, offset)

	var readings []models.KidReadingDetail
	if err := r.db.SelectContext(ctx, &readings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list readings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count readings: %w", err)
	}
	return readings, total, nil
}

// FindByID fetches a reading with its e-book title.
func (r *ReadingRepository) FindByID(ctx context.Context, id int64) (*models.KidReadingDetail, error) {
	const query = `SELECT kr.id, kr.kid_student_id, kr.ebook_id, kr.status, kr.score, kr.stars, kr.duration_minutes, kr.read_date, kr.created_at, kr.updated_at,
        e.title AS ebook_title
        FROM kid_readings kr JOIN ebooks e ON e.id = kr.ebook_id
        WHERE kr.id = $1 LIMIT 1`
	var detail models.KidReadingDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find reading: %w", err)
	}
	return &detail, nil
}

// Create inserts a new reading session and fills in the generated id.
func (r *ReadingRepository) Create(ctx context.Context, reading *models.KidReading) error {
	now := time.Now().UTC()
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = now
	}
	reading.UpdatedAt = now
	const query = `INSERT INTO kid_readings (kid_student_id, ebook_id, status, score, stars, duration_minutes, read_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &reading.ID, query, reading.KidStudentID, reading.EbookID, reading.Status, reading.Score, reading.Stars, reading.DurationMinutes, reading.ReadDate, reading.CreatedAt, reading.UpdatedAt); err != nil {
		return fmt.Errorf("create reading: %w", err)
	}
	return nil
}

// Update modifies an existing reading session.
func (r *ReadingRepository) Update(ctx context.Context, reading *models.KidReading) error {
	reading.UpdatedAt = time.Now().UTC()
	const query = `UPDATE kid_readings SET status = :status, score = :score, stars = :stars, duration_minutes = :duration_minutes, read_date = :read_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		return fmt.Errorf("update reading: %w", err)
	}
	return nil
}

// Delete removes a reading session.
func (r *ReadingRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM kid_readings WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	return nil
}
