package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidsread/kidsread-api/internal/models"
)

// FeedbackRepository manages persistence for feedback entries.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List returns feedback entries matching the provided filters.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	var fb filterBuilder
	if filter.UserID != nil {
		fb.add("user_id = $%d", *filter.UserID)
	}
	if filter.KidStudentID != nil {
		fb.add("kid_student_id = $%d", *filter.KidStudentID)
	}
	if filter.Status != nil {
		fb.add("status = $%d", *filter.Status)
	}
	baseQuery := fb.where("FROM feedbacks WHERE 1=1")
	args := fb.args

	orderBy := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"created_at": "created_at",
		"rating":     "rating",
	}, "created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT id, user_id, kid_student_id, content, rating, status, resolved_at, created_at, updated_at %s ORDER BY %s LIMIT %d OFFSET %d", baseQuery, orderBy, limit, offset)

	var feedbacks []models.Feedback
	if err := r.db.SelectContext(ctx, &feedbacks, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}
	return feedbacks, total, nil
}

// FindByID fetches a feedback entry by id.
func (r *FeedbackRepository) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	const query = `SELECT id, user_id, kid_student_id, content, rating, status, resolved_at, created_at, updated_at FROM feedbacks WHERE id = $1 LIMIT 1`
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return &feedback, nil
}

// Create inserts a new feedback entry and fills in the generated id.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	now := time.Now().UTC()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = now
	const query = `INSERT INTO feedbacks (user_id, kid_student_id, content, rating, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &feedback.ID, query, feedback.UserID, feedback.KidStudentID, feedback.Content, feedback.Rating, feedback.Status, feedback.CreatedAt, feedback.UpdatedAt); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// Resolve marks a feedback entry resolved.
func (r *FeedbackRepository) Resolve(ctx context.Context, id int64, resolvedAt time.Time) error {
	const query = `UPDATE feedbacks SET status = $2, resolved_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.FeedbackStatusResolved, resolvedAt); err != nil {
		return fmt.Errorf("resolve feedback: %w", err)
	}
	return nil
}

// Delete removes a feedback entry.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM feedbacks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}
