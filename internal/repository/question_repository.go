package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidsread/kidsread-api/internal/models"
)

// QuestionRepository manages persistence for quiz questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs a QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns questions matching the provided filters.
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error) {
	var fb filterBuilder
	if filter.EbookID != nil {
		fb.add("ebook_id = $%d", *filter.EbookID)
	}
	if filter.Active != nil {
		fb.add("active = $%d", *filter.Active)
	}
	baseQuery := fb.where("FROM questions WHERE 1=1")
	args := fb.args

	limit, offset := pageWindow(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT id, ebook_id, question_text, options, correct_option, active, created_at, updated_at %s ORDER BY id ASC LIMIT %d OFFSET %d", baseQuery, limit, offset)

	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}
	return questions, total, nil
}

// FindByID fetches a question by id.
func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	const query = `SELECT id, ebook_id, question_text, options, correct_option, active, created_at, updated_at FROM questions WHERE id = $1 LIMIT 1`
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &question, nil
}

// Create inserts a new question and fills in the generated id.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	now := time.Now().UTC()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}
	question.UpdatedAt = now
	const query = `INSERT INTO questions (ebook_id, question_text, options, correct_option, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &question.ID, query, question.EbookID, question.QuestionText, question.Options, question.CorrectOption, question.Active, question.CreatedAt, question.UpdatedAt); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// Update modifies an existing question.
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	question.UpdatedAt = time.Now().UTC()
	const query = `UPDATE questions SET question_text = :question_text, options = :options, correct_option = :correct_option, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM questions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}
