package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type questionRepository interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error)
	FindByID(ctx context.Context, id int64) (*models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id int64) error
}

type questionEbookRepository interface {
	FindByID(ctx context.Context, id int64) (*models.EbookDetail, error)
}

// QuestionRequest holds payload for creating or updating quiz questions.
type QuestionRequest struct {
	EbookID       int64    `json:"ebook_id" validate:"required"`
	QuestionText  string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,max=6,dive,required"`
	CorrectOption int      `json:"correct_option" validate:"min=0"`
	Active        bool     `json:"active"`
}

// QuestionService handles quiz question use-cases.
type QuestionService struct {
	repo      questionRepository
	ebooks    questionEbookRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionService constructs the question service.
func NewQuestionService(repo questionRepository, ebooks questionEbookRepository, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{repo: repo, ebooks: ebooks, validator: validate, logger: logger}
}

// List returns quiz questions and pagination metadata.
func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, *models.Pagination, error) {
	questions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return questions, pagination, nil
}

// Get loads a quiz question by ID.
func (s *QuestionService) Get(ctx context.Context, id int64) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	return question, nil
}

// Create registers a new quiz question for an e-book.
func (s *QuestionService) Create(ctx context.Context, req QuestionRequest) (*models.Question, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.ebooks.FindByID(ctx, req.EbookID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ebook")
	}
	question := &models.Question{
		EbookID:       req.EbookID,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Active:        true,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	return question, nil
}

// Update modifies an existing quiz question.
func (s *QuestionService) Update(ctx context.Context, id int64, req QuestionRequest) (*models.Question, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	question.EbookID = req.EbookID
	question.QuestionText = req.QuestionText
	question.Options = req.Options
	question.CorrectOption = req.CorrectOption
	question.Active = req.Active
	question.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update question")
	}
	return question, nil
}

// Delete removes a quiz question.
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	return nil
}

func (s *QuestionService) validateRequest(req QuestionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if req.CorrectOption >= len(req.Options) {
		return appErrors.Clone(appErrors.ErrValidation, "correct option is out of range")
	}
	return nil
}
