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

type feedbackRepository interface {
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)
	FindByID(ctx context.Context, id int64) (*models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Resolve(ctx context.Context, id int64, resolvedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type feedbackStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.KidStudent, error)
}

// CreateFeedbackRequest holds payload for submitting feedback.
type CreateFeedbackRequest struct {
	KidStudentID *int64 `json:"kid_student_id"`
	Content      string `json:"content" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
}

// FeedbackService handles feedback submission and resolution.
type FeedbackService struct {
	repo      feedbackRepository
	students  feedbackStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(repo feedbackRepository, students feedbackStudentRepository, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns feedback entries and pagination metadata.
func (s *FeedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
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
	return entries, pagination, nil
}

// Get loads a feedback entry by ID.
func (s *FeedbackService) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	return feedback, nil
}

// Create submits a new feedback entry for the authenticated user.
func (s *FeedbackService) Create(ctx context.Context, userID int64, req CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if req.KidStudentID != nil {
		if _, err := s.students.FindByID(ctx, *req.KidStudentID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
		}
	}
	feedback := &models.Feedback{
		UserID:       userID,
		KidStudentID: req.KidStudentID,
		Content:      req.Content,
		Rating:       req.Rating,
		Status:       models.FeedbackStatusOpen,
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return feedback, nil
}

// Resolve marks a feedback entry as resolved.
func (s *FeedbackService) Resolve(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	if feedback.Status == models.FeedbackStatusResolved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "feedback already resolved")
	}
	resolvedAt := time.Now().UTC()
	if err := s.repo.Resolve(ctx, id, resolvedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve feedback")
	}
	feedback.Status = models.FeedbackStatusResolved
	feedback.ResolvedAt = &resolvedAt
	return feedback, nil
}

// Delete removes a feedback entry.
func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}
	return nil
}
