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

type readingRepository interface {
	List(ctx context.Context, filter models.ReadingFilter) ([]models.KidReadingDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.KidReadingDetail, error)
	Create(ctx context.Context, reading *models.KidReading) error
	Update(ctx context.Context, reading *models.KidReading) error
	Delete(ctx context.Context, id int64) error
}

type readingStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.KidStudent, error)
}

type readingEbookRepository interface {
	FindByID(ctx context.Context, id int64) (*models.EbookDetail, error)
}

// CreateReadingRequest holds payload for recording a reading session.
type CreateReadingRequest struct {
	KidStudentID    int64      `json:"kid_student_id" validate:"required"`
	EbookID         int64      `json:"ebook_id" validate:"required"`
	Status          string     `json:"status" validate:"required,oneof=in_progress completed"`
	Score           *float64   `json:"score" validate:"omitempty,min=0,max=10"`
	Stars           *float64   `json:"stars" validate:"omitempty,min=0,max=10"`
	DurationMinutes int        `json:"duration_minutes" validate:"min=0"`
	ReadDate        *time.Time `json:"read_date"`
}

// UpdateReadingRequest holds payload for updating a reading session.
type UpdateReadingRequest struct {
	Status          string   `json:"status" validate:"required,oneof=in_progress completed"`
	Score           *float64 `json:"score" validate:"omitempty,min=0,max=10"`
	Stars           *float64 `json:"stars" validate:"omitempty,min=0,max=10"`
	DurationMinutes int      `json:"duration_minutes" validate:"min=0"`
}

// ReadingService handles reading session use-cases.
type ReadingService struct {
	repo      readingRepository
	students  readingStudentRepository
	ebooks    readingEbookRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReadingService constructs the reading service.
func NewReadingService(repo readingRepository, students readingStudentRepository, ebooks readingEbookRepository, validate *validator.Validate, logger *zap.Logger) *ReadingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadingService{repo: repo, students: students, ebooks: ebooks, validator: validate, logger: logger}
}

// List returns reading sessions and pagination metadata.
func (s *ReadingService) List(ctx context.Context, filter models.ReadingFilter) ([]models.KidReadingDetail, *models.Pagination, error) {
	readings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list readings")
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
	return readings, pagination, nil
}

// Get loads a reading session by ID.
func (s *ReadingService) Get(ctx context.Context, id int64) (*models.KidReadingDetail, error) {
	reading, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reading not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reading")
	}
	return reading, nil
}

// Create records a new reading session after checking the student and e-book exist.
func (s *ReadingService) Create(ctx context.Context, req CreateReadingRequest) (*models.KidReading, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reading payload")
	}
	if _, err := s.students.FindByID(ctx, req.KidStudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
	}
	if _, err := s.ebooks.FindByID(ctx, req.EbookID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ebook")
	}
	readDate := time.Now().UTC()
	if req.ReadDate != nil {
		readDate = *req.ReadDate
	}
	reading := &models.KidReading{
		KidStudentID:    req.KidStudentID,
		EbookID:         req.EbookID,
		Status:          models.ReadingStatus(req.Status),
		Score:           req.Score,
		Stars:           req.Stars,
		DurationMinutes: req.DurationMinutes,
		ReadDate:        readDate,
	}
	if err := s.repo.Create(ctx, reading); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reading")
	}
	return reading, nil
}

// Update modifies the status and results of a reading session.
func (s *ReadingService) Update(ctx context.Context, id int64, req UpdateReadingRequest) (*models.KidReading, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reading payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reading not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reading")
	}
	reading := detail.KidReading
	reading.Status = models.ReadingStatus(req.Status)
	reading.Score = req.Score
	reading.Stars = req.Stars
	reading.DurationMinutes = req.DurationMinutes
	reading.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &reading); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reading")
	}
	return &reading, nil
}

// Delete removes a reading session.
func (s *ReadingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "reading not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reading")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reading")
	}
	return nil
}
