package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type ebookRepository interface {
	List(ctx context.Context, filter models.EbookFilter) ([]models.EbookDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.EbookDetail, error)
	Create(ctx context.Context, ebook *models.Ebook) error
	Update(ctx context.Context, ebook *models.Ebook) error
	Deactivate(ctx context.Context, id int64) error
}

type ebookCategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

// EbookRequest holds payload for creating or updating catalogue entries.
type EbookRequest struct {
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required"`
	GradeID    int    `json:"grade_id" validate:"required,min=1,max=12"`
	CoverURL   string `json:"cover_url"`
	ContentURL string `json:"content_url" validate:"required,url"`
	Pages      int    `json:"pages" validate:"min=0"`
	Active     bool   `json:"active"`
}

// EbookService handles the reading catalogue with a redis-backed detail cache.
type EbookService struct {
	repo       ebookRepository
	categories ebookCategoryRepository
	cache      *CacheService
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewEbookService constructs the catalogue service.
func NewEbookService(repo ebookRepository, categories ebookCategoryRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *EbookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EbookService{repo: repo, categories: categories, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns catalogue entries and pagination metadata.
func (s *EbookService) List(ctx context.Context, filter models.EbookFilter) ([]models.EbookDetail, *models.Pagination, error) {
	ebooks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ebooks")
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
	return ebooks, pagination, nil
}

// Get loads a catalogue entry, serving from cache when possible.
func (s *EbookService) Get(ctx context.Context, id int64) (*models.EbookDetail, error) {
	key := s.cacheKey(id)
	var cached models.EbookDetail
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	ebook, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ebook")
	}

	if err := s.cache.Set(ctx, key, ebook, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache ebook", zap.Int64("ebook_id", id), zap.Error(err))
	}
	return ebook, nil
}

// Create registers a new catalogue entry.
func (s *EbookService) Create(ctx context.Context, req EbookRequest) (*models.Ebook, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ebook payload")
	}
	category, err := s.categories.FindByID(ctx, req.CategoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate category")
	}
	if req.GradeID < category.MinGrade || req.GradeID > category.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade is outside the category grade range")
	}
	ebook := &models.Ebook{
		Title:      req.Title,
		Author:     req.Author,
		CategoryID: req.CategoryID,
		GradeID:    req.GradeID,
		CoverURL:   req.CoverURL,
		ContentURL: req.ContentURL,
		Pages:      req.Pages,
		Active:     true,
	}
	if err := s.repo.Create(ctx, ebook); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create ebook")
	}
	return ebook, nil
}

// Update modifies an existing catalogue entry and drops its cached copy.
func (s *EbookService) Update(ctx context.Context, id int64, req EbookRequest) (*models.Ebook, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ebook payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ebook")
	}
	category, err := s.categories.FindByID(ctx, req.CategoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate category")
	}
	if req.GradeID < category.MinGrade || req.GradeID > category.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade is outside the category grade range")
	}
	ebook := detail.Ebook
	ebook.Title = req.Title
	ebook.Author = req.Author
	ebook.CategoryID = req.CategoryID
	ebook.GradeID = req.GradeID
	ebook.CoverURL = req.CoverURL
	ebook.ContentURL = req.ContentURL
	ebook.Pages = req.Pages
	ebook.Active = req.Active
	ebook.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, &ebook); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ebook")
	}
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("failed to invalidate ebook cache", zap.Int64("ebook_id", id), zap.Error(err))
	}
	return &ebook, nil
}

// Deactivate soft-deletes a catalogue entry and drops its cached copy.
func (s *EbookService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ebook")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate ebook")
	}
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("failed to invalidate ebook cache", zap.Int64("ebook_id", id), zap.Error(err))
	}
	return nil
}

func (s *EbookService) cacheKey(id int64) string {
	return fmt.Sprintf("ebooks:detail:%d", id)
}
