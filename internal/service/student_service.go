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

type studentRepository interface {
	List(ctx context.Context, filter models.KidStudentFilter) ([]models.KidStudent, int, error)
	FindByID(ctx context.Context, id int64) (*models.KidStudent, error)
	Create(ctx context.Context, student *models.KidStudent) error
	Update(ctx context.Context, student *models.KidStudent) error
	Deactivate(ctx context.Context, id int64) error
}

type studentUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// CreateStudentRequest holds payload for registering a kid student.
type CreateStudentRequest struct {
	UserID    int64      `json:"user_id" validate:"required"`
	FullName  string     `json:"full_name" validate:"required"`
	GradeID   int        `json:"grade_id" validate:"required,min=1,max=12"`
	ClassID   *int64     `json:"class_id"`
	BirthDate *time.Time `json:"birth_date"`
}

// UpdateStudentRequest holds payload for updating a kid student.
type UpdateStudentRequest struct {
	FullName  string     `json:"full_name" validate:"required"`
	GradeID   int        `json:"grade_id" validate:"required,min=1,max=12"`
	ClassID   *int64     `json:"class_id"`
	BirthDate *time.Time `json:"birth_date"`
	Active    bool       `json:"active"`
}

// StudentService handles kid student use-cases.
type StudentService struct {
	repo      studentRepository
	users     studentUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, users studentUserRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns kid students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.KidStudentFilter) ([]models.KidStudent, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
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
	return students, pagination, nil
}

// Get returns a single kid student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.KidStudent, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new kid student under an existing parent account.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.KidStudent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	parent, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "parent account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate parent account")
	}
	if !parent.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "parent account is inactive")
	}
	student := &models.KidStudent{
		UserID:    req.UserID,
		FullName:  req.FullName,
		GradeID:   req.GradeID,
		ClassID:   req.ClassID,
		BirthDate: req.BirthDate,
		Active:    true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing kid student record.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.KidStudent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	student.FullName = req.FullName
	student.GradeID = req.GradeID
	student.ClassID = req.ClassID
	student.BirthDate = req.BirthDate
	student.Active = req.Active
	student.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Deactivate soft-deletes a kid student.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	return nil
}
