package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type mockFeedbackRepo struct {
	entries  map[int64]models.Feedback
	nextID   int64
	resolved []int64
	deleted  []int64
}

func (m *mockFeedbackRepo) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	out := make([]models.Feedback, 0, len(m.entries))
	for _, f := range m.entries {
		out = append(out, f)
	}
	return out, len(out), nil
}

func (m *mockFeedbackRepo) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	if f, ok := m.entries[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	if m.entries == nil {
		m.entries = make(map[int64]models.Feedback)
	}
	m.nextID++
	feedback.ID = m.nextID
	m.entries[feedback.ID] = *feedback
	return nil
}

func (m *mockFeedbackRepo) Resolve(ctx context.Context, id int64, resolvedAt time.Time) error {
	m.resolved = append(m.resolved, id)
	if f, ok := m.entries[id]; ok {
		f.Status = models.FeedbackStatusResolved
		f.ResolvedAt = &resolvedAt
		m.entries[id] = f
	}
	return nil
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.entries, id)
	return nil
}

func TestFeedbackServiceCreate(t *testing.T) {
	repo := &mockFeedbackRepo{}
	students := &mockStudentRepo{students: map[int64]models.KidStudent{
		5: {ID: 5, Active: true},
	}}
	svc := NewFeedbackService(repo, students, validator.New(), zap.NewNop())

	studentID := int64(5)
	feedback, err := svc.Create(context.Background(), 7, CreateFeedbackRequest{
		KidStudentID: &studentID,
		Content:      "Mia loves the space category.",
		Rating:       5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), feedback.UserID)
	assert.Equal(t, models.FeedbackStatusOpen, feedback.Status)
}

func TestFeedbackServiceCreateUnknownStudent(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockStudentRepo{}, validator.New(), zap.NewNop())

	studentID := int64(999)
	_, err := svc.Create(context.Background(), 7, CreateFeedbackRequest{
		KidStudentID: &studentID,
		Content:      "hello",
		Rating:       3,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestFeedbackServiceCreateInvalidRating(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockStudentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), 7, CreateFeedbackRequest{
		Content: "hello",
		Rating:  9,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestFeedbackServiceResolve(t *testing.T) {
	repo := &mockFeedbackRepo{entries: map[int64]models.Feedback{
		1: {ID: 1, UserID: 7, Content: "x", Rating: 4, Status: models.FeedbackStatusOpen},
	}}
	svc := NewFeedbackService(repo, &mockStudentRepo{}, validator.New(), zap.NewNop())

	resolved, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Contains(t, repo.resolved, int64(1))
}

func TestFeedbackServiceResolveTwiceConflicts(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockFeedbackRepo{entries: map[int64]models.Feedback{
		1: {ID: 1, Status: models.FeedbackStatusResolved, ResolvedAt: &now},
	}}
	svc := NewFeedbackService(repo, &mockStudentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Resolve(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}
