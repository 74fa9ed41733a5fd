package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[int64]models.KidStudent
	nextID      int64
	deactivated []int64
	lastFilter  models.KidStudentFilter
	listTotal   int
	err         error
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.KidStudentFilter) ([]models.KidStudent, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]models.KidStudent, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, m.listTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.KidStudent, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.KidStudent) error {
	if m.students == nil {
		m.students = make(map[int64]models.KidStudent)
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.KidStudent) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id int64) error {
	m.deactivated = append(m.deactivated, id)
	if s, ok := m.students[id]; ok {
		s.Active = false
		m.students[id] = s
	}
	return nil
}

type mockUserLookup struct {
	users map[int64]models.User
}

func (m *mockUserLookup) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	users := &mockUserLookup{users: map[int64]models.User{
		7: {ID: 7, Role: models.RoleParent, Active: true},
	}}
	svc := NewStudentService(repo, users, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		UserID:   7,
		FullName: "Mia Tan",
		GradeID:  3,
	})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.True(t, student.Active)
	assert.Equal(t, int64(7), student.UserID)
}

func TestStudentServiceCreateUnknownParent(t *testing.T) {
	repo := &mockStudentRepo{}
	users := &mockUserLookup{}
	svc := NewStudentService(repo, users, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		UserID:   99,
		FullName: "Mia Tan",
		GradeID:  3,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestStudentServiceCreateInvalidGrade(t *testing.T) {
	repo := &mockStudentRepo{}
	users := &mockUserLookup{users: map[int64]models.User{
		7: {ID: 7, Role: models.RoleParent, Active: true},
	}}
	svc := NewStudentService(repo, users, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		UserID:   7,
		FullName: "Mia Tan",
		GradeID:  13,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUserLookup{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), 123)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "student not found", appErr.Message)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.KidStudent{
		1: {ID: 1, UserID: 7, FullName: "Mia Tan", GradeID: 3, Active: true},
	}}
	svc := NewStudentService(repo, &mockUserLookup{}, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), 1, UpdateStudentRequest{
		FullName: "Mia Tan-Lee",
		GradeID:  4,
		Active:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mia Tan-Lee", updated.FullName)
	assert.Equal(t, 4, updated.GradeID)
	assert.Equal(t, "Mia Tan-Lee", repo.students[1].FullName)
}

func TestStudentServiceDeactivate(t *testing.T) {
	repo := &mockStudentRepo{students: map[int64]models.KidStudent{
		1: {ID: 1, Active: true},
	}}
	svc := NewStudentService(repo, &mockUserLookup{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.Deactivate(context.Background(), 1))
	assert.Contains(t, repo.deactivated, int64(1))
	assert.False(t, repo.students[1].Active)
}

func TestStudentServiceListDefaultsPagination(t *testing.T) {
	repo := &mockStudentRepo{listTotal: 2, students: map[int64]models.KidStudent{
		1: {ID: 1}, 2: {ID: 2},
	}}
	svc := NewStudentService(repo, &mockUserLookup{}, validator.New(), zap.NewNop())

	_, pagination, err := svc.List(context.Background(), models.KidStudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 2, pagination.TotalCount)
}
