package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsWindow() (time.Time, time.Time) {
	start := time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 6)
}

func expectStudentRow(mock sqlmock.Sqlmock, classID interface{}) {
	mock.ExpectQuery("SELECT id, full_name, grade_id, class_id FROM kid_students").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "grade_id", "class_id"}).
			AddRow(int64(42), "Mia Tan", 3, classID))
}

func expectSummaryRows(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) AS total_readings").
		WillReturnRows(sqlmock.NewRows([]string{"total_readings", "completed_readings", "passed_readings", "average_score", "average_stars", "total_study_time"}).
			AddRow(10, 8, 6, 7.5, 4.0, 5.5))
	mock.ExpectQuery("SELECT AVG\\(score\\) FROM kid_readings").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(7.0))
	mock.ExpectQuery("TO_CHAR\\(read_date, 'Day'\\)").
		WillReturnRows(sqlmock.NewRows([]string{"label"}).AddRow("Saturday"))
	mock.ExpectQuery("EXTRACT\\(HOUR FROM created_at\\)").
		WillReturnRows(sqlmock.NewRows([]string{"label"}).AddRow("in the evening"))
}

func TestStatsRepositoryGetStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, 6.0)
	start, end := statsWindow()

	expectStudentRow(mock, int64(9))
	expectSummaryRows(mock)
	mock.ExpectQuery("WITH class_scores AS").
		WithArgs(int64(42), start, end, int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"class_average", "total_classmates", "class_rank"}).
			AddRow(6.8, 20, 4))

	stats, err := repo.GetStats(context.Background(), 42, start, end)
	require.NoError(t, err)
	assert.Equal(t, "Mia Tan", stats.StudentName)
	assert.Equal(t, 3, stats.GradeID)

	sum := stats.LearningSummary
	assert.Equal(t, 10, sum.TotalReadings)
	assert.InDelta(t, 80.0, sum.CompletionRate, 0.001)
	assert.InDelta(t, 75.0, sum.PassRate, 0.001)
	assert.InDelta(t, 0.5, sum.ImprovementTrend, 0.001)
	assert.Equal(t, "Saturday", sum.BestDay)
	assert.Equal(t, "in the evening", sum.BestTimeSlot)

	cmp := stats.ClassComparison
	assert.Equal(t, 4, cmp.ClassRank)
	assert.Equal(t, 20, cmp.TotalClassmates)
	assert.InDelta(t, 80.0, cmp.Percentile, 0.001)
	assert.InDelta(t, 7.5, cmp.StudentAvgScore, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryGetStatsUnknownStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, 6.0)
	start, end := statsWindow()

	mock.ExpectQuery("SELECT id, full_name, grade_id, class_id FROM kid_students").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetStats(context.Background(), 42, start, end)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryGetStatsWithoutClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, 6.0)
	start, end := statsWindow()

	expectStudentRow(mock, nil)
	expectSummaryRows(mock)

	stats, err := repo.GetStats(context.Background(), 42, start, end)
	require.NoError(t, err)

	cmp := stats.ClassComparison
	assert.Equal(t, 1, cmp.ClassRank)
	assert.Equal(t, 1, cmp.TotalClassmates)
	assert.InDelta(t, 7.5, cmp.ClassAverage, 0.001)
	assert.Zero(t, cmp.Percentile)
	assert.NoError(t, mock.ExpectationsWereMet())
}
