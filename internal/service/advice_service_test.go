package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type mockStatsProvider struct {
	stats *models.StudentStats
	err   error
	calls int
}

func (m *mockStatsProvider) GetStats(ctx context.Context, studentID int64, start, end time.Time) (*models.StudentStats, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

func testStats() *models.StudentStats {
	return &models.StudentStats{
		StudentName: "Mia",
		GradeID:     3,
		LearningSummary: models.LearningSummary{
			TotalReadings:     12,
			CompletedReadings: 10,
			PassedReadings:    9,
			AverageScore:      7.4,
			AverageStars:      4.1,
			CompletionRate:    83.3,
			PassRate:          75.0,
			TotalStudyTime:    6.5,
			ImprovementTrend:  0.6,
			BestDay:           "Saturday",
			BestTimeSlot:      "evening",
		},
		ClassComparison: models.ClassComparison{
			ClassAverage:    6.8,
			ClassRank:       4,
			TotalClassmates: 21,
			Percentile:      80.9,
			StudentAvgScore: 7.4,
		},
	}
}

func newAdviceServiceForTest(provider *mockStatsProvider) *AdviceService {
	svc := NewAdviceService(provider, nil, 0, nil, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAdviceServiceReport(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	result, err := svc.Report(context.Background(), 42, report.Week(0))
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.KidStudentID)
	assert.Equal(t, "Mia", result.StudentName)
	assert.Equal(t, "week", result.Period)
	assert.Equal(t, "2024-05-13", result.StartDate)
	assert.Equal(t, "2024-05-19", result.EndDate)
	assert.Contains(t, result.Advice, "Hi Mia!")
	assert.Equal(t, provider.stats.LearningSummary, result.LearningSummary)
	assert.Equal(t, provider.stats.ClassComparison, result.ClassComparison)
	assert.False(t, result.GeneratedAt.IsZero())
	assert.Equal(t, 1, provider.calls)
}

func TestAdviceServiceReportInvalidPeriodSkipsStats(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	cases := []struct {
		name    string
		period  report.Period
		message string
	}{
		{"missing start", report.Custom("", "2024-05-10"), "missing date"},
		{"bad format", report.Custom("10-05-2024", "2024-05-20"), "invalid date format"},
		{"inverted range", report.Custom("2024-05-20", "2024-05-10"), "start not before end"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Report(context.Background(), 42, tc.period)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
	assert.Zero(t, provider.calls, "stats must not be fetched for invalid periods")
}

func TestAdviceServiceReportHistoryNotImplemented(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	_, err := svc.Report(context.Background(), 42, report.Period{Kind: report.KindHistory})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotImplemented, appErr.Status)
	assert.Zero(t, provider.calls)
}

func TestAdviceServiceReportStudentNotFound(t *testing.T) {
	provider := &mockStatsProvider{err: sql.ErrNoRows}
	svc := newAdviceServiceForTest(provider)

	_, err := svc.Report(context.Background(), 9999, report.Month(0))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "student not found", appErr.Message)
}

func TestAdviceServiceShortReport(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	result, err := svc.ShortReport(context.Background(), 42, report.Week(0))
	require.NoError(t, err)
	assert.Equal(t, "week", result.Period)
	assert.Contains(t, result.Advice, "improved by 0.6 points")
	assert.Equal(t, models.ShortAdviceStats{
		TotalReadings:    12,
		AverageScore:     7.4,
		CompletionRate:   83.3,
		ImprovementTrend: 0.6,
	}, result.Stats)
}

func TestAdviceServiceShortReportHistoryNotImplemented(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	_, err := svc.ShortReport(context.Background(), 42, report.Period{Kind: report.KindHistory})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotImplemented, appErr.Status)
	assert.Zero(t, provider.calls)
}

func TestAdviceServiceShortReportRejectsCustomPeriod(t *testing.T) {
	provider := &mockStatsProvider{stats: testStats()}
	svc := newAdviceServiceForTest(provider)

	_, err := svc.ShortReport(context.Background(), 42, report.Custom("2024-05-01", "2024-05-10"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Zero(t, provider.calls)
}
