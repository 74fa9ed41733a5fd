package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

// StatsProvider supplies aggregated reading statistics for one student
// within an inclusive date window.
type StatsProvider interface {
	GetStats(ctx context.Context, studentID int64, start, end time.Time) (*models.StudentStats, error)
}

// AdviceService generates narrative and short-form reading reports.
type AdviceService struct {
	stats    StatsProvider
	cache    *CacheService
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdviceService constructs the advice service.
func NewAdviceService(stats StatsProvider, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *AdviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceService{stats: stats, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger, now: time.Now}
}

// Report builds the long-form advice report for a student over the given period.
// The period is resolved and validated before any statistics are fetched.
func (s *AdviceService) Report(ctx context.Context, studentID int64, p report.Period) (*models.AdviceReport, error) {
	start, end, err := report.Resolve(s.now(), p)
	if err != nil {
		return nil, err
	}

	key := s.reportCacheKey("advice", studentID, p.Kind, start, end)
	var cached models.AdviceReport
	if s.cache != nil {
		if hit, cerr := s.cache.Get(ctx, key, &cached); cerr == nil && hit {
			return &cached, nil
		}
	}

	stats, err := s.fetchStats(ctx, studentID, start, end)
	if err != nil {
		return nil, err
	}

	advice, err := report.RenderAdvice(stats.StudentName, p.Kind, stats.LearningSummary, stats.ClassComparison)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render advice")
	}

	result := &models.AdviceReport{
		KidStudentID:    studentID,
		StudentName:     stats.StudentName,
		GradeID:         stats.GradeID,
		Period:          string(p.Kind),
		StartDate:       start.Format(report.DateLayout),
		EndDate:         end.Format(report.DateLayout),
		Advice:          advice,
		LearningSummary: stats.LearningSummary,
		ClassComparison: stats.ClassComparison,
		GeneratedAt:     s.now().UTC(),
	}
	s.metrics.ObserveReportGenerated(string(p.Kind))

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, key, result, s.cacheTTL); cerr != nil {
			s.logger.Warn("failed to cache advice report", zap.Int64("student_id", studentID), zap.Error(cerr))
		}
	}
	return result, nil
}

// ShortReport builds the one-line advice with its stats payload. Only the
// rolling week, month and year periods are supported.
func (s *AdviceService) ShortReport(ctx context.Context, studentID int64, p report.Period) (*models.ShortAdvice, error) {
	switch p.Kind {
	case report.KindWeek, report.KindMonth, report.KindYear:
	case report.KindHistory:
		_, _, err := report.Resolve(s.now(), p)
		return nil, err
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "short advice supports week, month and year periods only")
	}

	start, end, err := report.Resolve(s.now(), p)
	if err != nil {
		return nil, err
	}

	key := s.reportCacheKey("short", studentID, p.Kind, start, end)
	var cached models.ShortAdvice
	if s.cache != nil {
		if hit, cerr := s.cache.Get(ctx, key, &cached); cerr == nil && hit {
			return &cached, nil
		}
	}

	stats, err := s.fetchStats(ctx, studentID, start, end)
	if err != nil {
		return nil, err
	}

	advice, payload := report.RenderShortAdvice(stats.LearningSummary)
	result := &models.ShortAdvice{
		KidStudentID: studentID,
		StudentName:  stats.StudentName,
		Period:       string(p.Kind),
		StartDate:    start.Format(report.DateLayout),
		EndDate:      end.Format(report.DateLayout),
		Advice:       advice,
		Stats:        payload,
		GeneratedAt:  s.now().UTC(),
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, key, result, s.cacheTTL); cerr != nil {
			s.logger.Warn("failed to cache short advice", zap.Int64("student_id", studentID), zap.Error(cerr))
		}
	}
	return result, nil
}

func (s *AdviceService) fetchStats(ctx context.Context, studentID int64, start, end time.Time) (*models.StudentStats, error) {
	stats, err := s.stats.GetStats(ctx, studentID, start, end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student statistics")
	}
	return stats, nil
}

func (s *AdviceService) reportCacheKey(prefix string, studentID int64, kind report.Kind, start, end time.Time) string {
	return fmt.Sprintf("reports:%s:%d:%s:%s:%s", prefix, studentID, kind, start.Format(report.DateLayout), end.Format(report.DateLayout))
}
