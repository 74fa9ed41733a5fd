package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kidsread/kidsread-api/internal/models"
)

// StatsRepository aggregates reading statistics for advice reports.
type StatsRepository struct {
	db           *sqlx.DB
	passingScore float64
}

// NewStatsRepository constructs a StatsRepository. passingScore is the
// minimum score counted as a passed reading.
func NewStatsRepository(db *sqlx.DB, passingScore float64) *StatsRepository {
	if passingScore <= 0 {
		passingScore = 6.0
	}
	return &StatsRepository{db: db, passingScore: passingScore}
}

type statsStudentRow struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
	GradeID  int    `db:"grade_id"`
	ClassID  *int64 `db:"class_id"`
}

type summaryRow struct {
	TotalReadings     int     `db:"total_readings"`
	CompletedReadings int     `db:"completed_readings"`
	PassedReadings    int     `db:"passed_readings"`
	AverageScore      float64 `db:"average_score"`
	AverageStars      float64 `db:"average_stars"`
	TotalStudyTime    float64 `db:"total_study_time"`
}

type comparisonRow struct {
	ClassAverage    float64 `db:"class_average"`
	TotalClassmates int     `db:"total_classmates"`
	ClassRank       int     `db:"class_rank"`
}

// GetStats returns the learning summary and class comparison for a kid
// student over the inclusive [start, end] date range. It fails with
// sql.ErrNoRows when the student is unknown.
func (r *StatsRepository) GetStats(ctx context.Context, studentID int64, start, end time.Time) (*models.StudentStats, error) {
	const studentQuery = `SELECT id, full_name, grade_id, class_id FROM kid_students WHERE id = $1 AND active LIMIT 1`
	var student statsStudentRow
	if err := r.db.GetContext(ctx, &student, studentQuery, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find kid student: %w", err)
	}

	summary, err := r.learningSummary(ctx, studentID, start, end)
	if err != nil {
		return nil, err
	}

	comparison, err := r.classComparison(ctx, student, summary.AverageScore, start, end)
	if err != nil {
		return nil, err
	}

	return &models.StudentStats{
		StudentName:     student.FullName,
		GradeID:         student.GradeID,
		LearningSummary: *summary,
		ClassComparison: *comparison,
	}, nil
}

func (r *StatsRepository) learningSummary(ctx context.Context, studentID int64, start, end time.Time) (*models.LearningSummary, error) {
	const query = `SELECT
        COUNT(*) AS total_readings,
        COUNT(*) FILTER (WHERE status = 'completed') AS completed_readings,
        COUNT(*) FILTER (WHERE status = 'completed' AND score >= $4) AS passed_readings,
        COALESCE(AVG(score), 0) AS average_score,
        COALESCE(AVG(stars), 0) AS average_stars,
        COALESCE(SUM(duration_minutes), 0) / 60.0 AS total_study_time
        FROM kid_readings
        WHERE kid_student_id = $1 AND read_date >= $2 AND read_date <= $3`
	var row summaryRow
	if err := r.db.GetContext(ctx, &row, query, studentID, start, end, r.passingScore); err != nil {
		return nil, fmt.Errorf("aggregate readings: %w", err)
	}

	summary := &models.LearningSummary{
		TotalReadings:     row.TotalReadings,
		CompletedReadings: row.CompletedReadings,
		PassedReadings:    row.PassedReadings,
		AverageScore:      row.AverageScore,
		AverageStars:      row.AverageStars,
		TotalStudyTime:    row.TotalStudyTime,
	}
	if row.TotalReadings > 0 {
		summary.CompletionRate = float64(row.CompletedReadings) / float64(row.TotalReadings) * 100
	}
	if row.CompletedReadings > 0 {
		summary.PassRate = float64(row.PassedReadings) / float64(row.CompletedReadings) * 100
	}

	trend, err := r.improvementTrend(ctx, studentID, start, end, row.AverageScore)
	if err != nil {
		return nil, err
	}
	summary.ImprovementTrend = trend

	bestDay, err := r.topLabel(ctx, studentID, start, end,
		`SELECT TRIM(TO_CHAR(read_date, 'Day')) AS label FROM kid_readings
         WHERE kid_student_id = $1 AND read_date >= $2 AND read_date <= $3
         GROUP BY 1 ORDER BY COUNT(*) DESC, 1 LIMIT 1`)
	if err != nil {
		return nil, err
	}
	summary.BestDay = bestDay

	bestSlot, err := r.topLabel(ctx, studentID, start, end,
		`SELECT CASE
            WHEN EXTRACT(HOUR FROM created_at) < 12 THEN 'in the morning'
            WHEN EXTRACT(HOUR FROM created_at) < 18 THEN 'in the afternoon'
            ELSE 'in the evening'
         END AS label FROM kid_readings
         WHERE kid_student_id = $1 AND read_date >= $2 AND read_date <= $3
         GROUP BY 1 ORDER BY COUNT(*) DESC, 1 LIMIT 1`)
	if err != nil {
		return nil, err
	}
	summary.BestTimeSlot = bestSlot

	return summary, nil
}

// improvementTrend compares the period average with the immediately preceding
// period of the same length. Without any scored prior reading the trend is 0.
func (r *StatsRepository) improvementTrend(ctx context.Context, studentID int64, start, end time.Time, currentAvg float64) (float64, error) {
	span := end.Sub(start) + 24*time.Hour
	prevStart := start.Add(-span)
	prevEnd := start.AddDate(0, 0, -1)

	const query = `SELECT AVG(score) FROM kid_readings
        WHERE kid_student_id = $1 AND read_date >= $2 AND read_date <= $3 AND score IS NOT NULL`
	var prevAvg sql.NullFloat64
	if err := r.db.GetContext(ctx, &prevAvg, query, studentID, prevStart, prevEnd); err != nil {
		return 0, fmt.Errorf("aggregate prior period: %w", err)
	}
	if !prevAvg.Valid {
		return 0, nil
	}
	return currentAvg - prevAvg.Float64, nil
}

func (r *StatsRepository) topLabel(ctx context.Context, studentID int64, start, end time.Time, query string) (string, error) {
	var label string
	if err := r.db.GetContext(ctx, &label, query, studentID, start, end); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("top label: %w", err)
	}
	return label, nil
}

func (r *StatsRepository) classComparison(ctx context.Context, student statsStudentRow, studentAvg float64, start, end time.Time) (*models.ClassComparison, error) {
	if student.ClassID == nil {
		return &models.ClassComparison{
			ClassAverage:    studentAvg,
			ClassRank:       1,
			TotalClassmates: 1,
			Percentile:      0,
			StudentAvgScore: studentAvg,
		}, nil
	}

	const query = `WITH class_scores AS (
            SELECT ks.id, AVG(kr.score) AS avg_score
            FROM kid_students ks
            JOIN kid_readings kr ON kr.kid_student_id = ks.id
                AND kr.read_date >= $2 AND kr.read_date <= $3 AND kr.score IS NOT NULL
            WHERE ks.class_id = $4 AND ks.active
            GROUP BY ks.id
        )
        SELECT
            COALESCE(AVG(avg_score), 0) AS class_average,
            GREATEST(COUNT(*), 1) AS total_classmates,
            COALESCE((SELECT COUNT(*) + 1 FROM class_scores better
                WHERE better.avg_score > (SELECT own.avg_score FROM class_scores own WHERE own.id = $1)), 1) AS class_rank
        FROM class_scores`
	var row comparisonRow
	if err := r.db.GetContext(ctx, &row, query, student.ID, start, end, *student.ClassID); err != nil {
		return nil, fmt.Errorf("aggregate class comparison: %w", err)
	}

	comparison := &models.ClassComparison{
		ClassAverage:    row.ClassAverage,
		ClassRank:       row.ClassRank,
		TotalClassmates: row.TotalClassmates,
		StudentAvgScore: studentAvg,
	}
	if row.TotalClassmates > 0 {
		comparison.Percentile = float64(row.TotalClassmates-row.ClassRank) / float64(row.TotalClassmates) * 100
	}
	return comparison, nil
}
