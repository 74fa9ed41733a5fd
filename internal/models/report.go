package models

import "time"

// LearningSummary aggregates a kid student's reading activity within a period.
type LearningSummary struct {
	TotalReadings     int     `db:"total_readings" json:"total_readings"`
	CompletedReadings int     `db:"completed_readings" json:"completed_readings"`
	PassedReadings    int     `db:"passed_readings" json:"passed_readings"`
	AverageScore      float64 `db:"average_score" json:"average_score"`
	AverageStars      float64 `db:"average_stars" json:"average_stars"`
	CompletionRate    float64 `db:"completion_rate" json:"completion_rate"`
	PassRate          float64 `db:"pass_rate" json:"pass_rate"`
	TotalStudyTime    float64 `db:"total_study_time" json:"total_study_time"`
	ImprovementTrend  float64 `db:"improvement_trend" json:"improvement_trend"`
	BestDay           string  `db:"best_day" json:"best_day"`
	BestTimeSlot      string  `db:"best_time_slot" json:"best_time_slot"`
}

// ClassComparison captures a student's standing relative to classmates.
type ClassComparison struct {
	ClassAverage    float64 `db:"class_average" json:"classAverage"`
	ClassRank       int     `db:"class_rank" json:"classRank"`
	TotalClassmates int     `db:"total_classmates" json:"totalClassmates"`
	Percentile      float64 `db:"percentile" json:"percentile"`
	StudentAvgScore float64 `db:"student_avg_score" json:"studentAvgScore"`
}

// StudentStats bundles the aggregates returned by the stats provider.
type StudentStats struct {
	StudentName     string          `json:"student_name"`
	GradeID         int             `json:"grade_id"`
	LearningSummary LearningSummary `json:"learning_summary"`
	ClassComparison ClassComparison `json:"class_comparison"`
}

// AdviceReport is the combined narrative and structured report payload.
type AdviceReport struct {
	KidStudentID    int64           `json:"kid_student_id"`
	StudentName     string          `json:"student_name"`
	GradeID         int             `json:"grade_id"`
	Period          string          `json:"period"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Advice          string          `json:"advice"`
	LearningSummary LearningSummary `json:"learning_summary"`
	ClassComparison ClassComparison `json:"class_comparison"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// ShortAdviceStats is the compact numeric side-payload of the short advice.
type ShortAdviceStats struct {
	TotalReadings    int     `json:"totalReadings"`
	AverageScore     float64 `json:"averageScore"`
	CompletionRate   float64 `json:"completionRate"`
	ImprovementTrend float64 `json:"improvementTrend"`
}

// ShortAdvice pairs the one-line advisory with its stats payload.
type ShortAdvice struct {
	KidStudentID int64            `json:"kid_student_id"`
	StudentName  string           `json:"student_name"`
	Period       string           `json:"period"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	Advice       string           `json:"advice"`
	Stats        ShortAdviceStats `json:"stats"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
