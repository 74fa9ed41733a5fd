package models

import "time"

// FeedbackStatus tracks the resolution workflow of a feedback entry.
type FeedbackStatus string

const (
	FeedbackStatusOpen     FeedbackStatus = "open"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// Feedback represents a feedback entry submitted by a parent or teacher.
type Feedback struct {
	ID           int64          `db:"id" json:"id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	KidStudentID *int64         `db:"kid_student_id" json:"kid_student_id,omitempty"`
	Content      string         `db:"content" json:"content"`
	Rating       int            `db:"rating" json:"rating"`
	Status       FeedbackStatus `db:"status" json:"status"`
	ResolvedAt   *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// FeedbackFilter captures filtering criteria for listing feedback.
type FeedbackFilter struct {
	UserID       *int64
	KidStudentID *int64
	Status       *FeedbackStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
