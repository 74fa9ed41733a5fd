package models

import "time"

// ReadingStatus tracks progress of a reading session.
type ReadingStatus string

const (
	ReadingStatusInProgress ReadingStatus = "in_progress"
	ReadingStatusCompleted  ReadingStatus = "completed"
)

// KidReading records one reading session of a kid student.
type KidReading struct {
	ID              int64         `db:"id" json:"id"`
	KidStudentID    int64         `db:"kid_student_id" json:"kid_student_id"`
	EbookID         int64         `db:"ebook_id" json:"ebook_id"`
	Status          ReadingStatus `db:"status" json:"status"`
	Score           *float64      `db:"score" json:"score,omitempty"`
	Stars           *float64      `db:"stars" json:"stars,omitempty"`
	DurationMinutes int           `db:"duration_minutes" json:"duration_minutes"`
	ReadDate        time.Time     `db:"read_date" json:"read_date"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// KidReadingDetail joins a reading with its e-book title.
type KidReadingDetail struct {
	KidReading
	EbookTitle string `db:"ebook_title" json:"ebook_title"`
}

// ReadingFilter captures filtering criteria for listing readings.
type ReadingFilter struct {
	KidStudentID *int64
	EbookID      *int64
	Status       *ReadingStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
