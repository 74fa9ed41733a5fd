package models

import (
	"time"

	"github.com/lib/pq"
)

// Question represents a multiple-choice quiz question attached to an e-book.
type Question struct {
	ID            int64          `db:"id" json:"id"`
	EbookID       int64          `db:"ebook_id" json:"ebook_id"`
	QuestionText  string         `db:"question_text" json:"question_text"`
	Options       pq.StringArray `db:"options" json:"options"`
	CorrectOption int            `db:"correct_option" json:"correct_option"`
	Active        bool           `db:"active" json:"active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// QuestionFilter captures filtering criteria for listing questions.
type QuestionFilter struct {
	EbookID  *int64
	Active   *bool
	Page     int
	PageSize int
}
