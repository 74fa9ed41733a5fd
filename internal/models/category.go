package models

import "time"

// Category groups e-books by reading theme and grade range.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	MinGrade    int       `db:"min_grade" json:"min_grade"`
	MaxGrade    int       `db:"max_grade" json:"max_grade"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryFilter captures filtering criteria for listing categories.
type CategoryFilter struct {
	GradeID   *int
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
