package models

import "time"

// KidStudent represents a child reader profile attached to a parent account.
type KidStudent struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	FullName  string     `db:"full_name" json:"full_name"`
	GradeID   int        `db:"grade_id" json:"grade_id"`
	ClassID   *int64     `db:"class_id" json:"class_id,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// KidStudentFilter captures filtering criteria for listing kid students.
type KidStudentFilter struct {
	UserID    *int64
	GradeID   *int
	ClassID   *int64
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
