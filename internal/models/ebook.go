package models

import "time"

// Ebook represents a book in the reading catalogue.
type Ebook struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Author     string    `db:"author" json:"author"`
	CategoryID int64     `db:"category_id" json:"category_id"`
	GradeID    int       `db:"grade_id" json:"grade_id"`
	CoverURL   string    `db:"cover_url" json:"cover_url"`
	ContentURL string    `db:"content_url" json:"content_url"`
	Pages      int       `db:"pages" json:"pages"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EbookDetail joins the catalogue row with its category name.
type EbookDetail struct {
	Ebook
	CategoryName string `db:"category_name" json:"category_name"`
}

// EbookFilter captures filtering criteria for listing e-books.
type EbookFilter struct {
	CategoryID *int64
	GradeID    *int
	Active     *bool
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
