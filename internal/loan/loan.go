// Package loan implements the book instance views: the borrowed lists, the
// operator listing and the renewal workflow.
package loan

import (
	"errors"
	"time"

	"locallibrary/internal/catalog"
)

var (
	ErrNotFound        = errors.New("book instance not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("missing capability to manage loans")
	ErrInvalidRef      = errors.New("referenced book or borrower does not exist")
	ErrInvalidStatus   = errors.New("invalid loan status")
)

// BorrowedPath is where a successful renewal sends the caller.
const BorrowedPath = "/v1/bookinstances/borrowed"

// Query filters and pages book instances. Nil fields are not filtered on.
type Query struct {
	BookID     *int64
	Status     *catalog.Status
	DueBack    *time.Time
	BorrowerID *string
	Limit      int
	Offset     int
}

// Loan is a book instance as presented in listings.
type Loan struct {
	catalog.BookInstance
	StatusLabel string `json:"status_label"`
	IsOverdue   bool   `json:"is_overdue"`
}

func present(bi catalog.BookInstance, today time.Time) Loan {
	return Loan{
		BookInstance: bi,
		StatusLabel:  bi.Status.Label(),
		IsOverdue:    catalog.IsOverdue(bi, today),
	}
}
