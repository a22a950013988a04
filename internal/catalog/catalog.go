// Package catalog holds the library's data model and the pure policy
// functions that read it.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("catalog record not found")

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Author struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// String renders "Last, First", the form used in listings.
func (a Author) String() string {
	return a.LastName + ", " + a.FirstName
}

type Book struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	AuthorID     *int64    `json:"author_id,omitempty"`
	Author       *Author   `json:"author,omitempty"`
	Summary      string    `json:"summary"`
	ISBN         string    `json:"isbn"`
	Genres       []Genre   `json:"genres"`
	DisplayGenre string    `json:"display_genre"`
	LanguageID   *int64    `json:"language_id,omitempty"`
	Language     *Language `json:"language,omitempty"`
}

// Status is the loan status of a BookInstance, stored as a one-letter code.
type Status string

const (
	StatusMaintenance Status = "m"
	StatusOnLoan      Status = "o"
	StatusAvailable   Status = "a"
	StatusReserved    Status = "r"
)

// DefaultStatus is assigned to newly acquired stock.
const DefaultStatus = StatusMaintenance

var statusLabels = map[Status]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

// BookInstance is one lendable copy of a Book.
type BookInstance struct {
	ID         uuid.UUID  `json:"id"`
	BookID     int64      `json:"book_id"`
	Book       *Book      `json:"book,omitempty"`
	Imprint    string     `json:"imprint"`
	DueBack    *time.Time `json:"due_back,omitempty"`
	Status     Status     `json:"status"`
	BorrowerID *string    `json:"borrower_id,omitempty"`
}

// IsOverdue reports whether the instance is on loan past its due date.
func (bi BookInstance) IsOverdue(today time.Time) bool {
	return IsOverdue(bi, today)
}
