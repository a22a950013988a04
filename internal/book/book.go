package book

import (
	"errors"

	"locallibrary/internal/catalog"
)

var (
	ErrNotFound      = errors.New("book not found")
	ErrDuplicateISBN = errors.New("isbn already catalogued")
	// ErrInvalidRef is returned when an author, genre or language id does
	// not exist.
	ErrInvalidRef = errors.New("referenced record does not exist")
)

// Query defines filters and pagination for listing books.
type Query struct {
	Title  string
	Limit  int
	Offset int
}

// Draft carries the editable fields of a book. GenreIDs keeps the order in
// which genres were given.
type Draft struct {
	Title      string
	AuthorID   *int64
	Summary    string
	ISBN       string
	GenreIDs   []int64
	LanguageID *int64
}

// Detail is a book together with its copies.
type Detail struct {
	catalog.Book
	Instances []catalog.BookInstance `json:"instances"`
}

// dedupe drops repeated genre ids, keeping the first occurrence.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
