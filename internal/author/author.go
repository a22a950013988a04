package author

import (
	"errors"

	"locallibrary/internal/catalog"
)

var (
	ErrNotFound         = errors.New("author not found")
	ErrDeathBeforeBirth = errors.New("date of death is before date of birth")
)

// Query defines pagination for listing authors.
type Query struct {
	Limit  int
	Offset int
}

// Detail is an author together with the books they wrote.
type Detail struct {
	catalog.Author
	Books []catalog.Book `json:"books"`
}

// ValidateLifespan rejects a date of death earlier than the date of birth.
func ValidateLifespan(a catalog.Author) error {
	if a.DateOfBirth == nil || a.DateOfDeath == nil {
		return nil
	}
	if catalog.DateOf(*a.DateOfDeath).Before(catalog.DateOf(*a.DateOfBirth)) {
		return ErrDeathBeforeBirth
	}
	return nil
}
