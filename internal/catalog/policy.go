package catalog

import (
	"strings"
	"time"
)

const displayGenreLimit = 3

// IsOverdue is true iff the instance is on loan, has a due date, and that
// date is strictly before today. Only calendar days are compared.
func IsOverdue(bi BookInstance, today time.Time) bool {
	if bi.Status != StatusOnLoan || bi.DueBack == nil {
		return false
	}
	return DateOf(*bi.DueBack).Before(DateOf(today))
}

// DisplayGenre joins the names of the book's first three genres.
func DisplayGenre(b Book) string {
	n := min(len(b.Genres), displayGenreLimit)
	names := make([]string, 0, n)
	for _, g := range b.Genres[:n] {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}
