package httpx

import (
	"math"
	"net/http"
	"strconv"
)

const (
	maxPageSize = 100
	// maxOffset keeps Offset within int32 so it survives the uint and int8
	// conversions on the way to the database.
	maxOffset = math.MaxInt32
)

// Page is a 1-based page request parsed from ?page=&page_size=.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads pagination parameters, falling back to defaultSize when
// page_size is missing or out of range.
func ParsePage(r *http.Request, defaultSize int) Page {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultSize
	}
	if lastPage := maxOffset/pageSize + 1; page > lastPage {
		page = lastPage
	}
	return Page{Number: page, Size: pageSize}
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Meta builds the pagination block of a list response.
func (p Page) Meta(total int) map[string]any {
	return map[string]any{
		"page":        p.Number,
		"page_size":   p.Size,
		"total":       total,
		"total_pages": (total + p.Size - 1) / p.Size,
	}
}
