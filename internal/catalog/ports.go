package catalog

import (
	"context"
	"errors"
)

var ErrDuplicate = errors.New("catalog record already exists")

// StatsQuery selects the words used by the two "contains" counters on the
// home page.
type StatsQuery struct {
	GenreWord string
	TitleWord string
}

// Stats are the counters shown on the home page.
type Stats struct {
	Books              int `json:"num_books"`
	Instances          int `json:"num_instances"`
	InstancesAvailable int `json:"num_instances_available"`
	Authors            int `json:"num_authors"`
	GenresWithWord     int `json:"genre_instances_of_word"`
	BooksWithWord      int `json:"book_instances_of_word"`
	Visits             int `json:"num_visits"`
}

// Repository covers catalog-wide counts and the genre/language vocabularies.
type Repository interface {
	Stats(ctx context.Context, q StatsQuery) (Stats, error)

	ListGenres(ctx context.Context) ([]Genre, error)
	CreateGenre(ctx context.Context, g *Genre) error
	DeleteGenre(ctx context.Context, id int64) error

	ListLanguages(ctx context.Context) ([]Language, error)
	CreateLanguage(ctx context.Context, l *Language) error
	DeleteLanguage(ctx context.Context, id int64) error
}
