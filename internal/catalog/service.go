package catalog

import (
	"context"
	"strings"
)

// Home page counters look for these words unless configured otherwise.
const (
	DefaultGenreWord = "religion"
	DefaultTitleWord = "open"
)

type Service struct {
	repo  Repository
	words StatsQuery
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		words: StatsQuery{GenreWord: DefaultGenreWord, TitleWord: DefaultTitleWord},
	}
}

// WithStatsWords overrides the words counted on the home page.
func (s *Service) WithStatsWords(genreWord, titleWord string) *Service {
	s.words = StatsQuery{GenreWord: genreWord, TitleWord: titleWord}
	return s
}

// Stats returns the home page counters; visits is passed through from the
// caller's session.
func (s *Service) Stats(ctx context.Context, visits int) (Stats, error) {
	stats, err := s.repo.Stats(ctx, s.words)
	if err != nil {
		return Stats{}, err
	}
	stats.Visits = visits
	return stats, nil
}

func (s *Service) ListGenres(ctx context.Context) ([]Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *Service) CreateGenre(ctx context.Context, name string) (Genre, error) {
	g := Genre{Name: strings.TrimSpace(name)}
	if err := s.repo.CreateGenre(ctx, &g); err != nil {
		return Genre{}, err
	}
	return g, nil
}

func (s *Service) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}

func (s *Service) ListLanguages(ctx context.Context) ([]Language, error) {
	return s.repo.ListLanguages(ctx)
}

func (s *Service) CreateLanguage(ctx context.Context, name string) (Language, error) {
	l := Language{Name: strings.TrimSpace(name)}
	if err := s.repo.CreateLanguage(ctx, &l); err != nil {
		return Language{}, err
	}
	return l, nil
}

func (s *Service) DeleteLanguage(ctx context.Context, id int64) error {
	return s.repo.DeleteLanguage(ctx, id)
}
