package book

import (
	"context"
	"fmt"
	"strings"

	"locallibrary/internal/catalog"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books with their display genre filled in.
func (s *Service) List(ctx context.Context, q Query) ([]catalog.Book, int, error) {
	q.Title = strings.TrimSpace(q.Title)
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	for i := range books {
		books[i].DisplayGenre = catalog.DisplayGenre(books[i])
	}
	return books, total, nil
}

// Get returns a book with its copies.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	b.DisplayGenre = catalog.DisplayGenre(b)

	instances, err := s.repo.ListInstances(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("instances of book %d: %w", id, err)
	}
	if instances == nil {
		instances = []catalog.BookInstance{}
	}
	return Detail{Book: b, Instances: instances}, nil
}

func (s *Service) Create(ctx context.Context, d Draft) (catalog.Book, error) {
	d = normalize(d)
	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return catalog.Book{}, err
	}
	return s.reload(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, d Draft) (catalog.Book, error) {
	d = normalize(d)
	if err := s.repo.Update(ctx, id, d); err != nil {
		return catalog.Book{}, err
	}
	return s.reload(ctx, id)
}

// Delete removes the book along with its copies and genre links.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) reload(ctx context.Context, id int64) (catalog.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return catalog.Book{}, err
	}
	b.DisplayGenre = catalog.DisplayGenre(b)
	return b, nil
}

func normalize(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Summary = strings.TrimSpace(d.Summary)
	d.ISBN = strings.NewReplacer("-", "", " ", "").Replace(d.ISBN)
	d.GenreIDs = dedupe(d.GenreIDs)
	return d
}
