package author

import (
	"context"
	"fmt"
	"strings"

	"locallibrary/internal/catalog"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]catalog.Author, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns an author with their books.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	books, err := s.repo.ListBooks(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("books of author %d: %w", id, err)
	}
	for i := range books {
		books[i].DisplayGenre = catalog.DisplayGenre(books[i])
	}
	if books == nil {
		books = []catalog.Book{}
	}
	return Detail{Author: a, Books: books}, nil
}

func (s *Service) Create(ctx context.Context, a catalog.Author) (catalog.Author, error) {
	normalize(&a)
	if err := ValidateLifespan(a); err != nil {
		return catalog.Author{}, err
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return catalog.Author{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, a catalog.Author) (catalog.Author, error) {
	normalize(&a)
	if err := ValidateLifespan(a); err != nil {
		return catalog.Author{}, err
	}
	if err := s.repo.Update(ctx, &a); err != nil {
		return catalog.Author{}, err
	}
	return a, nil
}

// Delete removes the author; their books stay and lose the reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func normalize(a *catalog.Author) {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	if a.DateOfBirth != nil {
		d := catalog.DateOf(*a.DateOfBirth)
		a.DateOfBirth = &d
	}
	if a.DateOfDeath != nil {
		d := catalog.DateOf(*a.DateOfDeath)
		a.DateOfDeath = &d
	}
}
