package book

import (
	"context"

	"locallibrary/internal/catalog"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]catalog.Book, int, error)
	GetByID(ctx context.Context, id int64) (catalog.Book, error)
	ListInstances(ctx context.Context, bookID int64) ([]catalog.BookInstance, error)
	Create(ctx context.Context, d Draft) (int64, error)
	Update(ctx context.Context, id int64, d Draft) error
	Delete(ctx context.Context, id int64) error
}
