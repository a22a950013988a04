package author

import (
	"context"

	"locallibrary/internal/catalog"
)

// Repository defines the contract for author storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]catalog.Author, int, error)
	GetByID(ctx context.Context, id int64) (catalog.Author, error)
	ListBooks(ctx context.Context, authorID int64) ([]catalog.Book, error)
	Create(ctx context.Context, a *catalog.Author) error
	Update(ctx context.Context, a *catalog.Author) error
	Delete(ctx context.Context, id int64) error
}
