package loan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"locallibrary/internal/catalog"
)

// Repository defines the contract for book instance storage.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (catalog.BookInstance, error)
	List(ctx context.Context, q Query) ([]catalog.BookInstance, int, error)
	// UpdateDueBack changes due_back and nothing else.
	UpdateDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) error
	Create(ctx context.Context, bi *catalog.BookInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OutcomeRecorder counts renewal attempts by outcome.
type OutcomeRecorder interface {
	RenewalOutcome(outcome string)
}
