package lead

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("lead not found")

type FindParams struct {
	Q      string
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Lead, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	Create(ctx context.Context, l Lead) (Lead, error)
	Update(ctx context.Context, l Lead) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Count uses an exact count independent of any page window, for the
	// dashboard stat cards.
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// InsertBatch persists one import chunk and returns generated ids in
	// row order.
	InsertBatch(ctx context.Context, leads []Lead) ([]uuid.UUID, error)
}
