package contact

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = gerrors.New("contact not found")

type FindParams struct {
	Q      string
	Status Status
	// LapsedSince keeps only contacts whose last rental is on or before the
	// given date.
	LapsedSince *time.Time
	// MinSpend and MinRentals keep only contacts at or above the given
	// lifetime totals.
	MinSpend   *decimal.Decimal
	MinRentals *int64
	Limit      int
	Offset     int
}

// MonthBucket is one bar of the lapse histogram: how many contacts last
// rented in a given month.
type MonthBucket struct {
	Month    string `json:"month"`
	Contacts int64  `json:"contacts"`
}

// Summary is the dashboard headline for the reactivation pool.
type Summary struct {
	Total         int64           `json:"total"`
	WithEmail     int64           `json:"with_email"`
	WithPhone     int64           `json:"with_phone"`
	OptedOut      int64           `json:"opted_out"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"`
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Contact, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	Create(ctx context.Context, c Contact) (Contact, error)
	Update(ctx context.Context, c Contact) (Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	// ExistsByEmailOrPhone reports whether any contact in the tenant already
	// carries the given email or the given phone. Nil arguments are not
	// matched: a contact with no email never collides on email.
	ExistsByEmailOrPhone(ctx context.Context, email, phone *string) (bool, error)
	// InsertBatch persists one import chunk and returns generated ids in
	// row order.
	InsertBatch(ctx context.Context, contacts []Contact) ([]uuid.UUID, error)

	MonthlyLapse(ctx context.Context, months int) ([]MonthBucket, error)
	Summarize(ctx context.Context) (Summary, error)
}
