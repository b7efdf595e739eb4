package note

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	LeadID    uuid.UUID
	Body      string
	CreatedAt time.Time
}

func New(tenantID, leadID uuid.UUID, body string) Note {
	return Note{
		TenantID: tenantID,
		LeadID:   leadID,
		Body:     strings.TrimSpace(body),
	}
}

type Repository interface {
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Note, error)
	Create(ctx context.Context, n Note) (Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// InsertBatch persists one chunk of import-linked notes.
	InsertBatch(ctx context.Context, notes []Note) error
}
