package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLeadCreated   Kind = "lead_created"
	KindStatusChanged Kind = "status_changed"
	KindLeadDeleted   Kind = "lead_deleted"
)

// Activity is one row of the crm_events feed shown on the lead timeline.
type Activity struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	LeadID    uuid.UUID
	Kind      Kind
	Detail    string
	CreatedAt time.Time
}

type FindParams struct {
	LeadID uuid.UUID
	Limit  int
	Offset int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Activity, error)
	Create(ctx context.Context, a Activity) error
}
