package lead

import (
	"github.com/google/uuid"
)

type CreatedEvent struct {
	TenantID uuid.UUID
	Lead     Lead
}

type StatusChangedEvent struct {
	TenantID uuid.UUID
	LeadID   uuid.UUID
	From     Status
	To       Status
}

type DeletedEvent struct {
	TenantID uuid.UUID
	LeadID   uuid.UUID
}
