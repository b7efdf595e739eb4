package viewmodels

import (
	"time"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
)

// Page is the envelope for every paginated list endpoint.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type Lead struct {
	ID             string            `json:"id"`
	CompanyName    string            `json:"company_name"`
	ContactName    string            `json:"contact_name"`
	Email          *string           `json:"email"`
	Phone          *string           `json:"phone"`
	Title          *string           `json:"title"`
	Website        *string           `json:"website"`
	Location       *string           `json:"location"`
	Source         *string           `json:"source"`
	Status         string            `json:"status"`
	EstimatedValue *string           `json:"estimated_value"`
	FleetSize      *int64            `json:"fleet_size"`
	NextFollowUp   *string           `json:"next_follow_up"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	ImportSource   *string           `json:"import_source,omitempty"`
	ImportBatchID  *string           `json:"import_batch_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func LeadFromDomain(l lead.Lead) Lead {
	vm := Lead{
		ID:           l.ID().String(),
		CompanyName:  l.CompanyName(),
		ContactName:  l.ContactName(),
		Email:        l.Email(),
		Phone:        l.Phone(),
		Title:        l.Title(),
		Website:      l.Website(),
		Location:     l.Location(),
		Source:       l.Source(),
		Status:       string(l.Status()),
		FleetSize:    l.FleetSize(),
		Metadata:     l.Metadata(),
		ImportSource: l.ImportSource(),
		CreatedAt:    l.CreatedAt(),
		UpdatedAt:    l.UpdatedAt(),
	}
	if v := l.EstimatedValue(); v != nil {
		s := v.StringFixed(2)
		vm.EstimatedValue = &s
	}
	if d := l.NextFollowUp(); d != nil {
		s := d.Format("2006-01-02")
		vm.NextFollowUp = &s
	}
	if id := l.ImportBatchID(); id != nil {
		s := id.String()
		vm.ImportBatchID = &s
	}
	return vm
}

type Note struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NoteFromDomain(n note.Note) Note {
	return Note{
		ID:        n.ID.String(),
		LeadID:    n.LeadID.String(),
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}

type Activity struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func ActivityFromDomain(a activity.Activity) Activity {
	return Activity{
		ID:        a.ID.String(),
		LeadID:    a.LeadID.String(),
		Kind:      string(a.Kind),
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}
