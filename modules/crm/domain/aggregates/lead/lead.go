package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusWon, StatusLost:
		return true
	}
	return false
}

// Statuses lists the pipeline columns in board order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusWon, StatusLost}
}

// Fields is the flat attribute set used by both New and Hydrate. Optional
// attributes are pointers: nil means the value was never provided, which the
// persistence layer stores as NULL rather than a zero.
type Fields struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	CompanyName    string
	ContactName    string
	Email          *string
	Phone          *string
	Title          *string
	Website        *string
	Location       *string
	Source         *string
	Status         Status
	EstimatedValue *decimal.Decimal
	FleetSize      *int64
	NextFollowUp   *time.Time
	Metadata       map[string]string
	ImportSource   *string
	ImportBatchID  *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Lead struct {
	f Fields
}

func New(f Fields) Lead {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.ContactName = strings.TrimSpace(f.ContactName)
	if f.ContactName == "" {
		f.ContactName = f.CompanyName
	}
	if f.Status == "" {
		f.Status = StatusNew
	}
	return Lead{f: f}
}

func Hydrate(f Fields) Lead {
	return Lead{f: f}
}

func (l Lead) ID() uuid.UUID                    { return l.f.ID }
func (l Lead) TenantID() uuid.UUID              { return l.f.TenantID }
func (l Lead) CompanyName() string              { return l.f.CompanyName }
func (l Lead) ContactName() string              { return l.f.ContactName }
func (l Lead) Email() *string                   { return l.f.Email }
func (l Lead) Phone() *string                   { return l.f.Phone }
func (l Lead) Title() *string                   { return l.f.Title }
func (l Lead) Website() *string                 { return l.f.Website }
func (l Lead) Location() *string                { return l.f.Location }
func (l Lead) Source() *string                  { return l.f.Source }
func (l Lead) Status() Status                   { return l.f.Status }
func (l Lead) EstimatedValue() *decimal.Decimal { return l.f.EstimatedValue }
func (l Lead) FleetSize() *int64                { return l.f.FleetSize }
func (l Lead) NextFollowUp() *time.Time         { return l.f.NextFollowUp }
func (l Lead) Metadata() map[string]string      { return l.f.Metadata }
func (l Lead) ImportSource() *string            { return l.f.ImportSource }
func (l Lead) ImportBatchID() *uuid.UUID        { return l.f.ImportBatchID }
func (l Lead) CreatedAt() time.Time             { return l.f.CreatedAt }
func (l Lead) UpdatedAt() time.Time             { return l.f.UpdatedAt }

func (l Lead) WithStatus(s Status) Lead {
	l.f.Status = s
	return l
}

func (l Lead) Fields() Fields {
	return l.f
}
