package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status tracks where a past renter sits in the reactivation funnel.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusResponded Status = "responded"
	StatusBooked    Status = "booked"
	StatusOptedOut  Status = "opted_out"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusResponded, StatusBooked, StatusOptedOut:
		return true
	}
	return false
}

func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusResponded, StatusBooked, StatusOptedOut}
}

type Fields struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	FullName       string
	Email          *string
	Phone          *string
	Company        *string
	Location       *string
	Status         Status
	LastRentalDate *time.Time
	TotalRentals   *int64
	LifetimeValue  *decimal.Decimal
	Metadata       map[string]string
	ImportSource   *string
	ImportBatchID  *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Contact struct {
	f Fields
}

func New(f Fields) Contact {
	f.FullName = strings.TrimSpace(f.FullName)
	if f.Status == "" {
		f.Status = StatusNew
	}
	return Contact{f: f}
}

func Hydrate(f Fields) Contact {
	return Contact{f: f}
}

func (c Contact) ID() uuid.UUID                   { return c.f.ID }
func (c Contact) TenantID() uuid.UUID             { return c.f.TenantID }
func (c Contact) FullName() string                { return c.f.FullName }
func (c Contact) Email() *string                  { return c.f.Email }
func (c Contact) Phone() *string                  { return c.f.Phone }
func (c Contact) Company() *string                { return c.f.Company }
func (c Contact) Location() *string               { return c.f.Location }
func (c Contact) Status() Status                  { return c.f.Status }
func (c Contact) LastRentalDate() *time.Time      { return c.f.LastRentalDate }
func (c Contact) TotalRentals() *int64            { return c.f.TotalRentals }
func (c Contact) LifetimeValue() *decimal.Decimal { return c.f.LifetimeValue }
func (c Contact) Metadata() map[string]string     { return c.f.Metadata }
func (c Contact) ImportSource() *string           { return c.f.ImportSource }
func (c Contact) ImportBatchID() *uuid.UUID       { return c.f.ImportBatchID }
func (c Contact) CreatedAt() time.Time            { return c.f.CreatedAt }
func (c Contact) UpdatedAt() time.Time            { return c.f.UpdatedAt }

func (c Contact) WithStatus(s Status) Contact {
	c.f.Status = s
	return c
}

func (c Contact) Fields() Fields {
	return c.f
}

// Reachable reports whether the contact has at least one contact method,
// the precondition every outreach campaign relies on.
func (c Contact) Reachable() bool {
	return c.f.Email != nil || c.f.Phone != nil
}
