package campaign

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/pkg/constants"
	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

var ErrNotFound = gerrors.New("campaign not found")

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPhone Channel = "phone"
)

type Fields struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	Channel       Channel
	Status        Status
	MinSpend      *decimal.Decimal
	MinRentals    *int64
	InactiveSince *time.Time
	StartsOn      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Campaign struct {
	f Fields
}

func New(f Fields) Campaign {
	f.Name = strings.TrimSpace(f.Name)
	if f.Status == "" {
		f.Status = StatusDraft
	}
	return Campaign{f: f}
}

func Hydrate(f Fields) Campaign {
	return Campaign{f: f}
}

func (c Campaign) ID() uuid.UUID              { return c.f.ID }
func (c Campaign) TenantID() uuid.UUID        { return c.f.TenantID }
func (c Campaign) Name() string               { return c.f.Name }
func (c Campaign) Channel() Channel           { return c.f.Channel }
func (c Campaign) Status() Status             { return c.f.Status }
func (c Campaign) MinSpend() *decimal.Decimal { return c.f.MinSpend }
func (c Campaign) MinRentals() *int64         { return c.f.MinRentals }
func (c Campaign) InactiveSince() *time.Time  { return c.f.InactiveSince }
func (c Campaign) StartsOn() *time.Time       { return c.f.StartsOn }
func (c Campaign) CreatedAt() time.Time       { return c.f.CreatedAt }
func (c Campaign) UpdatedAt() time.Time       { return c.f.UpdatedAt }

func (c Campaign) WithStatus(s Status) Campaign {
	c.f.Status = s
	return c
}

func (c Campaign) Fields() Fields {
	return c.f
}

type CreateDTO struct {
	Name          string `json:"name" validate:"required,max=255"`
	Channel       string `json:"channel" validate:"required,oneof=email sms phone"`
	MinSpend      string `json:"min_spend"`
	MinRentals    *int64 `json:"min_rentals" validate:"omitempty,min=0"`
	InactiveSince string `json:"inactive_since"`
	StartsOn      string `json:"starts_on"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=draft active paused completed"`
}

func (d *UpdateStatusDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

type Repository interface {
	List(ctx context.Context) ([]Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (Campaign, error)
	Create(ctx context.Context, c Campaign) (Campaign, error)
	Update(ctx context.Context, c Campaign) (Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
