package viewmodels

import (
	"time"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
)

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type Contact struct {
	ID             string            `json:"id"`
	FullName       string            `json:"full_name"`
	Email          *string           `json:"email"`
	Phone          *string           `json:"phone"`
	Company        *string           `json:"company"`
	Location       *string           `json:"location"`
	Status         string            `json:"status"`
	Reachable      bool              `json:"reachable"`
	LastRentalDate *string           `json:"last_rental_date"`
	TotalRentals   *int64            `json:"total_rentals"`
	LifetimeValue  *string           `json:"lifetime_value"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	ImportSource   *string           `json:"import_source,omitempty"`
	ImportBatchID  *string           `json:"import_batch_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func ContactFromDomain(c contact.Contact) Contact {
	vm := Contact{
		ID:           c.ID().String(),
		FullName:     c.FullName(),
		Email:        c.Email(),
		Phone:        c.Phone(),
		Company:      c.Company(),
		Location:     c.Location(),
		Status:       string(c.Status()),
		Reachable:    c.Reachable(),
		TotalRentals: c.TotalRentals(),
		Metadata:     c.Metadata(),
		ImportSource: c.ImportSource(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
	if d := c.LastRentalDate(); d != nil {
		s := d.Format("2006-01-02")
		vm.LastRentalDate = &s
	}
	if v := c.LifetimeValue(); v != nil {
		s := v.StringFixed(2)
		vm.LifetimeValue = &s
	}
	if id := c.ImportBatchID(); id != nil {
		s := id.String()
		vm.ImportBatchID = &s
	}
	return vm
}

type Campaign struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Channel       string    `json:"channel"`
	Status        string    `json:"status"`
	MinSpend      *string   `json:"min_spend"`
	MinRentals    *int64    `json:"min_rentals"`
	InactiveSince *string   `json:"inactive_since"`
	StartsOn      *string   `json:"starts_on"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func CampaignFromDomain(c campaign.Campaign) Campaign {
	vm := Campaign{
		ID:         c.ID().String(),
		Name:       c.Name(),
		Channel:    string(c.Channel()),
		Status:     string(c.Status()),
		MinRentals: c.MinRentals(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
	if v := c.MinSpend(); v != nil {
		s := v.StringFixed(2)
		vm.MinSpend = &s
	}
	if d := c.InactiveSince(); d != nil {
		s := d.Format("2006-01-02")
		vm.InactiveSince = &s
	}
	if d := c.StartsOn(); d != nil {
		s := d.Format("2006-01-02")
		vm.StartsOn = &s
	}
	return vm
}
