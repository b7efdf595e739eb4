package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

type ContactService struct {
	repo contact.Repository
}

func NewContactService(repo contact.Repository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *ContactService) Create(ctx context.Context, dto *contact.CreateDTO) (contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	f := contact.Fields{
		TenantID:     tenantID,
		FullName:     dto.FullName,
		Email:        optional(dto.Email),
		Phone:        optional(dto.Phone),
		Company:      optional(dto.Company),
		Location:     optional(dto.Location),
		TotalRentals: dto.TotalRentals,
	}
	if dto.LastRentalDate != "" {
		t, err := time.Parse("2006-01-02", dto.LastRentalDate)
		if err != nil {
			return contact.Contact{}, fmt.Errorf("last_rental_date: %w", err)
		}
		f.LastRentalDate = &t
	}
	if dto.LifetimeValue != "" {
		v, err := decimal.NewFromString(dto.LifetimeValue)
		if err != nil {
			return contact.Contact{}, fmt.Errorf("lifetime_value: %w", err)
		}
		f.LifetimeValue = &v
	}
	if dto.Instagram != "" {
		f.Metadata = map[string]string{"instagram": dto.Instagram}
	}

	return s.repo.Create(ctx, contact.New(f))
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, dto *contact.UpdateDTO) (contact.Contact, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return contact.Contact{}, err
	}

	f := existing.Fields()
	if dto.FullName != nil {
		f.FullName = *dto.FullName
	}
	if dto.Email != nil {
		f.Email = optional(*dto.Email)
	}
	if dto.Phone != nil {
		f.Phone = optional(*dto.Phone)
	}
	if dto.Company != nil {
		f.Company = optional(*dto.Company)
	}
	if dto.Location != nil {
		f.Location = optional(*dto.Location)
	}
	if dto.TotalRentals != nil {
		f.TotalRentals = dto.TotalRentals
	}
	if dto.LastRentalDate != nil {
		if *dto.LastRentalDate == "" {
			f.LastRentalDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *dto.LastRentalDate)
			if err != nil {
				return contact.Contact{}, fmt.Errorf("last_rental_date: %w", err)
			}
			f.LastRentalDate = &t
		}
	}
	if dto.LifetimeValue != nil {
		if *dto.LifetimeValue == "" {
			f.LifetimeValue = nil
		} else {
			v, err := decimal.NewFromString(*dto.LifetimeValue)
			if err != nil {
				return contact.Contact{}, fmt.Errorf("lifetime_value: %w", err)
			}
			f.LifetimeValue = &v
		}
	}

	return s.repo.Update(ctx, contact.Hydrate(f))
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, dto *contact.UpdateStatusDTO) (contact.Contact, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return contact.Contact{}, err
	}
	return s.repo.Update(ctx, existing.WithStatus(contact.Status(dto.Status)))
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
