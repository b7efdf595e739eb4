package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/eventbus"
)

type LeadService struct {
	repo      lead.Repository
	publisher eventbus.EventBus
}

func NewLeadService(repo lead.Repository, publisher eventbus.EventBus) *LeadService {
	return &LeadService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *LeadService) GetPaginated(ctx context.Context, params *lead.FindParams) ([]lead.Lead, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LeadService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *LeadService) CountByStatus(ctx context.Context) (map[lead.Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}

func fieldsFromCreateDTO(tenantID uuid.UUID, dto *lead.CreateDTO) (lead.Fields, error) {
	f := lead.Fields{
		TenantID:    tenantID,
		CompanyName: dto.CompanyName,
		ContactName: dto.ContactName,
		Email:       optional(dto.Email),
		Phone:       optional(dto.Phone),
		Title:       optional(dto.Title),
		Website:     optional(dto.Website),
		Location:    optional(dto.Location),
		Source:      optional(dto.Source),
		Status:      lead.Status(dto.Status),
		FleetSize:   dto.FleetSize,
	}
	if dto.EstimatedValue != "" {
		v, err := decimal.NewFromString(dto.EstimatedValue)
		if err != nil {
			return lead.Fields{}, fmt.Errorf("estimated_value: %w", err)
		}
		f.EstimatedValue = &v
	}
	if dto.NextFollowUp != "" {
		t, err := time.Parse("2006-01-02", dto.NextFollowUp)
		if err != nil {
			return lead.Fields{}, fmt.Errorf("next_follow_up: %w", err)
		}
		f.NextFollowUp = &t
	}
	if dto.Instagram != "" {
		f.Metadata = map[string]string{"instagram": dto.Instagram}
	}
	return f, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *LeadService) Create(ctx context.Context, dto *lead.CreateDTO) (lead.Lead, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	fields, err := fieldsFromCreateDTO(tenantID, dto)
	if err != nil {
		return lead.Lead{}, err
	}

	created, err := s.repo.Create(ctx, lead.New(fields))
	if err != nil {
		return lead.Lead{}, err
	}
	s.publisher.Publish(lead.CreatedEvent{TenantID: tenantID, Lead: created})
	return created, nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, dto *lead.UpdateDTO) (lead.Lead, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return lead.Lead{}, err
	}

	f := existing.Fields()
	if dto.CompanyName != nil {
		f.CompanyName = *dto.CompanyName
	}
	if dto.ContactName != nil {
		f.ContactName = *dto.ContactName
	}
	if dto.Email != nil {
		f.Email = optional(*dto.Email)
	}
	if dto.Phone != nil {
		f.Phone = optional(*dto.Phone)
	}
	if dto.Title != nil {
		f.Title = optional(*dto.Title)
	}
	if dto.Website != nil {
		f.Website = optional(*dto.Website)
	}
	if dto.Location != nil {
		f.Location = optional(*dto.Location)
	}
	if dto.Source != nil {
		f.Source = optional(*dto.Source)
	}
	if dto.EstimatedValue != nil {
		if *dto.EstimatedValue == "" {
			f.EstimatedValue = nil
		} else {
			v, err := decimal.NewFromString(*dto.EstimatedValue)
			if err != nil {
				return lead.Lead{}, fmt.Errorf("estimated_value: %w", err)
			}
			f.EstimatedValue = &v
		}
	}
	if dto.FleetSize != nil {
		f.FleetSize = dto.FleetSize
	}
	if dto.NextFollowUp != nil {
		if *dto.NextFollowUp == "" {
			f.NextFollowUp = nil
		} else {
			t, err := time.Parse("2006-01-02", *dto.NextFollowUp)
			if err != nil {
				return lead.Lead{}, fmt.Errorf("next_follow_up: %w", err)
			}
			f.NextFollowUp = &t
		}
	}

	return s.repo.Update(ctx, lead.Hydrate(f))
}

func (s *LeadService) UpdateStatus(ctx context.Context, id uuid.UUID, dto *lead.UpdateStatusDTO) (lead.Lead, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return lead.Lead{}, err
	}

	from := existing.Status()
	to := lead.Status(dto.Status)
	if from == to {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, existing.WithStatus(to))
	if err != nil {
		return lead.Lead{}, err
	}
	s.publisher.Publish(lead.StatusChangedEvent{
		TenantID: tenantID,
		LeadID:   id,
		From:     from,
		To:       to,
	})
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(lead.DeletedEvent{TenantID: tenantID, LeadID: id})
	return nil
}
