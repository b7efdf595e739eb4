package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

type CampaignService struct {
	repo     campaign.Repository
	contacts contact.Repository
}

func NewCampaignService(repo campaign.Repository, contacts contact.Repository) *CampaignService {
	return &CampaignService{repo: repo, contacts: contacts}
}

func (s *CampaignService) List(ctx context.Context) ([]campaign.Campaign, error) {
	return s.repo.List(ctx)
}

func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID) (campaign.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CampaignService) Create(ctx context.Context, dto *campaign.CreateDTO) (campaign.Campaign, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}

	f := campaign.Fields{
		TenantID:   tenantID,
		Name:       dto.Name,
		Channel:    campaign.Channel(dto.Channel),
		MinRentals: dto.MinRentals,
	}
	if dto.MinSpend != "" {
		v, err := decimal.NewFromString(dto.MinSpend)
		if err != nil {
			return campaign.Campaign{}, fmt.Errorf("min_spend: %w", err)
		}
		f.MinSpend = &v
	}
	if dto.InactiveSince != "" {
		t, err := time.Parse("2006-01-02", dto.InactiveSince)
		if err != nil {
			return campaign.Campaign{}, fmt.Errorf("inactive_since: %w", err)
		}
		f.InactiveSince = &t
	}
	if dto.StartsOn != "" {
		t, err := time.Parse("2006-01-02", dto.StartsOn)
		if err != nil {
			return campaign.Campaign{}, fmt.Errorf("starts_on: %w", err)
		}
		f.StartsOn = &t
	}

	return s.repo.Create(ctx, campaign.New(f))
}

// Audience lists the contacts a campaign currently targets: the tenant's
// pool narrowed by the campaign's spend, rental and inactivity floors.
func (s *CampaignService) Audience(ctx context.Context, id uuid.UUID, limit, offset int) ([]contact.Contact, int64, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return s.contacts.GetPaginated(ctx, &contact.FindParams{
		MinSpend:    c.MinSpend(),
		MinRentals:  c.MinRentals(),
		LapsedSince: c.InactiveSince(),
		Limit:       limit,
		Offset:      offset,
	})
}

func (s *CampaignService) UpdateStatus(ctx context.Context, id uuid.UUID, dto *campaign.UpdateStatusDTO) (campaign.Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return campaign.Campaign{}, err
	}
	return s.repo.Update(ctx, existing.WithStatus(campaign.Status(dto.Status)))
}

func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
