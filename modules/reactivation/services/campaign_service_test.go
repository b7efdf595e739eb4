package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type fakeCampaignRepo struct {
	campaigns []campaign.Campaign
}

func (r *fakeCampaignRepo) List(ctx context.Context) ([]campaign.Campaign, error) {
	return r.campaigns, nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (campaign.Campaign, error) {
	for _, c := range r.campaigns {
		if c.ID() == id {
			return c, nil
		}
	}
	return campaign.Campaign{}, campaign.ErrNotFound
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error) {
	f := c.Fields()
	f.ID = uuid.New()
	created := campaign.Hydrate(f)
	r.campaigns = append(r.campaigns, created)
	return created, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error) {
	for i, existing := range r.campaigns {
		if existing.ID() == c.ID() {
			r.campaigns[i] = c
			return c, nil
		}
	}
	return campaign.Campaign{}, campaign.ErrNotFound
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func TestCampaignService_CreateParsesAudienceFilter(t *testing.T) {
	rentals := int64(3)
	svc := NewCampaignService(&fakeCampaignRepo{}, &fakeContactRepo{})

	created, err := svc.Create(importCtx(types.RoleAdmin), &campaign.CreateDTO{
		Name:          "Winback Q3",
		Channel:       "email",
		MinSpend:      "25000.50",
		MinRentals:    &rentals,
		InactiveSince: "2024-06-01",
	})
	require.NoError(t, err)

	require.NotNil(t, created.MinSpend())
	assert.Equal(t, "25000.5", created.MinSpend().String())
	require.NotNil(t, created.MinRentals())
	assert.Equal(t, int64(3), *created.MinRentals())
	require.NotNil(t, created.InactiveSince())
	assert.Equal(t, "2024-06-01", created.InactiveSince().Format("2006-01-02"))
	assert.Equal(t, campaign.StatusDraft, created.Status())
}

func TestCampaignService_CreateRejectsBadMinSpend(t *testing.T) {
	svc := NewCampaignService(&fakeCampaignRepo{}, &fakeContactRepo{})

	_, err := svc.Create(importCtx(types.RoleAdmin), &campaign.CreateDTO{
		Name:     "Winback Q3",
		Channel:  "email",
		MinSpend: "lots",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_spend")
}

func TestCampaignService_AudienceAppliesFilter(t *testing.T) {
	minSpend := decimal.NewFromInt(25000)
	rentals := int64(2)
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeCampaignRepo{}
	contacts := &fakeContactRepo{contacts: []contact.Contact{seededContact("vip@x.io", "")}}
	svc := NewCampaignService(repo, contacts)

	created, err := repo.Create(context.Background(), campaign.New(campaign.Fields{
		Name:          "Lapsed VIPs",
		Channel:       campaign.ChannelEmail,
		MinSpend:      &minSpend,
		MinRentals:    &rentals,
		InactiveSince: &since,
	}))
	require.NoError(t, err)

	got, total, err := svc.Audience(context.Background(), created.ID(), 50, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), total)

	require.NotNil(t, contacts.lastFind)
	require.NotNil(t, contacts.lastFind.MinSpend)
	assert.True(t, contacts.lastFind.MinSpend.Equal(minSpend))
	require.NotNil(t, contacts.lastFind.MinRentals)
	assert.Equal(t, int64(2), *contacts.lastFind.MinRentals)
	require.NotNil(t, contacts.lastFind.LapsedSince)
	assert.True(t, contacts.lastFind.LapsedSince.Equal(since))
	assert.Equal(t, 50, contacts.lastFind.Limit)
	assert.Equal(t, 10, contacts.lastFind.Offset)
}

func TestCampaignService_AudienceUnknownCampaign(t *testing.T) {
	svc := NewCampaignService(&fakeCampaignRepo{}, &fakeContactRepo{})

	_, _, err := svc.Audience(context.Background(), uuid.New(), 20, 0)
	require.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestCampaignService_StatusCompleted(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := NewCampaignService(repo, &fakeContactRepo{})

	created, err := repo.Create(context.Background(), campaign.New(campaign.Fields{
		Name:    "Winback Q3",
		Channel: campaign.ChannelSMS,
		Status:  campaign.StatusActive,
	}))
	require.NoError(t, err)

	dto := &campaign.UpdateStatusDTO{Status: "completed"}
	_, ok := dto.Ok()
	require.True(t, ok)

	updated, err := svc.UpdateStatus(context.Background(), created.ID(), dto)
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusCompleted, updated.Status())

	stale := &campaign.UpdateStatusDTO{Status: "finished"}
	_, ok = stale.Ok()
	assert.False(t, ok)
}
