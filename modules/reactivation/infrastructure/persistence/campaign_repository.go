package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence/models"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

const campaignColumns = `id, tenant_id, name, channel, status, min_spend::text, min_rentals,
	inactive_since, starts_on, created_at, updated_at`

type CampaignRepository struct{}

func NewCampaignRepository() campaign.Repository {
	return &CampaignRepository{}
}

func scanCampaign(row pgx.Row) (models.Campaign, error) {
	var m models.Campaign
	err := row.Scan(
		&m.ID, &m.TenantID, &m.Name, &m.Channel, &m.Status,
		&m.MinSpend, &m.MinRentals, &m.InactiveSince, &m.StartsOn,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *CampaignRepository) List(ctx context.Context) ([]campaign.Campaign, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT `+campaignColumns+` FROM reactivation_campaigns WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []campaign.Campaign
	for rows.Next() {
		m, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, toDomainCampaign(m))
	}
	return out, rows.Err()
}

func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (campaign.Campaign, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}

	m, err := scanCampaign(tx.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM reactivation_campaigns WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return campaign.Campaign{}, campaign.ErrNotFound
		}
		return campaign.Campaign{}, err
	}
	return toDomainCampaign(m), nil
}

func (r *CampaignRepository) Create(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}

	m, err := scanCampaign(tx.QueryRow(ctx,
		`INSERT INTO reactivation_campaigns (tenant_id, name, channel, status, min_spend, min_rentals, inactive_since, starts_on)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
		RETURNING `+campaignColumns,
		tenantID, c.Name(), string(c.Channel()), string(c.Status()),
		decimalText(c.MinSpend()), pgInt8(c.MinRentals()), pgDate(c.InactiveSince()), pgDate(c.StartsOn()),
	))
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return toDomainCampaign(m), nil
}

func (r *CampaignRepository) Update(ctx context.Context, c campaign.Campaign) (campaign.Campaign, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return campaign.Campaign{}, err
	}

	m, err := scanCampaign(tx.QueryRow(ctx,
		`UPDATE reactivation_campaigns SET
			name = $3, channel = $4, status = $5, min_spend = $6::numeric,
			min_rentals = $7, inactive_since = $8, starts_on = $9, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+campaignColumns,
		tenantID, c.ID(), c.Name(), string(c.Channel()), string(c.Status()),
		decimalText(c.MinSpend()), pgInt8(c.MinRentals()), pgDate(c.InactiveSince()), pgDate(c.StartsOn()),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return campaign.Campaign{}, campaign.ErrNotFound
		}
		return campaign.Campaign{}, fmt.Errorf("update campaign: %w", err)
	}
	return toDomainCampaign(m), nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reactivation_campaigns WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrNotFound
	}
	return nil
}
