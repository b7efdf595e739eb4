package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/campaign"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence/models"
)

func pgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func pgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func pgUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func uuidPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

func decimalText(d *decimal.Decimal) pgtype.Text {
	if d == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: d.String(), Valid: true}
}

func toDomainContact(row models.Contact) contact.Contact {
	var ltv *decimal.Decimal
	if row.LifetimeValue.Valid {
		if v, err := decimal.NewFromString(row.LifetimeValue.String); err == nil {
			ltv = &v
		}
	}

	var metadata map[string]string
	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &metadata)
	}

	return contact.Hydrate(contact.Fields{
		ID:             uuid.UUID(row.ID.Bytes),
		TenantID:       uuid.UUID(row.TenantID.Bytes),
		FullName:       row.FullName,
		Email:          textPtr(row.Email),
		Phone:          textPtr(row.Phone),
		Company:        textPtr(row.Company),
		Location:       textPtr(row.Location),
		Status:         contact.Status(row.Status),
		LastRentalDate: datePtr(row.LastRentalDate),
		TotalRentals:   int8Ptr(row.TotalRentals),
		LifetimeValue:  ltv,
		Metadata:       metadata,
		ImportSource:   textPtr(row.ImportSource),
		ImportBatchID:  uuidPtr(row.ImportBatchID),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	})
}

func contactMetadataJSON(c contact.Contact) []byte {
	if len(c.Metadata()) == 0 {
		return []byte("{}")
	}
	b, err := json.Marshal(c.Metadata())
	if err != nil {
		return []byte("{}")
	}
	return b
}

func toDomainCampaign(row models.Campaign) campaign.Campaign {
	var minSpend *decimal.Decimal
	if row.MinSpend.Valid {
		if v, err := decimal.NewFromString(row.MinSpend.String); err == nil {
			minSpend = &v
		}
	}

	return campaign.Hydrate(campaign.Fields{
		ID:            uuid.UUID(row.ID.Bytes),
		TenantID:      uuid.UUID(row.TenantID.Bytes),
		Name:          row.Name,
		Channel:       campaign.Channel(row.Channel),
		Status:        campaign.Status(row.Status),
		MinSpend:      minSpend,
		MinRentals:    int8Ptr(row.MinRentals),
		InactiveSince: datePtr(row.InactiveSince),
		StartsOn:      datePtr(row.StartsOn),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	})
}
