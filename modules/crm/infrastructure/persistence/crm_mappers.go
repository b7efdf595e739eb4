package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence/models"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgUUID(*id)
}

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

func toDomainLead(row models.Lead) lead.Lead {
	var est *decimal.Decimal
	if row.EstimatedValue.Valid {
		if v, err := decimal.NewFromString(row.EstimatedValue.String); err == nil {
			est = &v
		}
	}

	var metadata map[string]string
	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &metadata)
	}

	return lead.Hydrate(lead.Fields{
		ID:             uuid.UUID(row.ID.Bytes),
		TenantID:       uuid.UUID(row.TenantID.Bytes),
		CompanyName:    row.CompanyName,
		ContactName:    row.ContactName,
		Email:          textPtr(row.Email),
		Phone:          textPtr(row.Phone),
		Title:          textPtr(row.Title),
		Website:        textPtr(row.Website),
		Location:       textPtr(row.Location),
		Source:         textPtr(row.Source),
		Status:         lead.Status(row.Status),
		EstimatedValue: est,
		FleetSize:      int8Ptr(row.FleetSize),
		NextFollowUp:   datePtr(row.NextFollowUp),
		Metadata:       metadata,
		ImportSource:   textPtr(row.ImportSource),
		ImportBatchID:  uuidPtr(row.ImportBatchID),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	})
}

func leadMetadataJSON(l lead.Lead) []byte {
	if len(l.Metadata()) == 0 {
		return []byte("{}")
	}
	b, err := json.Marshal(l.Metadata())
	if err != nil {
		return []byte("{}")
	}
	return b
}

func toDomainNote(row models.Note) note.Note {
	return note.Note{
		ID:        uuid.UUID(row.ID.Bytes),
		TenantID:  uuid.UUID(row.TenantID.Bytes),
		LeadID:    uuid.UUID(row.LeadID.Bytes),
		Body:      row.Body,
		CreatedAt: row.CreatedAt.Time,
	}
}

func toDomainActivity(row models.Activity) activity.Activity {
	detail := ""
	if row.Detail.Valid {
		detail = row.Detail.String
	}
	return activity.Activity{
		ID:        uuid.UUID(row.ID.Bytes),
		TenantID:  uuid.UUID(row.TenantID.Bytes),
		LeadID:    uuid.UUID(row.LeadID.Bytes),
		Kind:      activity.Kind(row.Kind),
		Detail:    detail,
		CreatedAt: row.CreatedAt.Time,
	}
}
