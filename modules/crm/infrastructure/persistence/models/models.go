package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Lead struct {
	ID             pgtype.UUID
	TenantID       pgtype.UUID
	CompanyName    string
	ContactName    string
	Email          pgtype.Text
	Phone          pgtype.Text
	Title          pgtype.Text
	Website        pgtype.Text
	Location       pgtype.Text
	Source         pgtype.Text
	Status         string
	EstimatedValue pgtype.Text
	FleetSize      pgtype.Int8
	NextFollowUp   pgtype.Date
	Metadata       []byte
	ImportSource   pgtype.Text
	ImportBatchID  pgtype.UUID
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type Note struct {
	ID        pgtype.UUID
	TenantID  pgtype.UUID
	LeadID    pgtype.UUID
	Body      string
	CreatedAt pgtype.Timestamptz
}

type Activity struct {
	ID        pgtype.UUID
	TenantID  pgtype.UUID
	LeadID    pgtype.UUID
	Kind      string
	Detail    pgtype.Text
	CreatedAt pgtype.Timestamptz
}
