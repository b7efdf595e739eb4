package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Contact struct {
	ID             pgtype.UUID
	TenantID       pgtype.UUID
	FullName       string
	Email          pgtype.Text
	Phone          pgtype.Text
	Company        pgtype.Text
	Location       pgtype.Text
	Status         string
	LastRentalDate pgtype.Date
	TotalRentals   pgtype.Int8
	LifetimeValue  pgtype.Text
	Metadata       []byte
	ImportSource   pgtype.Text
	ImportBatchID  pgtype.UUID
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type Campaign struct {
	ID            pgtype.UUID
	TenantID      pgtype.UUID
	Name          string
	Channel       string
	Status        string
	MinSpend      pgtype.Text
	MinRentals    pgtype.Int8
	InactiveSince pgtype.Date
	StartsOn      pgtype.Date
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}
