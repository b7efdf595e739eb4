package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/modules/reactivation/infrastructure/persistence/models"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/repo"
)

const contactColumns = `
	id, tenant_id, full_name, email, phone, company, location, status,
	last_rental_date, total_rentals, lifetime_value::text, metadata,
	import_source, import_batch_id, created_at, updated_at`

type ContactRepository struct{}

func NewContactRepository() contact.Repository {
	return &ContactRepository{}
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var m models.Contact
	err := row.Scan(
		&m.ID, &m.TenantID, &m.FullName, &m.Email, &m.Phone, &m.Company,
		&m.Location, &m.Status, &m.LastRentalDate, &m.TotalRentals,
		&m.LifetimeValue, &m.Metadata, &m.ImportSource, &m.ImportBatchID,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func buildContactFilters(params *contact.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if params == nil {
		return where, args
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", n, n, n,
		))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.LapsedSince != nil {
		args = append(args, *params.LapsedSince)
		where = append(where, fmt.Sprintf("last_rental_date <= $%d", len(args)))
	}
	if params.MinSpend != nil {
		args = append(args, params.MinSpend.String())
		where = append(where, fmt.Sprintf("lifetime_value >= $%d::numeric", len(args)))
	}
	if params.MinRentals != nil {
		args = append(args, *params.MinRentals)
		where = append(where, fmt.Sprintf("total_rentals >= $%d", len(args)))
	}
	return where, args
}

func (r *ContactRepository) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildContactFilters(params, tenantID)

	limit, offset := 20, 0
	if params != nil {
		if params.Limit > 0 {
			limit = params.Limit
		}
		if params.Offset > 0 {
			offset = params.Offset
		}
	}

	query := `SELECT ` + contactColumns + `
		FROM reactivation_contacts
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC ` + repo.FormatLimitOffset(limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []contact.Contact
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainContact(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM reactivation_contacts WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	m, err := scanContact(tx.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM reactivation_contacts WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return toDomainContact(m), nil
}

const contactInsertColumns = `tenant_id, full_name, email, phone, company, location, status,
	last_rental_date, total_rentals, lifetime_value, metadata, import_source, import_batch_id`

func contactInsertArgs(c contact.Contact, tenantID uuid.UUID) []any {
	return []any{
		tenantID,
		c.FullName(),
		pgText(c.Email()),
		pgText(c.Phone()),
		pgText(c.Company()),
		pgText(c.Location()),
		string(c.Status()),
		pgDate(c.LastRentalDate()),
		pgInt8(c.TotalRentals()),
		decimalText(c.LifetimeValue()),
		contactMetadataJSON(c),
		pgText(c.ImportSource()),
		pgUUIDPtr(c.ImportBatchID()),
	}
}

func (r *ContactRepository) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	query := `INSERT INTO reactivation_contacts (` + contactInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12, $13)
		RETURNING ` + contactColumns

	m, err := scanContact(tx.QueryRow(ctx, query, contactInsertArgs(c, tenantID)...))
	if err != nil {
		return contact.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return toDomainContact(m), nil
}

func (r *ContactRepository) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	query := `UPDATE reactivation_contacts SET
			full_name = $3, email = $4, phone = $5, company = $6, location = $7,
			status = $8, last_rental_date = $9, total_rentals = $10,
			lifetime_value = $11::numeric, metadata = $12, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + contactColumns

	m, err := scanContact(tx.QueryRow(ctx, query,
		tenantID, c.ID(),
		c.FullName(), pgText(c.Email()), pgText(c.Phone()), pgText(c.Company()),
		pgText(c.Location()), string(c.Status()),
		pgDate(c.LastRentalDate()), pgInt8(c.TotalRentals()),
		decimalText(c.LifetimeValue()), contactMetadataJSON(c),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return toDomainContact(m), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reactivation_contacts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM reactivation_contacts WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

func (r *ContactRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone *string) (bool, error) {
	if email == nil && phone == nil {
		return false, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	where := []string{}
	args := []any{tenantID}
	if email != nil {
		args = append(args, *email)
		where = append(where, fmt.Sprintf("email = $%d", len(args)))
	}
	if phone != nil {
		args = append(args, *phone)
		where = append(where, fmt.Sprintf("phone = $%d", len(args)))
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reactivation_contacts WHERE tenant_id = $1 AND (`+strings.Join(where, " OR ")+`))`,
		args...,
	).Scan(&exists)
	return exists, err
}

func (r *ContactRepository) InsertBatch(ctx context.Context, contacts []contact.Contact) ([]uuid.UUID, error) {
	if len(contacts) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	const cols = 13
	values := make([]string, 0, len(contacts))
	args := make([]any, 0, len(contacts)*cols)
	for i, c := range contacts {
		base := i * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders[9] += "::numeric"
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, contactInsertArgs(c, tenantID)...)
	}

	query := `INSERT INTO reactivation_contacts (` + contactInsertColumns + `)
		VALUES ` + strings.Join(values, ", ") + `
		RETURNING id`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert contact batch: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(contacts))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ContactRepository) MonthlyLapse(ctx context.Context, months int) ([]contact.MonthBucket, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 24
	}

	rows, err := tx.Query(ctx,
		`SELECT to_char(date_trunc('month', last_rental_date), 'YYYY-MM') AS month, COUNT(*)
		FROM reactivation_contacts
		WHERE tenant_id = $1
			AND last_rental_date IS NOT NULL
			AND last_rental_date >= date_trunc('month', now()) - make_interval(months => $2)
		GROUP BY 1
		ORDER BY 1`,
		tenantID, months,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contact.MonthBucket
	for rows.Next() {
		var b contact.MonthBucket
		if err := rows.Scan(&b.Month, &b.Contacts); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Summarize(ctx context.Context) (contact.Summary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Summary{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Summary{}, err
	}

	var s contact.Summary
	var ltv string
	err = tx.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(email),
			COUNT(phone),
			COUNT(*) FILTER (WHERE status = 'opted_out'),
			COALESCE(SUM(lifetime_value), 0)::text
		FROM reactivation_contacts
		WHERE tenant_id = $1`,
		tenantID,
	).Scan(&s.Total, &s.WithEmail, &s.WithPhone, &s.OptedOut, &ltv)
	if err != nil {
		return contact.Summary{}, err
	}
	s.LifetimeValue, err = decimal.NewFromString(ltv)
	if err != nil {
		return contact.Summary{}, err
	}
	return s, nil
}
