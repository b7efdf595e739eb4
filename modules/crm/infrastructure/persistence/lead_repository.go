package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence/models"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/repo"
)

const leadColumns = `
	id, tenant_id, company_name, contact_name, email, phone, title, website,
	location, source, status, estimated_value::text, fleet_size, next_follow_up,
	metadata, import_source, import_batch_id, created_at, updated_at`

type LeadRepository struct{}

func NewLeadRepository() lead.Repository {
	return &LeadRepository{}
}

func scanLead(row pgx.Row) (models.Lead, error) {
	var m models.Lead
	err := row.Scan(
		&m.ID, &m.TenantID, &m.CompanyName, &m.ContactName, &m.Email, &m.Phone,
		&m.Title, &m.Website, &m.Location, &m.Source, &m.Status,
		&m.EstimatedValue, &m.FleetSize, &m.NextFollowUp, &m.Metadata,
		&m.ImportSource, &m.ImportBatchID, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func buildLeadFilters(params *lead.FindParams, tenantID uuid.UUID) ([]string, []any) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if params == nil {
		return where, args
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(company_name ILIKE $%d OR contact_name ILIKE $%d OR email ILIKE $%d)", n, n, n,
		))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	return where, args
}

func (r *LeadRepository) GetPaginated(ctx context.Context, params *lead.FindParams) ([]lead.Lead, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildLeadFilters(params, tenantID)

	limit, offset := 20, 0
	if params != nil {
		if params.Limit > 0 {
			limit = params.Limit
		}
		if params.Offset > 0 {
			offset = params.Offset
		}
	}

	query := `SELECT ` + leadColumns + `
		FROM crm_leads
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC ` + repo.FormatLimitOffset(limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []lead.Lead
	for rows.Next() {
		m, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainLead(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM crm_leads WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}

	m, err := scanLead(tx.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM crm_leads WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lead.Lead{}, lead.ErrNotFound
		}
		return lead.Lead{}, err
	}
	return toDomainLead(m), nil
}

func leadInsertArgs(l lead.Lead, tenantID uuid.UUID) []any {
	return []any{
		tenantID,
		l.CompanyName(),
		l.ContactName(),
		pgText(l.Email()),
		pgText(l.Phone()),
		pgText(l.Title()),
		pgText(l.Website()),
		pgText(l.Location()),
		pgText(l.Source()),
		string(l.Status()),
		decimalText(l.EstimatedValue()),
		pgInt8(l.FleetSize()),
		pgDate(l.NextFollowUp()),
		leadMetadataJSON(l),
		pgText(l.ImportSource()),
		pgUUIDPtr(l.ImportBatchID()),
	}
}

const leadInsertColumns = `tenant_id, company_name, contact_name, email, phone, title, website,
	location, source, status, estimated_value, fleet_size, next_follow_up,
	metadata, import_source, import_batch_id`

func (r *LeadRepository) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}

	query := `INSERT INTO crm_leads (` + leadInsertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::numeric, $12, $13, $14, $15, $16)
		RETURNING ` + leadColumns

	m, err := scanLead(tx.QueryRow(ctx, query, leadInsertArgs(l, tenantID)...))
	if err != nil {
		return lead.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return toDomainLead(m), nil
}

func (r *LeadRepository) Update(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return lead.Lead{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return lead.Lead{}, err
	}

	query := `UPDATE crm_leads SET
			company_name = $3, contact_name = $4, email = $5, phone = $6,
			title = $7, website = $8, location = $9, source = $10, status = $11,
			estimated_value = $12::numeric, fleet_size = $13, next_follow_up = $14,
			metadata = $15, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + leadColumns

	m, err := scanLead(tx.QueryRow(ctx, query,
		tenantID, l.ID(),
		l.CompanyName(), l.ContactName(),
		pgText(l.Email()), pgText(l.Phone()), pgText(l.Title()),
		pgText(l.Website()), pgText(l.Location()), pgText(l.Source()),
		string(l.Status()),
		decimalText(l.EstimatedValue()), pgInt8(l.FleetSize()), pgDate(l.NextFollowUp()),
		leadMetadataJSON(l),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lead.Lead{}, lead.ErrNotFound
		}
		return lead.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return toDomainLead(m), nil
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM crm_leads WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM crm_leads WHERE tenant_id = $1`, tenantID).Scan(&count)
	return count, err
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[lead.Status]int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT status, COUNT(*) FROM crm_leads WHERE tenant_id = $1 GROUP BY status`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[lead.Status]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[lead.Status(status)] = count
	}
	return out, rows.Err()
}

func (r *LeadRepository) InsertBatch(ctx context.Context, leads []lead.Lead) ([]uuid.UUID, error) {
	if len(leads) == 0 {
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

	const cols = 16
	values := make([]string, 0, len(leads))
	args := make([]any, 0, len(leads)*cols)
	for i, l := range leads {
		base := i * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders[10] += "::numeric"
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, leadInsertArgs(l, tenantID)...)
	}

	query := `INSERT INTO crm_leads (` + leadInsertColumns + `)
		VALUES ` + strings.Join(values, ", ") + `
		RETURNING id`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert lead batch: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(leads))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
