package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
	"github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence/models"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/repo"
)

type ActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) List(ctx context.Context, params *activity.FindParams) ([]activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	limit, offset := 50, 0
	if params != nil {
		if params.LeadID != uuid.Nil {
			args = append(args, params.LeadID)
			where = append(where, fmt.Sprintf("lead_id = $%d", len(args)))
		}
		if params.Limit > 0 {
			limit = params.Limit
		}
		if params.Offset > 0 {
			offset = params.Offset
		}
	}

	query := `SELECT id, tenant_id, lead_id, kind, detail, created_at
		FROM crm_events
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC ` + repo.FormatLimitOffset(limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []activity.Activity
	for rows.Next() {
		var m models.Activity
		if err := rows.Scan(&m.ID, &m.TenantID, &m.LeadID, &m.Kind, &m.Detail, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, toDomainActivity(m))
	}
	return out, rows.Err()
}

func (r *ActivityRepository) Create(ctx context.Context, a activity.Activity) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO crm_events (tenant_id, lead_id, kind, detail) VALUES ($1, $2, $3, $4)`,
		tenantID, a.LeadID, string(a.Kind), a.Detail,
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}
