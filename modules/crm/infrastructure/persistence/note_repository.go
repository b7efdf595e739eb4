package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/modules/crm/infrastructure/persistence/models"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/repo"
)

type NoteRepository struct{}

func NewNoteRepository() note.Repository {
	return &NoteRepository{}
}

func scanNote(row pgx.Row) (models.Note, error) {
	var m models.Note
	err := row.Scan(&m.ID, &m.TenantID, &m.LeadID, &m.Body, &m.CreatedAt)
	return m, err
}

func (r *NoteRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]note.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, tenant_id, lead_id, body, created_at
		FROM crm_notes
		WHERE tenant_id = $1 AND lead_id = $2
		ORDER BY created_at DESC`,
		tenantID, leadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []note.Note
	for rows.Next() {
		m, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, toDomainNote(m))
	}
	return out, rows.Err()
}

func (r *NoteRepository) Create(ctx context.Context, n note.Note) (note.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return note.Note{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return note.Note{}, err
	}

	query := repo.Insert("crm_notes",
		[]string{"tenant_id", "lead_id", "body"},
		"id", "tenant_id", "lead_id", "body", "created_at",
	)
	m, err := scanNote(tx.QueryRow(ctx, query, tenantID, n.LeadID, n.Body))
	if err != nil {
		return note.Note{}, fmt.Errorf("create note: %w", err)
	}
	return toDomainNote(m), nil
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM crm_notes WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *NoteRepository) InsertBatch(ctx context.Context, notes []note.Note) error {
	if len(notes) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	values := make([]string, 0, len(notes))
	args := make([]any, 0, len(notes)*3)
	for i, n := range notes {
		base := i * 3
		values = append(values, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, tenantID, n.LeadID, n.Body)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO crm_notes (tenant_id, lead_id, body) VALUES `+strings.Join(values, ", "),
		args...,
	)
	if err != nil {
		return fmt.Errorf("insert note batch: %w", err)
	}
	return nil
}
