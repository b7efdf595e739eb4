package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
)

type NoteService struct {
	notes note.Repository
	leads lead.Repository
}

func NewNoteService(notes note.Repository, leads lead.Repository) *NoteService {
	return &NoteService{
		notes: notes,
		leads: leads,
	}
}

func (s *NoteService) ListByLead(ctx context.Context, leadID uuid.UUID) ([]note.Note, error) {
	return s.notes.ListByLead(ctx, leadID)
}

// Create verifies the lead exists in the caller's tenant before attaching
// the note.
func (s *NoteService) Create(ctx context.Context, leadID uuid.UUID, dto *note.CreateDTO) (note.Note, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return note.Note{}, err
	}
	if _, err := s.leads.GetByID(ctx, leadID); err != nil {
		return note.Note{}, err
	}
	return s.notes.Create(ctx, note.New(tenantID, leadID, dto.Body))
}

func (s *NoteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notes.Delete(ctx, id)
}
