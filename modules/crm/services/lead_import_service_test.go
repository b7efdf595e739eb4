package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type fakeLeadRepo struct {
	leads       []lead.Lead
	batchCalls  int
	failAtCall  int
	insertSizes []int
}

func (r *fakeLeadRepo) GetPaginated(ctx context.Context, params *lead.FindParams) ([]lead.Lead, int64, error) {
	return r.leads, int64(len(r.leads)), nil
}

func (r *fakeLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	for _, l := range r.leads {
		if l.ID() == id {
			return l, nil
		}
	}
	return lead.Lead{}, lead.ErrNotFound
}

func (r *fakeLeadRepo) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	f := l.Fields()
	f.ID = uuid.New()
	created := lead.Hydrate(f)
	r.leads = append(r.leads, created)
	return created, nil
}

func (r *fakeLeadRepo) Update(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	for i, existing := range r.leads {
		if existing.ID() == l.ID() {
			r.leads[i] = l
			return l, nil
		}
	}
	return lead.Lead{}, lead.ErrNotFound
}

func (r *fakeLeadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, l := range r.leads {
		if l.ID() == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return nil
		}
	}
	return lead.ErrNotFound
}

func (r *fakeLeadRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.leads)), nil
}

func (r *fakeLeadRepo) CountByStatus(ctx context.Context) (map[lead.Status]int64, error) {
	out := make(map[lead.Status]int64)
	for _, l := range r.leads {
		out[l.Status()]++
	}
	return out, nil
}

func (r *fakeLeadRepo) InsertBatch(ctx context.Context, leads []lead.Lead) ([]uuid.UUID, error) {
	r.batchCalls++
	r.insertSizes = append(r.insertSizes, len(leads))
	if r.batchCalls == r.failAtCall {
		return nil, fmt.Errorf("store unavailable")
	}
	ids := make([]uuid.UUID, len(leads))
	for i, l := range leads {
		f := l.Fields()
		f.ID = uuid.New()
		ids[i] = f.ID
		r.leads = append(r.leads, lead.Hydrate(f))
	}
	return ids, nil
}

type fakeNoteRepo struct {
	notes      []note.Note
	batchCalls int
	failAll    bool
}

func (r *fakeNoteRepo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]note.Note, error) {
	var out []note.Note
	for _, n := range r.notes {
		if n.LeadID == leadID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) Create(ctx context.Context, n note.Note) (note.Note, error) {
	n.ID = uuid.New()
	r.notes = append(r.notes, n)
	return n, nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeNoteRepo) InsertBatch(ctx context.Context, notes []note.Note) error {
	r.batchCalls++
	if r.failAll {
		return fmt.Errorf("notes unavailable")
	}
	r.notes = append(r.notes, notes...)
	return nil
}

func importCtx(role types.Role) context.Context {
	ctx := composables.WithTenantID(context.Background(), uuid.New())
	return composables.WithUser(ctx, types.User{
		ID:    uuid.New(),
		Email: "ops@velocity.test",
		Role:  role,
	})
}

func newImportService(leads *fakeLeadRepo, notes *fakeNoteRepo) *LeadImportService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewLeadImportService(leads, notes, log)
}

func TestLeadImport_HappyPath(t *testing.T) {
	csv := strings.Join([]string{
		"Company Name,Email,Phone,Deal Value,Notes",
		"Apex Exotics,SALES@APEX.IO,+1 (555) 123-4567,\"$12,500\",Met at SEMA",
		"Velocita Rentals,,,$900,",
	}, "\n")

	leads := &fakeLeadRepo{}
	notes := &fakeNoteRepo{}
	svc := newImportService(leads, notes)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "expo-list.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Outcome.Success)
	assert.Equal(t, 0, res.Outcome.Failed)
	assert.Equal(t, 0, res.Outcome.Skipped)
	require.Len(t, leads.leads, 2)

	first := leads.leads[0]
	assert.Equal(t, "Apex Exotics", first.CompanyName())
	// contact name falls back to the company
	assert.Equal(t, "Apex Exotics", first.ContactName())
	require.NotNil(t, first.Email())
	assert.Equal(t, "sales@apex.io", *first.Email())
	require.NotNil(t, first.Phone())
	assert.Equal(t, "+15551234567", *first.Phone())
	require.NotNil(t, first.EstimatedValue())
	assert.True(t, first.EstimatedValue().Equal(decimal.NewFromInt(12500)))
	require.NotNil(t, first.ImportSource())
	assert.Equal(t, "expo-list.csv", *first.ImportSource())
	require.NotNil(t, first.ImportBatchID())
	assert.Equal(t, res.BatchID, *first.ImportBatchID())

	// only the row with a note column gets one
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "Met at SEMA", notes.notes[0].Body)
	assert.Equal(t, first.ID(), notes.notes[0].LeadID)
}

func TestLeadImport_SkipsRowsMissingIdentity(t *testing.T) {
	csv := "Company Name,Email\n,orphan@row.io\nApex Exotics,sales@apex.io\n"

	leads := &fakeLeadRepo{}
	svc := newImportService(leads, &fakeNoteRepo{})

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Outcome.Success)
	assert.Equal(t, 1, res.Outcome.Skipped)
	assert.Len(t, leads.leads, 1)
}

func TestLeadImport_ViewerCannotImport(t *testing.T) {
	csv := "Company Name\nApex Exotics\nVelocita Rentals\n"

	leads := &fakeLeadRepo{}
	svc := newImportService(leads, &fakeNoteRepo{})

	res, err := svc.Import(importCtx(types.RoleViewer), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Outcome.Success)
	assert.Equal(t, 2, res.Outcome.Failed)
	assert.NotEmpty(t, res.Outcome.LastError)
	assert.Zero(t, leads.batchCalls, "store must not be touched without permission")
}

func TestLeadImport_MappingMustCoverIdentity(t *testing.T) {
	csv := "Email\nsales@apex.io\n"

	svc := newImportService(&fakeLeadRepo{}, &fakeNoteRepo{})

	_, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.Error(t, err)
}

func TestLeadImport_FailedChunkDoesNotAbortRun(t *testing.T) {
	var b strings.Builder
	b.WriteString("Company Name,Notes\n")
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "Company %d,note %d\n", i, i)
	}

	leads := &fakeLeadRepo{failAtCall: 2}
	notes := &fakeNoteRepo{}
	svc := newImportService(leads, notes)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(b.String()), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 150, res.Outcome.Success)
	assert.Equal(t, 100, res.Outcome.Failed)
	assert.Equal(t, 3, leads.batchCalls)
	assert.Equal(t, []int{100, 100, 50}, leads.insertSizes)

	// notes only attach to rows that were actually created
	assert.Len(t, notes.notes, 150)
	assert.Equal(t, 2, notes.batchCalls)
}

func TestLeadImport_NoteFailureLeavesOutcomeAlone(t *testing.T) {
	csv := "Company Name,Notes\nApex Exotics,call back friday\n"

	leads := &fakeLeadRepo{}
	notes := &fakeNoteRepo{failAll: true}
	svc := newImportService(leads, notes)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Outcome.Success)
	assert.Equal(t, 0, res.Outcome.Failed)
	assert.Empty(t, notes.notes)
}

func TestLeadImport_ExplicitMappingOverridesAliases(t *testing.T) {
	csv := "Firm,Reach\nApex Exotics,sales@apex.io\n"

	leads := &fakeLeadRepo{}
	svc := newImportService(leads, &fakeNoteRepo{})

	mapping := map[string]string{
		"Firm":  "company_name",
		"Reach": "contact_email",
	}
	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), mapping, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Outcome.Success)
	require.Len(t, leads.leads, 1)
	require.NotNil(t, leads.leads[0].Email())
	assert.Equal(t, "sales@apex.io", *leads.leads[0].Email())
}

func TestLeadImport_Preview(t *testing.T) {
	csv := "Company Name,Email,Mystery Column\nApex Exotics,sales@apex.io,x\n"

	svc := newImportService(&fakeLeadRepo{}, &fakeNoteRepo{})

	preview, err := svc.Preview(context.Background(), []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, "leads", preview.Profile)
	assert.Equal(t, 1, preview.RowCount)
	require.Len(t, preview.Columns, 3)
	assert.Equal(t, "company_name", preview.Columns[0].FieldKey)
	assert.Equal(t, "contact_email", preview.Columns[1].FieldKey)
	assert.Empty(t, preview.Columns[2].FieldKey)
}
