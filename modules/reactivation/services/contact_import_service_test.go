package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/types"
)

type fakeContactRepo struct {
	contacts    []contact.Contact
	dedupChecks []string
	dedupErrAt  int
	batchCalls  int
	lastFind    *contact.FindParams
}

func (r *fakeContactRepo) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, int64, error) {
	r.lastFind = params
	return r.contacts, int64(len(r.contacts)), nil
}

func (r *fakeContactRepo) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	for _, c := range r.contacts {
		if c.ID() == id {
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *fakeContactRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	f := c.Fields()
	f.ID = uuid.New()
	created := contact.Hydrate(f)
	r.contacts = append(r.contacts, created)
	return created, nil
}

func (r *fakeContactRepo) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	for i, existing := range r.contacts {
		if existing.ID() == c.ID() {
			r.contacts[i] = c
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *fakeContactRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeContactRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.contacts)), nil
}

func (r *fakeContactRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone *string) (bool, error) {
	key := ""
	if email != nil {
		key += *email
	}
	key += "|"
	if phone != nil {
		key += *phone
	}
	r.dedupChecks = append(r.dedupChecks, key)
	if r.dedupErrAt > 0 && len(r.dedupChecks) == r.dedupErrAt {
		return false, fmt.Errorf("dedup query failed")
	}
	for _, c := range r.contacts {
		if email != nil && c.Email() != nil && *c.Email() == *email {
			return true, nil
		}
		if phone != nil && c.Phone() != nil && *c.Phone() == *phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeContactRepo) InsertBatch(ctx context.Context, contacts []contact.Contact) ([]uuid.UUID, error) {
	r.batchCalls++
	ids := make([]uuid.UUID, len(contacts))
	for i, c := range contacts {
		f := c.Fields()
		f.ID = uuid.New()
		ids[i] = f.ID
		r.contacts = append(r.contacts, contact.Hydrate(f))
	}
	return ids, nil
}

func (r *fakeContactRepo) MonthlyLapse(ctx context.Context, months int) ([]contact.MonthBucket, error) {
	return nil, nil
}

func (r *fakeContactRepo) Summarize(ctx context.Context) (contact.Summary, error) {
	return contact.Summary{}, nil
}

func seededContact(email, phone string) contact.Contact {
	f := contact.Fields{ID: uuid.New(), FullName: "Existing Renter"}
	if email != "" {
		f.Email = &email
	}
	if phone != "" {
		f.Phone = &phone
	}
	return contact.Hydrate(f)
}

func importCtx(role types.Role) context.Context {
	ctx := composables.WithTenantID(context.Background(), uuid.New())
	return composables.WithUser(ctx, types.User{
		ID:    uuid.New(),
		Email: "ops@velocity.test",
		Role:  role,
	})
}

func newImportService(repo *fakeContactRepo) *ContactImportService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewContactImportService(repo, log)
}

func TestContactImport_DedupByEmailOrPhone(t *testing.T) {
	csv := "Name,Email,Phone\n" +
		"Dana Cortez,dana@fastlane.io,\n" + // collides on email
		"Rico West,,+15550001111\n" + // collides on phone
		"Nils Berg,nils@alpine.se,+15559998888\n" // fresh

	repo := &fakeContactRepo{contacts: []contact.Contact{
		seededContact("dana@fastlane.io", ""),
		seededContact("", "+15550001111"),
	}}
	svc := newImportService(repo)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "winback.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Outcome.Success)
	assert.Equal(t, 2, res.Outcome.Duplicates)
	assert.Equal(t, 0, res.Outcome.Failed)
	// one insert call carrying only the fresh row
	assert.Equal(t, 1, repo.batchCalls)
	assert.Len(t, repo.contacts, 3)
}

func TestContactImport_DedupCheckPerRow(t *testing.T) {
	csv := "Name,Email\nA One,a@x.io\nB Two,b@x.io\nC Three,c@x.io\n"

	repo := &fakeContactRepo{}
	svc := newImportService(repo)

	_, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.io|", "b@x.io|", "c@x.io|"}, repo.dedupChecks)
}

func TestContactImport_DedupErrorFailsOnlyThatRow(t *testing.T) {
	csv := "Name,Email\nA One,a@x.io\nB Two,b@x.io\nC Three,c@x.io\n"

	repo := &fakeContactRepo{dedupErrAt: 2}
	svc := newImportService(repo)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Outcome.Success)
	assert.Equal(t, 1, res.Outcome.Failed)
	assert.Contains(t, res.Outcome.LastError, "dedup query failed")
	assert.Len(t, repo.contacts, 2)
}

func TestContactImport_RequiresContactMethodColumn(t *testing.T) {
	// full_name maps but neither email nor phone does
	csv := "Name,City\nDana Cortez,Miami\n"

	svc := newImportService(&fakeContactRepo{})

	_, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.Error(t, err)
}

func TestContactImport_ViewerCannotImport(t *testing.T) {
	csv := "Name,Email\nDana Cortez,dana@fastlane.io\n"

	repo := &fakeContactRepo{}
	svc := newImportService(repo)

	res, err := svc.Import(importCtx(types.RoleViewer), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Outcome.Failed)
	assert.Empty(t, repo.dedupChecks)
	assert.Zero(t, repo.batchCalls)
}

func TestContactImport_IntraRunCollisionsBothInserted(t *testing.T) {
	// dedup only consults rows persisted before the run started
	csv := "Name,Email\nDana Cortez,dana@fastlane.io\nDana C.,dana@fastlane.io\n"

	repo := &fakeContactRepo{}
	svc := newImportService(repo)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Outcome.Success)
	assert.Equal(t, 0, res.Outcome.Duplicates)
}

func TestContactImport_RecordFieldsCoerced(t *testing.T) {
	csv := "Name,Email,Last Rental,Total Spent,Rentals\n" +
		"Dana Cortez,DANA@FASTLANE.IO,03/15/2025,\"$48,200\",7\n"

	repo := &fakeContactRepo{}
	svc := newImportService(repo)

	res, err := svc.Import(importCtx(types.RoleOperator), []byte(csv), nil, "")
	require.NoError(t, err)
	require.Equal(t, 1, res.Outcome.Success)
	require.Len(t, repo.contacts, 1)

	c := repo.contacts[0]
	require.NotNil(t, c.Email())
	assert.Equal(t, "dana@fastlane.io", *c.Email())
	require.NotNil(t, c.LastRentalDate())
	assert.Equal(t, "2025-03-15", c.LastRentalDate().Format("2006-01-02"))
	require.NotNil(t, c.LifetimeValue())
	assert.Equal(t, "48200", c.LifetimeValue().String())
	require.NotNil(t, c.TotalRentals())
	assert.Equal(t, int64(7), *c.TotalRentals())
	require.NotNil(t, c.ImportBatchID())
	assert.Equal(t, res.BatchID, *c.ImportBatchID())
}
