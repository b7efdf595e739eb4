package services

import (
	"context"
	_ "embed"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/csvimport"
	"github.com/velocity-exotics/crm-platform/pkg/metrics"
)

//go:embed profiles/contacts.yaml
var contactsProfileYAML []byte

// ContactsProfile is the versioned field table for reactivation contact
// imports. Contacts additionally demand a mapped email or phone column:
// a contact the desk cannot reach is not worth storing.
var ContactsProfile = csvimport.MustLoadProfile(contactsProfileYAML)

type ImportPreview struct {
	Profile  string                  `json:"profile"`
	Version  int                     `json:"version"`
	Columns  []csvimport.ColumnMatch `json:"columns"`
	RowCount int                     `json:"row_count"`
	Sample   [][]string              `json:"sample"`
}

const previewSampleRows = 5

type ContactImportResult struct {
	BatchID uuid.UUID         `json:"batch_id"`
	Outcome csvimport.Outcome `json:"outcome"`
}

type ContactImportService struct {
	contacts contact.Repository
	log      *logrus.Logger
}

func NewContactImportService(contacts contact.Repository, log *logrus.Logger) *ContactImportService {
	return &ContactImportService{
		contacts: contacts,
		log:      log,
	}
}

func (s *ContactImportService) Preview(ctx context.Context, data []byte) (*ImportPreview, error) {
	table, err := csvimport.DecodeAndTokenize(data)
	if err != nil {
		return nil, err
	}
	return previewTable(table), nil
}

func (s *ContactImportService) PreviewXLSX(ctx context.Context, r io.Reader) (*ImportPreview, error) {
	table, err := csvimport.TokenizeXLSX(r)
	if err != nil {
		return nil, err
	}
	return previewTable(table), nil
}

func previewTable(table csvimport.RawTable) *ImportPreview {
	sample := table.Rows
	if len(sample) > previewSampleRows {
		sample = sample[:previewSampleRows]
	}
	return &ImportPreview{
		Profile:  ContactsProfile.Name,
		Version:  ContactsProfile.Version,
		Columns:  csvimport.AutoMap(table.Headers, ContactsProfile),
		RowCount: len(table.Rows),
		Sample:   sample,
	}
}

func (s *ContactImportService) Import(ctx context.Context, data []byte, mapping csvimport.Mapping, sourceName string) (*ContactImportResult, error) {
	table, err := csvimport.DecodeAndTokenize(data)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table, mapping, sourceName)
}

func (s *ContactImportService) ImportXLSX(ctx context.Context, r io.Reader, mapping csvimport.Mapping, sourceName string) (*ContactImportResult, error) {
	table, err := csvimport.TokenizeXLSX(r)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table, mapping, sourceName)
}

// importTable runs the contact pipeline. Unlike leads, every candidate is
// checked against the store first: a row whose email or phone already
// belongs to a contact in the tenant is counted as a duplicate and dropped.
func (s *ContactImportService) importTable(ctx context.Context, table csvimport.RawTable, mapping csvimport.Mapping, sourceName string) (*ContactImportResult, error) {
	user, err := composables.UseUser(ctx)
	if err != nil || !user.CanImport() {
		outcome := csvimport.Outcome{
			Failed:    len(table.Rows),
			LastError: "user is not permitted to import contacts",
		}
		metrics.ImportRows.WithLabelValues(ContactsProfile.Name, "failed").Add(float64(outcome.Failed))
		return &ContactImportResult{Outcome: outcome}, nil
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	if mapping == nil {
		mapping = csvimport.BuildMapping(csvimport.AutoMap(table.Headers, ContactsProfile))
	}
	if err := mapping.Validate(ContactsProfile); err != nil {
		return nil, err
	}

	build := csvimport.BuildRecords(table, mapping, ContactsProfile)

	batchID := uuid.New()
	contacts := make([]contact.Contact, len(build.Records))
	for i, rec := range build.Records {
		contacts[i] = contactFromRecord(tenantID, rec, sourceName, batchID)
	}

	outcome, _ := csvimport.Ingest(ctx, contacts, &contactInserter{repo: s.contacts}, csvimport.IngestOptions[contact.Contact]{
		Deduper: &contactDeduper{repo: s.contacts},
	})
	outcome.Skipped = build.Skipped

	metrics.ImportRows.WithLabelValues(ContactsProfile.Name, "success").Add(float64(outcome.Success))
	metrics.ImportRows.WithLabelValues(ContactsProfile.Name, "duplicate").Add(float64(outcome.Duplicates))
	metrics.ImportRows.WithLabelValues(ContactsProfile.Name, "failed").Add(float64(outcome.Failed))
	metrics.ImportRows.WithLabelValues(ContactsProfile.Name, "skipped").Add(float64(outcome.Skipped))

	s.log.WithFields(logrus.Fields{
		"profile":    ContactsProfile.Name,
		"batch_id":   batchID,
		"success":    outcome.Success,
		"duplicates": outcome.Duplicates,
		"failed":     outcome.Failed,
		"skipped":    outcome.Skipped,
	}).Info("contact import finished")

	return &ContactImportResult{BatchID: batchID, Outcome: outcome}, nil
}

func contactFromRecord(tenantID uuid.UUID, rec csvimport.Record, sourceName string, batchID uuid.UUID) contact.Contact {
	f := contact.Fields{
		TenantID:      tenantID,
		FullName:      rec.Text("full_name"),
		Email:         optionalRecord(rec, "email"),
		Phone:         optionalRecord(rec, "phone"),
		Company:       optionalRecord(rec, "company"),
		Location:      optionalRecord(rec, "location"),
		Metadata:      rec.Meta,
		ImportBatchID: &batchID,
	}
	if sourceName != "" {
		f.ImportSource = &sourceName
	}
	if v, ok := rec.Number("lifetime_value"); ok {
		d := decimal.NewFromFloat(v)
		f.LifetimeValue = &d
	}
	if n, ok := rec.Int("total_rentals"); ok {
		f.TotalRentals = &n
	}
	if d, ok := rec.Date("last_rental_date"); ok {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.LastRentalDate = &t
		}
	}
	return contact.New(f)
}

func optionalRecord(rec csvimport.Record, key string) *string {
	if !rec.Has(key) {
		return nil
	}
	v := rec.Text(key)
	if v == "" {
		return nil
	}
	return &v
}

type contactInserter struct {
	repo contact.Repository
}

func (a *contactInserter) InsertBatch(ctx context.Context, batch []contact.Contact) ([]uuid.UUID, error) {
	ids, err := a.repo.InsertBatch(ctx, batch)
	if err != nil {
		metrics.ImportBatches.WithLabelValues(ContactsProfile.Name, "failed").Inc()
		return nil, err
	}
	metrics.ImportBatches.WithLabelValues(ContactsProfile.Name, "ok").Inc()
	return ids, nil
}

type contactDeduper struct {
	repo contact.Repository
}

func (d *contactDeduper) IsDuplicate(ctx context.Context, c contact.Contact) (bool, error) {
	return d.repo.ExistsByEmailOrPhone(ctx, c.Email(), c.Phone())
}
