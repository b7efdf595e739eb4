package services

import (
	"context"
	_ "embed"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/aggregates/lead"
	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/note"
	"github.com/velocity-exotics/crm-platform/pkg/composables"
	"github.com/velocity-exotics/crm-platform/pkg/csvimport"
	"github.com/velocity-exotics/crm-platform/pkg/metrics"
)

//go:embed profiles/leads.yaml
var leadsProfileYAML []byte

// LeadsProfile is the versioned field table for lead imports.
var LeadsProfile = csvimport.MustLoadProfile(leadsProfileYAML)

// ImportPreview is the dry-run response: the proposed column mapping plus a
// few sample rows, so the operator can correct bindings before committing.
type ImportPreview struct {
	Profile  string                  `json:"profile"`
	Version  int                     `json:"version"`
	Columns  []csvimport.ColumnMatch `json:"columns"`
	RowCount int                     `json:"row_count"`
	Sample   [][]string              `json:"sample"`
}

const previewSampleRows = 5

func buildPreview(table csvimport.RawTable, p *csvimport.Profile) *ImportPreview {
	sample := table.Rows
	if len(sample) > previewSampleRows {
		sample = sample[:previewSampleRows]
	}
	return &ImportPreview{
		Profile:  p.Name,
		Version:  p.Version,
		Columns:  csvimport.AutoMap(table.Headers, p),
		RowCount: len(table.Rows),
		Sample:   sample,
	}
}

// LeadImportResult ties an import outcome to the batch id stamped on every
// lead the run created.
type LeadImportResult struct {
	BatchID uuid.UUID         `json:"batch_id"`
	Outcome csvimport.Outcome `json:"outcome"`
}

type LeadImportService struct {
	leads lead.Repository
	notes note.Repository
	log   *logrus.Logger
}

func NewLeadImportService(leads lead.Repository, notes note.Repository, log *logrus.Logger) *LeadImportService {
	return &LeadImportService{
		leads: leads,
		notes: notes,
		log:   log,
	}
}

func (s *LeadImportService) Preview(ctx context.Context, data []byte) (*ImportPreview, error) {
	table, err := csvimport.DecodeAndTokenize(data)
	if err != nil {
		return nil, err
	}
	return buildPreview(table, LeadsProfile), nil
}

func (s *LeadImportService) PreviewXLSX(ctx context.Context, r io.Reader) (*ImportPreview, error) {
	table, err := csvimport.TokenizeXLSX(r)
	if err != nil {
		return nil, err
	}
	return buildPreview(table, LeadsProfile), nil
}

// Import runs the full pipeline: decode, map, build, ingest. A nil mapping
// means "accept the proposed auto-mapping". Rows rejected by the required
// field gate are reported as skipped; a store failure fails only the chunk
// it happened in.
func (s *LeadImportService) Import(ctx context.Context, data []byte, mapping csvimport.Mapping, sourceName string) (*LeadImportResult, error) {
	table, err := csvimport.DecodeAndTokenize(data)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table, mapping, sourceName)
}

func (s *LeadImportService) ImportXLSX(ctx context.Context, r io.Reader, mapping csvimport.Mapping, sourceName string) (*LeadImportResult, error) {
	table, err := csvimport.TokenizeXLSX(r)
	if err != nil {
		return nil, err
	}
	return s.importTable(ctx, table, mapping, sourceName)
}

func (s *LeadImportService) importTable(ctx context.Context, table csvimport.RawTable, mapping csvimport.Mapping, sourceName string) (*LeadImportResult, error) {
	user, err := composables.UseUser(ctx)
	if err != nil || !user.CanImport() {
		outcome := csvimport.Outcome{
			Failed:    len(table.Rows),
			LastError: "user is not permitted to import leads",
		}
		metrics.ImportRows.WithLabelValues(LeadsProfile.Name, "failed").Add(float64(outcome.Failed))
		return &LeadImportResult{Outcome: outcome}, nil
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	if mapping == nil {
		mapping = csvimport.BuildMapping(csvimport.AutoMap(table.Headers, LeadsProfile))
	}
	if err := mapping.Validate(LeadsProfile); err != nil {
		return nil, err
	}

	build := csvimport.BuildRecords(table, mapping, LeadsProfile)

	batchID := uuid.New()
	leads := make([]lead.Lead, len(build.Records))
	for i, rec := range build.Records {
		leads[i] = leadFromRecord(tenantID, rec, sourceName, batchID)
	}

	outcome, inserted := csvimport.Ingest(ctx, leads, &leadInserter{repo: s.leads}, csvimport.IngestOptions[lead.Lead]{})
	outcome.Skipped = build.Skipped

	s.insertImportNotes(ctx, tenantID, build.Records, inserted)

	metrics.ImportRows.WithLabelValues(LeadsProfile.Name, "success").Add(float64(outcome.Success))
	metrics.ImportRows.WithLabelValues(LeadsProfile.Name, "failed").Add(float64(outcome.Failed))
	metrics.ImportRows.WithLabelValues(LeadsProfile.Name, "skipped").Add(float64(outcome.Skipped))

	s.log.WithFields(logrus.Fields{
		"profile":  LeadsProfile.Name,
		"batch_id": batchID,
		"success":  outcome.Success,
		"failed":   outcome.Failed,
		"skipped":  outcome.Skipped,
	}).Info("lead import finished")

	return &LeadImportResult{BatchID: batchID, Outcome: outcome}, nil
}

// insertImportNotes attaches note columns to the leads that actually got
// created. A failed note chunk is logged and dropped; it never changes the
// import outcome.
func (s *LeadImportService) insertImportNotes(ctx context.Context, tenantID uuid.UUID, records []csvimport.Record, inserted []csvimport.InsertedID) {
	var pending []note.Note
	for _, ins := range inserted {
		body := records[ins.Index].Note
		if body == "" {
			continue
		}
		pending = append(pending, note.New(tenantID, ins.ID, body))
	}
	for _, chunk := range csvimport.Chunk(pending, csvimport.DefaultBatchSize) {
		if err := s.notes.InsertBatch(ctx, chunk); err != nil {
			s.log.WithError(err).WithField("notes", len(chunk)).Warn("lead import: note chunk insert failed")
		}
	}
}

func leadFromRecord(tenantID uuid.UUID, rec csvimport.Record, sourceName string, batchID uuid.UUID) lead.Lead {
	f := lead.Fields{
		TenantID:      tenantID,
		CompanyName:   rec.Text("company_name"),
		ContactName:   rec.Text("contact_name"),
		Email:         optionalRecord(rec, "contact_email"),
		Phone:         optionalRecord(rec, "contact_phone"),
		Title:         optionalRecord(rec, "title"),
		Website:       optionalRecord(rec, "website"),
		Location:      optionalRecord(rec, "location"),
		Source:        optionalRecord(rec, "source"),
		Metadata:      rec.Meta,
		ImportBatchID: &batchID,
	}
	if sourceName != "" {
		f.ImportSource = &sourceName
	}
	if v, ok := rec.Number("estimated_value"); ok {
		d := decimal.NewFromFloat(v)
		f.EstimatedValue = &d
	}
	if n, ok := rec.Int("fleet_size"); ok {
		f.FleetSize = &n
	}
	if d, ok := rec.Date("next_follow_up"); ok {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			f.NextFollowUp = &t
		}
	}
	return lead.New(f)
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

// leadInserter adapts the repository to the generic ingestor and counts
// batch outcomes for the metrics endpoint.
type leadInserter struct {
	repo lead.Repository
}

func (a *leadInserter) InsertBatch(ctx context.Context, batch []lead.Lead) ([]uuid.UUID, error) {
	ids, err := a.repo.InsertBatch(ctx, batch)
	if err != nil {
		metrics.ImportBatches.WithLabelValues(LeadsProfile.Name, "failed").Inc()
		return nil, err
	}
	metrics.ImportBatches.WithLabelValues(LeadsProfile.Name, "ok").Inc()
	return ids, nil
}
