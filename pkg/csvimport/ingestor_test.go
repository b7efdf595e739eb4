package csvimport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type fakeRow struct {
	name  string
	email string
	phone string
}

type fakeInserter struct {
	calls     [][]fakeRow
	failCalls map[int]bool // 1-based call number -> fail
}

func (f *fakeInserter) InsertBatch(_ context.Context, batch []fakeRow) ([]uuid.UUID, error) {
	f.calls = append(f.calls, batch)
	if f.failCalls[len(f.calls)] {
		return nil, errors.New("store unavailable")
	}
	ids := make([]uuid.UUID, len(batch))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids, nil
}

type fakeDeduper struct {
	existingPhones map[string]bool
	checked        []fakeRow
	err            error
}

func (f *fakeDeduper) IsDuplicate(_ context.Context, row fakeRow) (bool, error) {
	f.checked = append(f.checked, row)
	if f.err != nil {
		return false, f.err
	}
	return f.existingPhones[row.phone], nil
}

func makeRows(n int) []fakeRow {
	rows := make([]fakeRow, n)
	for i := range rows {
		rows[i] = fakeRow{name: fmt.Sprintf("row-%d", i)}
	}
	return rows
}

func TestIngest_BatchBoundaries(t *testing.T) {
	ins := &fakeInserter{}
	outcome, inserted := Ingest(context.Background(), makeRows(250), ins, IngestOptions[fakeRow]{BatchSize: 100})

	if len(ins.calls) != 3 {
		t.Fatalf("expected 3 insert calls, got %d", len(ins.calls))
	}
	for i, want := range []int{100, 100, 50} {
		if len(ins.calls[i]) != want {
			t.Fatalf("call %d: expected %d rows, got %d", i+1, want, len(ins.calls[i]))
		}
	}
	if outcome.Success != 250 || outcome.Failed != 0 {
		t.Fatalf("outcome: %+v", outcome)
	}
	if len(inserted) != 250 {
		t.Fatalf("inserted ids: %d", len(inserted))
	}
}

func TestIngest_ScenarioD_MiddleChunkFails(t *testing.T) {
	ins := &fakeInserter{failCalls: map[int]bool{2: true}}
	outcome, inserted := Ingest(context.Background(), makeRows(250), ins, IngestOptions[fakeRow]{BatchSize: 100})

	if outcome.Success != 150 {
		t.Fatalf("success: %d", outcome.Success)
	}
	if outcome.Failed != 100 {
		t.Fatalf("failed: %d", outcome.Failed)
	}
	if outcome.LastError == "" {
		t.Fatal("expected last error to be retained")
	}
	if len(ins.calls) != 3 {
		t.Fatalf("a failed chunk must not stop the run, got %d calls", len(ins.calls))
	}

	// IDs map back to the original indices of the surviving chunks.
	if len(inserted) != 150 {
		t.Fatalf("inserted ids: %d", len(inserted))
	}
	if inserted[0].Index != 0 || inserted[100].Index != 200 {
		t.Fatalf("index correspondence broken: first=%d, post-gap=%d", inserted[0].Index, inserted[100].Index)
	}
}

func TestIngest_ScenarioC_DuplicateNotInserted(t *testing.T) {
	ins := &fakeInserter{}
	ded := &fakeDeduper{existingPhones: map[string]bool{"5551234567": true}}

	rows := []fakeRow{{name: "Old Customer", phone: "5551234567"}}
	outcome, _ := Ingest(context.Background(), rows, ins, IngestOptions[fakeRow]{Deduper: ded})

	if outcome.Duplicates != 1 || outcome.Success != 0 {
		t.Fatalf("outcome: %+v", outcome)
	}
	if len(ins.calls) != 0 {
		t.Fatal("no insert call may be issued for a duplicate")
	}
}

func TestIngest_DedupChecksAreSequentialPerRecord(t *testing.T) {
	ins := &fakeInserter{}
	ded := &fakeDeduper{existingPhones: map[string]bool{"222": true}}

	rows := []fakeRow{{phone: "111"}, {phone: "222"}, {phone: "333"}}
	outcome, _ := Ingest(context.Background(), rows, ins, IngestOptions[fakeRow]{Deduper: ded})

	if len(ded.checked) != 3 {
		t.Fatalf("every candidate gets its own pre-check, got %d", len(ded.checked))
	}
	if outcome.Success != 2 || outcome.Duplicates != 1 {
		t.Fatalf("outcome: %+v", outcome)
	}
}

func TestIngest_DedupErrorCountsFailed(t *testing.T) {
	ins := &fakeInserter{}
	ded := &fakeDeduper{err: errors.New("lookup timeout")}

	outcome, _ := Ingest(context.Background(), makeRows(2), ins, IngestOptions[fakeRow]{Deduper: ded})
	if outcome.Failed != 2 {
		t.Fatalf("outcome: %+v", outcome)
	}
	if outcome.LastError != "lookup timeout" {
		t.Fatalf("last error: %q", outcome.LastError)
	}
}

func TestIngest_CountConservation(t *testing.T) {
	ins := &fakeInserter{failCalls: map[int]bool{1: true}}
	ded := &fakeDeduper{existingPhones: map[string]bool{"dup": true}}

	rows := makeRows(7)
	rows[2].phone = "dup"
	rows[5].phone = "dup"

	outcome, _ := Ingest(context.Background(), rows, ins, IngestOptions[fakeRow]{BatchSize: 3, Deduper: ded})

	total := outcome.Success + outcome.Duplicates + outcome.Failed + outcome.Skipped
	if total != len(rows) {
		t.Fatalf("count conservation violated: %+v sums to %d, want %d", outcome, total, len(rows))
	}
	if outcome.Duplicates != 2 {
		t.Fatalf("duplicates: %d", outcome.Duplicates)
	}
}

func TestIngest_ProgressReportedPerChunk(t *testing.T) {
	ins := &fakeInserter{}
	var reports [][2]int
	_, _ = Ingest(context.Background(), makeRows(5), ins, IngestOptions[fakeRow]{
		BatchSize: 2,
		Progress:  func(done, total int) { reports = append(reports, [2]int{done, total}) },
	})

	want := [][2]int{{2, 5}, {4, 5}, {5, 5}}
	if len(reports) != len(want) {
		t.Fatalf("reports: %v", reports)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Fatalf("report %d: got %v, want %v", i, reports[i], want[i])
		}
	}
}

func TestChunk(t *testing.T) {
	chunks := Chunk(makeRows(5), 2)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("chunks: %d", len(chunks))
	}
	if Chunk([]fakeRow{}, 2) != nil {
		t.Fatal("empty input yields no chunks")
	}
}
