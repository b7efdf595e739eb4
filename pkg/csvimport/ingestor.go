package csvimport

import (
	"context"

	"github.com/google/uuid"
)

// DefaultBatchSize is the fixed chunk size used by every import call site.
const DefaultBatchSize = 100

// Inserter persists one batch and returns the generated identifiers in row
// order.
type Inserter[T any] interface {
	InsertBatch(ctx context.Context, batch []T) ([]uuid.UUID, error)
}

// Deduper reports whether an equivalent row already exists in the store.
// Checks run sequentially, one candidate at a time, before batching.
type Deduper[T any] interface {
	IsDuplicate(ctx context.Context, item T) (bool, error)
}

// Outcome aggregates an import run. Success + Duplicates + Failed + Skipped
// always equals the number of input data rows.
type Outcome struct {
	Success    int    `json:"success"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	LastError  string `json:"last_error,omitempty"`
}

// InsertedID links a generated identifier back to the candidate's index in
// the ingested slice, so secondary linked records attach correctly even when
// some chunks fail.
type InsertedID struct {
	Index int
	ID    uuid.UUID
}

// Progress is invoked after each chunk resolves with processed and total
// candidate counts.
type Progress func(done, total int)

type IngestOptions[T any] struct {
	BatchSize int
	Deduper   Deduper[T]
	Progress  Progress
}

// Ingest persists candidates in fixed-size sequential batches. A chunk
// failure marks every row of that chunk failed and the run continues with
// the next chunk; failed chunks are never retried. When a Deduper is set,
// each candidate is pre-checked one at a time and duplicates are dropped
// before batching. Dedup only sees rows persisted before this run started:
// two candidates inside the same run that collide are both inserted.
func Ingest[T any](ctx context.Context, items []T, ins Inserter[T], opts IngestOptions[T]) (Outcome, []InsertedID) {
	var outcome Outcome

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	type candidate struct {
		index int
		item  T
	}
	pending := make([]candidate, 0, len(items))
	for i, item := range items {
		if opts.Deduper != nil {
			dup, err := opts.Deduper.IsDuplicate(ctx, item)
			if err != nil {
				outcome.Failed++
				outcome.LastError = err.Error()
				continue
			}
			if dup {
				outcome.Duplicates++
				continue
			}
		}
		pending = append(pending, candidate{index: i, item: item})
	}

	var inserted []InsertedID
	total := len(pending)
	done := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		chunk := pending[start:end]

		batch := make([]T, len(chunk))
		for i, c := range chunk {
			batch[i] = c.item
		}

		ids, err := ins.InsertBatch(ctx, batch)
		if err != nil {
			outcome.Failed += len(chunk)
			outcome.LastError = err.Error()
		} else {
			outcome.Success += len(chunk)
			for i, c := range chunk {
				if i < len(ids) {
					inserted = append(inserted, InsertedID{Index: c.index, ID: ids[i]})
				}
			}
		}

		done += len(chunk)
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	return outcome, inserted
}

// Chunk partitions items into fixed-size slices, the same discipline Ingest
// uses. Exposed for secondary linked-record insertion.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
