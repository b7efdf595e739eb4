package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ImportRows counts pipeline outcomes per import profile. Result is one of
// success, duplicate, failed, skipped.
var ImportRows = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_import_rows_total",
		Help: "CSV import rows by profile and outcome",
	},
	[]string{"profile", "result"},
)

// ImportBatches counts store insert calls per import profile.
var ImportBatches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_import_batches_total",
		Help: "CSV import batch insert calls by profile and outcome",
	},
	[]string{"profile", "outcome"},
)
