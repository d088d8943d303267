package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simpleimport_search_seconds",
		Help:    "Time spent walking the project tree for one candidate search.",
		Buckets: prometheus.DefBuckets,
	})

	SearchCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simpleimport_search_candidates",
		Help:    "Number of candidate files returned by one search.",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
	})

	DirectoriesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simpleimport_search_directories_pruned_total",
		Help: "Directories skipped because they are excluded.",
	})

	SpecsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simpleimport_specs_resolved_total",
		Help: "Import specs resolved, by how the module was decided.",
	}, []string{"outcome"})

	AlreadyImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simpleimport_already_imported_total",
		Help: "Specs merged into an existing import instead of being inserted.",
	})

	EditsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simpleimport_edits_total",
		Help: "Text edits handed back to the host editor, by kind.",
	}, []string{"kind"})
)

// Resolution outcomes used as the SpecsResolved label.
const (
	OutcomeLiteral   = "literal"
	OutcomeSingle    = "single_candidate"
	OutcomeChosen    = "chosen"
	OutcomeNoMatch   = "no_match"
	OutcomeCancelled = "cancelled"

	// OutcomeAlreadyImported marks specs merged into an existing import.
	OutcomeAlreadyImported = "already_imported"
)

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
