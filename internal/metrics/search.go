package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SearchDuration tracks per-kind query latency.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_duration_seconds",
			Help:      "Search query duration per entity kind",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// DocumentsIndexed counts documents written to the index.
	DocumentsIndexed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "documents_indexed_total",
			Help:      "Total documents upserted into the search index",
		},
		[]string{"kind"},
	)

	// IndexEvents counts processed index events by operation and outcome.
	IndexEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "index_events_total",
			Help:      "Index events processed, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// RegisterSearchMetrics registers the search and indexing collectors
// explicitly (no init()).
func RegisterSearchMetrics() {
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(DocumentsIndexed)
	prometheus.MustRegister(IndexEvents)
}
