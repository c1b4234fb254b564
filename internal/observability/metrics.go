package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "well_construction"

// Metrics holds the Prometheus collectors for document builds.
type Metrics struct {
	Requests      *prometheus.CounterVec // labels: outcome={success,error}
	FatalErrors   *prometheus.CounterVec // labels: kind (see pipeline.Kind)
	DroppedRows   *prometheus.CounterVec // labels: table
	JoinedRows    *prometheus.CounterVec // labels: table
	BuildDuration prometheus.Histogram

	// Publication metrics, only moved when KAFKA_ENABLED is set.
	DocumentsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.FatalErrors,
		m.DroppedRows,
		m.JoinedRows,
		m.BuildDuration,
		m.DocumentsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Document build requests by outcome.",
		}, []string{"outcome"}),
		FatalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fatal_errors_total",
			Help:      "Builds aborted with an error document, by error kind.",
		}, []string{"kind"}),
		DroppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_rows_total",
			Help:      "Rows skipped because a key or numeric field failed to parse.",
		}, []string{"table"}),
		JoinedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joined_rows_total",
			Help:      "Rows joined into a document.",
		}, []string{"table"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete document build, file reads included.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DocumentsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_published_total",
			Help:      "Documents written to the publication topic, by outcome.",
		}, []string{"outcome"}),
	}
}
