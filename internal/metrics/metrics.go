package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring check volume and ingestion throughput.
var (
	ChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_checks_total",
			Help: "Total number of account availability checks evaluated",
		},
	)

	ChecksUnavailableTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_checks_unavailable_total",
			Help: "Total number of checks that returned unavailable",
		},
	)

	CheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "availability_check_duration_seconds",
			Help:    "Duration of single availability checks",
			Buckets: prometheus.DefBuckets,
		},
	)

	ImportedRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_imported_rows_total",
			Help: "Total number of order rows imported",
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(ChecksTotal)
	prometheus.MustRegister(ChecksUnavailableTotal)
	prometheus.MustRegister(CheckDuration)
	prometheus.MustRegister(ImportedRowsTotal)
}
