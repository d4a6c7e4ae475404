package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsEnqueued tracks the outcome of every enqueue request
	// Labels: status (enqueued/scheduled/error)
	JobsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salescsv_jobs_enqueued_total",
		Help: "Total number of report jobs accepted or rejected by the enqueuer",
	}, []string{"status"})

	// GenerateDuration measures the full fetch-render-publish cycle
	// Storage is local disk so the upper buckets mostly reflect the row fetch
	GenerateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salescsv_generate_duration_seconds",
		Help:    "Duration of one report generation in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"status"})

	// ReportRows tracks how many rows each generated report carried
	ReportRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salescsv_report_rows",
		Help:    "Number of rows per generated report",
		Buckets: []float64{0, 10, 100, 1000, 10000, 100000},
	})

	// DuplicatesDropped counts redeliveries skipped by the consumer dedupe guard
	DuplicatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salescsv_duplicates_dropped_total",
		Help: "Messages acknowledged without processing because their id was already seen",
	})

	// HealthStatus provides a binary 0/1 signal for broker connectivity
	// 1 = Healthy, 0 = Unhealthy (connection to RabbitMQ is down)
	HealthStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "salescsv_broker_healthy",
		Help: "Current health of the broker link (1 for healthy, 0 for unhealthy)",
	})
)
