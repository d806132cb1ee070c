package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	offersExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_expired_total",
			Help: "Total number of offers transitioned to EXPIRED by the daily sweep",
		},
	)

	warningsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offer_expiry_warnings_sent_total",
			Help: "Total number of expiration warnings dispatched",
		},
	)

	warningsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offer_expiry_warnings_failed_total",
			Help: "Total number of expiration warnings that failed to dispatch",
		},
	)

	schedulerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_run_failures_total",
			Help: "Total number of failed scheduler runs",
		},
		[]string{"job"},
	)

	schedulerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "scheduler_run_duration_seconds",
			Help: "Duration of scheduler runs in seconds",
		},
		[]string{"job"},
	)
)

// Sink adapts the process-wide Prometheus collectors to the offer-service
// metrics port.
type Sink struct{}

func (Sink) AddOffersExpired(count int) {
	offersExpired.Add(float64(count))
}

func (Sink) AddWarningsSent(count int) {
	warningsSent.Add(float64(count))
}

func (Sink) AddWarningsFailed(count int) {
	warningsFailed.Add(float64(count))
}

func (Sink) IncSchedulerFailure(job string) {
	schedulerFailures.WithLabelValues(job).Inc()
}

func (Sink) ObserveSchedulerDuration(job string, elapsed time.Duration) {
	schedulerDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
