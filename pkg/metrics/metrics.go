package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Contact submissions by outcome: sent, rejected, failed
	ContactSubmissionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	// Mail transport send latency (seconds)
	MailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_send_duration_seconds",
			Help:    "Outbound mail send duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"transport", "status"},
	)

	// Mail transport failures by error class
	MailSendErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_send_errors_total",
			Help: "Total number of outbound mail failures by error class",
		},
		[]string{"transport", "class"},
	)

	// Requests rejected by the rate limiter
	RateLimitedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_rate_limited_total",
			Help: "Total number of contact requests rejected by the rate limiter",
		},
	)
)

// RecordHTTPRequestDuration records HTTP request latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementContactSubmission counts a submission outcome
func IncrementContactSubmission(outcome string) {
	ContactSubmissionCount.WithLabelValues(outcome).Inc()
}

// RecordMailSend records one transport attempt
func RecordMailSend(transport, status string, duration time.Duration) {
	MailSendDuration.WithLabelValues(transport, status).Observe(duration.Seconds())
}

// IncrementMailSendError counts a transport failure
func IncrementMailSendError(transport, class string) {
	MailSendErrorCount.WithLabelValues(transport, class).Inc()
}

// IncrementRateLimited counts a rate-limited request
func IncrementRateLimited() {
	RateLimitedCount.Inc()
}
