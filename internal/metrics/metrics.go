package metrics

import "github.com/prometheus/client_golang/prometheus"

// Poll results.
const (
	PollOK           = "ok"
	PollError        = "error"
	PollAuthError    = "auth_error"
	PollSkipped      = "skipped_in_flight"
	PollNoCredential = "no_credential"
	PollDiscarded    = "discarded"
)

var (
	// PollTotal counts poll ticks by outcome.
	PollTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventify_bell_polls_total",
			Help: "Number of notification poll ticks by result",
		},
		[]string{"result"},
	)

	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventify_bell_poll_duration_seconds",
			Help:    "Duration of notification fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ReadStateRequests counts mark-read and clear-all requests by outcome.
	ReadStateRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventify_bell_read_state_requests_total",
			Help: "Read-state requests sent to the API",
		},
		[]string{"op", "result"},
	)

	Unread = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventify_bell_unread_notifications",
			Help: "Unread notifications after the last store change",
		},
	)
)

// Init registers the collectors with the default registry.
func Init() {
	prometheus.MustRegister(PollTotal, PollDuration, ReadStateRequests, Unread)
}
