package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for rollcall
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	AccessRequestsTotal prometheus.CounterVec
	VoiceGrantsTotal    prometheus.Counter
	VoiceRevokesTotal   prometheus.CounterVec
	DiscordFailures     prometheus.CounterVec
	RoleSyncsTotal      prometheus.CounterVec
	EventsCleanedTotal  prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all
// metrics. Construct it exactly once per process; promauto registers
// globally.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollcall_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rollcall_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rollcall_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		AccessRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollcall_access_requests_total",
				Help: "Event access requests by outcome",
			},
			[]string{"outcome"},
		),
		VoiceGrantsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rollcall_voice_grants_total",
				Help: "Successful voice channel grants",
			},
		),
		VoiceRevokesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollcall_voice_revokes_total",
				Help: "Voice channel revocations by trigger",
			},
			[]string{"trigger"},
		),
		DiscordFailures: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollcall_discord_failures_total",
				Help: "Failed Discord API calls by operation",
			},
			[]string{"operation"},
		),
		RoleSyncsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollcall_role_syncs_total",
				Help: "Role sync runs by result",
			},
			[]string{"result"},
		),
		EventsCleanedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rollcall_events_cleaned_total",
				Help: "Events cleaned up (manual end, delete, or sweep)",
			},
		),
	}
}

// The Inc* helpers are nil-safe so services constructed without a registry
// (tests) skip instrumentation instead of panicking.

func (m *MetricsRegistry) IncAccessRequest(outcome string) {
	if m == nil {
		return
	}
	m.AccessRequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) IncVoiceGrant() {
	if m == nil {
		return
	}
	m.VoiceGrantsTotal.Inc()
}

func (m *MetricsRegistry) IncVoiceRevoke(trigger string) {
	if m == nil {
		return
	}
	m.VoiceRevokesTotal.WithLabelValues(trigger).Inc()
}

func (m *MetricsRegistry) IncDiscordFailure(operation string) {
	if m == nil {
		return
	}
	m.DiscordFailures.WithLabelValues(operation).Inc()
}

func (m *MetricsRegistry) IncRoleSync(result string) {
	if m == nil {
		return
	}
	m.RoleSyncsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsRegistry) IncEventCleaned() {
	if m == nil {
		return
	}
	m.EventsCleanedTotal.Inc()
}
