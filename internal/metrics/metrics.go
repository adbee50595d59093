package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Conversation metrics
	TurnsTotal          *prometheus.CounterVec
	TurnDurationSeconds *prometheus.HistogramVec

	// LLM fallback metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsSwept  prometheus.Counter

	// Catalog metrics
	CatalogCourses prometheus.Gauge

	// Transport metrics
	MessagesSentTotal     *prometheus.CounterVec
	MessagesReceivedTotal prometheus.Counter

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Conversation metrics
		TurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_turns_total",
				Help: "Total number of handled conversation turns by matcher and status",
			},
			[]string{"matcher", "status"}, // status: success, error
		),

		TurnDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "camila_turn_duration_seconds",
				Help:    "Turn processing duration in seconds by matcher",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30}, // fast matchers, slow LLM turns
			},
			[]string{"matcher"},
		),

		// LLM fallback metrics
		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_llm_requests_total",
				Help: "Total number of LLM fallback calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, rate_limited
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "camila_llm_duration_seconds",
				Help:    "LLM call duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30}, // matches the LLM request timeout
			},
			[]string{"provider"},
		),

		// Session metrics
		SessionsActive: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "camila_sessions_active",
				Help: "Number of live conversation sessions",
			},
		),

		SessionsSwept: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "camila_sessions_swept_total",
				Help: "Total number of sessions removed by the TTL sweeper",
			},
		),

		// Catalog metrics
		CatalogCourses: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "camila_catalog_courses",
				Help: "Number of courses loaded from the catalog file",
			},
		),

		// Transport metrics
		MessagesSentTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_messages_sent_total",
				Help: "Total number of outbound WhatsApp messages by status",
			},
			[]string{"status"}, // status: success, error
		),

		MessagesReceivedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "camila_messages_received_total",
				Help: "Total number of inbound WhatsApp text messages",
			},
		),

		// Rate limiter metrics
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camila_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: llm
		),
	}

	return m
}

// RecordTurn records a handled conversation turn
func (m *Metrics) RecordTurn(matcher, status string, duration float64) {
	m.TurnsTotal.WithLabelValues(matcher, status).Inc()
	m.TurnDurationSeconds.WithLabelValues(matcher).Observe(duration)
}

// RecordLLMRequest records an LLM fallback call
func (m *Metrics) RecordLLMRequest(provider, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// SetSessionsActive updates the live session gauge
func (m *Metrics) SetSessionsActive(n int) {
	m.SessionsActive.Set(float64(n))
}

// RecordSessionsSwept adds to the swept session counter
func (m *Metrics) RecordSessionsSwept(n int) {
	m.SessionsSwept.Add(float64(n))
}

// SetCatalogCourses records the loaded catalog size
func (m *Metrics) SetCatalogCourses(n int) {
	m.CatalogCourses.Set(float64(n))
}

// RecordMessageSent records an outbound message attempt
func (m *Metrics) RecordMessageSent(status string) {
	m.MessagesSentTotal.WithLabelValues(status).Inc()
}

// RecordMessageReceived records an inbound text message
func (m *Metrics) RecordMessageReceived() {
	m.MessagesReceivedTotal.Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}
