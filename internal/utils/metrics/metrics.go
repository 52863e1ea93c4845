package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Payment metrics
	PaymentsTotal          *prometheus.CounterVec
	PaymentDuration        *prometheus.HistogramVec
	PaymentRetriesTotal    *prometheus.CounterVec
	GatewayBreakerOpen     *prometheus.GaugeVec
	VerificationsTotal     *prometheus.CounterVec
	WebhookEventsTotal     *prometheus.CounterVec

	// Routing metrics
	RoutingDecisionsTotal *prometheus.CounterVec

	// Checkout metrics
	CheckoutTransitionsTotal *prometheus.CounterVec
	CheckoutSessionsActive   prometheus.Gauge

	// Database metrics
	DBQueryDuration   *prometheus.HistogramVec
	DBConnectionsOpen prometheus.Gauge

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "votely"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Payment metrics
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "total",
				Help:      "Total number of payment creation attempts",
			},
			[]string{"gateway", "status"},
		),
		PaymentDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "duration_seconds",
				Help:      "Gateway payment call duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"gateway"},
		),
		PaymentRetriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "retries_total",
				Help:      "Total number of retried gateway payment calls",
			},
			[]string{"gateway"},
		),
		GatewayBreakerOpen: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "breaker_open",
				Help:      "Circuit breaker state per gateway (1=open, 0=closed)",
			},
			[]string{"gateway"},
		),
		VerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "verifications_total",
				Help:      "Total number of payment verification calls",
			},
			[]string{"gateway", "result"},
		),
		WebhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payments",
				Name:      "webhook_events_total",
				Help:      "Total number of gateway webhook events received",
			},
			[]string{"provider", "event", "outcome"},
		),

		// Routing metrics
		RoutingDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "routing",
				Name:      "decisions_total",
				Help:      "Total number of gateway routing decisions",
			},
			[]string{"region", "gateway"},
		),

		// Checkout metrics
		CheckoutTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "transitions_total",
				Help:      "Total number of checkout step transitions",
			},
			[]string{"from", "to"},
		),
		CheckoutSessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "sessions_active",
				Help:      "Number of checkout sessions currently persisted",
			},
		),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DBConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections_open",
				Help:      "Number of open database connections",
			},
		),

		// Cache metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPayment records a gateway payment creation attempt.
func (m *Metrics) RecordPayment(gateway, status string, duration time.Duration) {
	m.PaymentsTotal.WithLabelValues(gateway, status).Inc()
	m.PaymentDuration.WithLabelValues(gateway).Observe(duration.Seconds())
}

// RecordPaymentRetry records a retried gateway call.
func (m *Metrics) RecordPaymentRetry(gateway string) {
	m.PaymentRetriesTotal.WithLabelValues(gateway).Inc()
}

// SetBreakerOpen sets the circuit breaker state for a gateway.
func (m *Metrics) SetBreakerOpen(gateway string, open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	m.GatewayBreakerOpen.WithLabelValues(gateway).Set(value)
}

// RecordVerification records a payment verification call.
func (m *Metrics) RecordVerification(gateway string, verified bool) {
	result := "not_verified"
	if verified {
		result = "verified"
	}
	m.VerificationsTotal.WithLabelValues(gateway, result).Inc()
}

// RecordWebhookEvent records a gateway webhook delivery.
func (m *Metrics) RecordWebhookEvent(provider, event, outcome string) {
	m.WebhookEventsTotal.WithLabelValues(provider, event, outcome).Inc()
}

// RecordRoutingDecision records a gateway routing decision.
func (m *Metrics) RecordRoutingDecision(region, gateway string) {
	m.RoutingDecisionsTotal.WithLabelValues(region, gateway).Inc()
}

// RecordCheckoutTransition records a checkout step transition.
func (m *Metrics) RecordCheckoutTransition(from, to string) {
	m.CheckoutTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordDBQuery records a database query.
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
