package metrics

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *Metrics
)

// sharedMetrics registers against the default registry once per test
// binary; promauto panics on duplicate registration.
func sharedMetrics() *Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = New("votely_metrics_test")
	})
	return testMetrics
}

func TestNew(t *testing.T) {
	m := sharedMetrics()
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.HTTPRequestsInFlight)
	assert.NotNil(t, m.PaymentsTotal)
	assert.NotNil(t, m.PaymentRetriesTotal)
	assert.NotNil(t, m.GatewayBreakerOpen)
	assert.NotNil(t, m.VerificationsTotal)
	assert.NotNil(t, m.WebhookEventsTotal)
	assert.NotNil(t, m.RoutingDecisionsTotal)
	assert.NotNil(t, m.CheckoutTransitionsTotal)
	assert.NotNil(t, m.CheckoutSessionsActive)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.CacheMissesTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m := sharedMetrics()

	m.RecordHTTPRequest("GET", "/api/v1/subscriptions/plans", 200, 100*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/create", 422, 50*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/create", 502, 200*time.Millisecond)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/subscriptions/plans", "2xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/create", "4xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/create", "5xx")))
}

func TestRecordPayment(t *testing.T) {
	m := sharedMetrics()

	m.RecordPayment("stripe", "success", time.Second)
	m.RecordPayment("stripe", "success", time.Second)
	m.RecordPayment("paddle", "error", 500*time.Millisecond)
	m.RecordPaymentRetry("stripe")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.PaymentsTotal.WithLabelValues("stripe", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PaymentsTotal.WithLabelValues("paddle", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PaymentRetriesTotal.WithLabelValues("stripe")))
}

func TestSetBreakerOpen(t *testing.T) {
	m := sharedMetrics()

	m.SetBreakerOpen("paddle", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GatewayBreakerOpen.WithLabelValues("paddle")))

	m.SetBreakerOpen("paddle", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.GatewayBreakerOpen.WithLabelValues("paddle")))
}

func TestRecordVerification(t *testing.T) {
	m := sharedMetrics()

	m.RecordVerification("stripe", true)
	m.RecordVerification("stripe", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.VerificationsTotal.WithLabelValues("stripe", "verified")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.VerificationsTotal.WithLabelValues("stripe", "not_verified")))
}

func TestRecordWebhookEvent(t *testing.T) {
	m := sharedMetrics()

	m.RecordWebhookEvent("paddle", "transaction.completed", "processed")
	m.RecordWebhookEvent("paddle", "transaction.completed", "duplicate")

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("paddle", "transaction.completed", "processed")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("paddle", "transaction.completed", "duplicate")))
}

func TestRecordRoutingAndTransitions(t *testing.T) {
	m := sharedMetrics()

	m.RecordRoutingDecision("EU", "paddle")
	m.RecordCheckoutTransition("plan-selection", "gateway-selection")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RoutingDecisionsTotal.WithLabelValues("EU", "paddle")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.CheckoutTransitionsTotal.WithLabelValues("plan-selection", "gateway-selection")))
}

func TestRecordCache(t *testing.T) {
	m := sharedMetrics()

	m.RecordCacheHit("gateway_config")
	m.RecordCacheMiss("gateway_config")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("gateway_config")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("gateway_config")))
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "unknown"},
		{0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCodeToString(tt.code))
		})
	}
}
