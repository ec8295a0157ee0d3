package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := TransactionsCreatedTotal
	InitMetrics()

	assert.Same(t, first, TransactionsCreatedTotal)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, PurchaseRetriesTotal)
	assert.NotNil(t, MessagesPublishedTotal)
}

func TestTransactionCounters(t *testing.T) {
	InitMetrics()

	before := counterValue(t, TransactionsCreatedTotal)
	TransactionsCreatedTotal.Inc()
	TransactionsCreatedTotal.Inc()
	assert.Equal(t, before+2, counterValue(t, TransactionsCreatedTotal))

	reason := TransactionsFailedTotal.WithLabelValues("insufficient_stock")
	before = counterValue(t, reason)
	reason.Inc()
	assert.Equal(t, before+1, counterValue(t, reason))
}

func TestCircuitBreakerStateGauge(t *testing.T) {
	InitMetrics()

	CircuitBreakerState.WithLabelValues("event-publisher").Set(1)
	CircuitBreakerState.WithLabelValues("other").Set(0)

	assert.Equal(t, 1.0, gaugeValue(t, CircuitBreakerState.WithLabelValues("event-publisher")))
	assert.Equal(t, 0.0, gaugeValue(t, CircuitBreakerState.WithLabelValues("other")))
}

func TestTransactionCreationDuration(t *testing.T) {
	InitMetrics()

	before := histogramCount(t, TransactionCreationDuration)
	TransactionCreationDuration.Observe(0.004)
	TransactionCreationDuration.Observe(0.2)
	assert.Equal(t, before+2, histogramCount(t, TransactionCreationDuration))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}
