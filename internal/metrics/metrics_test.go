package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

// TestCollectorsRegister exercises every collector once so a shadowed name
// or Opts typo (duplicate metric name, invalid label) surfaces as a panic
// here instead of at first use in request handling.
func TestCollectorsRegister(t *testing.T) {
	AdapterRequestDuration.WithLabelValues("0x").Observe(0.1)
	AdapterRequestsTotal.WithLabelValues("0x", "ok").Inc()
	AdapterCircuitState.WithLabelValues("0x").Set(1)
	QuoteFanoutDuration.Observe(0.2)
	QuoteBestAggregator.WithLabelValues("lifi").Inc()
	QuoteCacheHits.Inc()
	QuoteCacheMisses.Inc()
	ExecutionsTotal.WithLabelValues("completed").Inc()
	ExecutionDuration.WithLabelValues("completed").Observe(5)
	ExecutionStepsInFlight.Set(2)
	BridgePollAttempts.WithLabelValues("socket", "pending").Inc()
	BridgePollDuration.WithLabelValues("socket").Observe(10)
	SignerSignDuration.WithLabelValues("kms").Observe(0.5)
	SignerErrors.WithLabelValues("kms", "Unavailable").Inc()
	NATSPublishTotal.WithLabelValues("ok").Inc()

	count, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, count)
}
