// Package metrics exposes Prometheus collectors for the quote, execution,
// and bridge-polling paths. Grounded on the teacher's
// internal/metrics/metrics.go promauto var-block pattern, retargeted from
// db/NATS/event-listener health gauges to swap-aggregation concerns.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Aggregator adapter metrics
	// ============================================
	AdapterRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossfund_adapter_request_duration_seconds",
			Help:    "Time spent querying an aggregator adapter for a quote",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"aggregator"},
	)

	AdapterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_adapter_requests_total",
			Help: "Total adapter quote requests, by aggregator and outcome",
		},
		[]string{"aggregator", "outcome"},
	)

	AdapterCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crossfund_adapter_circuit_state",
			Help: "Adapter circuit breaker state (0=closed, 1=open, 2=half_open)",
		},
		[]string{"aggregator"},
	)

	// ============================================
	// Quote aggregation metrics
	// ============================================
	QuoteFanoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossfund_quote_fanout_duration_seconds",
		Help:    "Time to query all adapters and select the best quote",
		Buckets: prometheus.DefBuckets,
	})

	QuoteBestAggregator = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_quote_best_aggregator_total",
			Help: "Number of times each aggregator produced the winning quote",
		},
		[]string{"aggregator"},
	)

	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossfund_quote_cache_hits_total",
		Help: "Number of quote requests served from cache",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossfund_quote_cache_misses_total",
		Help: "Number of quote requests that missed cache",
	})

	// ============================================
	// Execution metrics
	// ============================================
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_executions_total",
			Help: "Total swap executions, by terminal status",
		},
		[]string{"status"},
	)

	ExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossfund_execution_duration_seconds",
			Help:    "Wall-clock time from execution start to terminal status",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"status"},
	)

	ExecutionStepsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crossfund_execution_steps_in_flight",
		Help: "Number of transaction steps currently awaiting confirmation",
	})

	// ============================================
	// Bridge status polling metrics
	// ============================================
	BridgePollAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_bridge_poll_attempts_total",
			Help: "Total bridge status poll attempts, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	BridgePollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossfund_bridge_poll_duration_seconds",
			Help:    "Time from bridge execution start to destination confirmation",
			Buckets: prometheus.ExponentialBuckets(2, 2, 12),
		},
		[]string{"provider"},
	)

	// ============================================
	// Signer / KMS metrics
	// ============================================
	SignerSignDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossfund_signer_sign_duration_seconds",
			Help:    "Time spent signing a transaction, by signer backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	SignerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_signer_errors_total",
			Help: "Total signer errors, by backend and error kind",
		},
		[]string{"backend", "error_kind"},
	)

	// ============================================
	// NATS publish metrics
	// ============================================
	NATSPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossfund_nats_publish_total",
			Help: "Total execution events published to NATS, by outcome",
		},
		[]string{"outcome"},
	)
)
