// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TradeEventsReceived   prometheus.Counter
	TradeEventsProjected  prometheus.Counter
	TradeEventsDuplicated prometheus.Counter
	TradeEventsDropped    *prometheus.CounterVec
	EventProcessingErrors *prometheus.CounterVec

	// Verification metrics
	TierUpgrades *prometheus.CounterVec

	// Graduation metrics
	LiquidityTransfers  prometheus.Counter
	GraduationsRecorded prometheus.Counter

	// Notification metrics
	WorkflowsTriggered *prometheus.CounterVec
	WorkflowErrors     *prometheus.CounterVec

	// Latency metrics
	EventProcessingLatency prometheus.Histogram
	ChainCallLatency       *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulEvent prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "community_launchpad"
	}

	return &Metrics{
		TradeEventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trade_events_received_total",
			Help:      "Total number of trade events received from the feed",
		}),
		TradeEventsProjected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trade_events_projected_total",
			Help:      "Total number of trade events projected into storage",
		}),
		TradeEventsDuplicated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trade_events_duplicated_total",
			Help:      "Total number of redelivered trade events already recorded",
		}),
		TradeEventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trade_events_dropped_total",
			Help:      "Total number of trade events dropped by reason",
		}, []string{"reason"}),
		EventProcessingErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "event_processing_errors_total",
			Help:      "Total number of event processing errors by stage",
		}, []string{"stage"}),

		TierUpgrades: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "tier_upgrades_total",
			Help:      "Total number of user tier upgrades by resulting tier",
		}, []string{"tier"}),

		LiquidityTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graduation",
			Name:      "liquidity_transfers_total",
			Help:      "Total number of on-chain liquidity transfers performed",
		}),
		GraduationsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graduation",
			Name:      "graduations_recorded_total",
			Help:      "Total number of tokens marked as graduated",
		}),

		WorkflowsTriggered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "workflows_triggered_total",
			Help:      "Total number of notification workflows triggered by key",
		}, []string{"key"}),
		WorkflowErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "workflow_errors_total",
			Help:      "Total number of notification workflow failures by key",
		}, []string{"key"}),

		EventProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "event_processing_latency_seconds",
			Help:      "End-to-end trade event processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ChainCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "call_latency_seconds",
			Help:      "EVM call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulEvent: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_event_timestamp",
			Help:      "Unix timestamp of the last successfully processed trade event",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradeEventReceived increments the trade events received counter.
func RecordTradeEventReceived() {
	DefaultMetrics.TradeEventsReceived.Inc()
}

// RecordTradeEventDropped records a dropped trade event.
func RecordTradeEventDropped(reason string) {
	DefaultMetrics.TradeEventsDropped.WithLabelValues(reason).Inc()
}

// RecordEventError records an event processing error.
func RecordEventError(stage string) {
	DefaultMetrics.EventProcessingErrors.WithLabelValues(stage).Inc()
}

// RecordTierUpgrade records a tier upgrade to the given tier name.
func RecordTierUpgrade(tier string) {
	DefaultMetrics.TierUpgrades.WithLabelValues(tier).Inc()
}

// RecordWorkflow records a notification workflow trigger.
func RecordWorkflow(key string, err error) {
	DefaultMetrics.WorkflowsTriggered.WithLabelValues(key).Inc()
	if err != nil {
		DefaultMetrics.WorkflowErrors.WithLabelValues(key).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordChainCall records EVM call latency.
func RecordChainCall(method string, seconds float64) {
	DefaultMetrics.ChainCallLatency.WithLabelValues(method).Observe(seconds)
}
