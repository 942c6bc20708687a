// Package metrics registers the Prometheus collectors exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mineral"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Ledger metrics
	StockMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Ledger mutations applied, by operation and movement type",
		},
		[]string{"operation", "movement_type"},
	)
	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_stock_total",
			Help:      "Reconciliations rejected by the negative-stock policy",
		},
	)

	// Order metrics
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Order intake attempts by outcome",
		},
		[]string{"outcome"},
	)
	OrderFulfillmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_fulfillment_duration_seconds",
			Help:      "Duration of the order creation transaction",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Authentication metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Sign-in and refresh attempts by result",
		},
		[]string{"kind", "result"},
	)
)

// RecordMovement counts one ledger mutation.
func RecordMovement(operation, movementType string) {
	StockMovementsTotal.WithLabelValues(operation, movementType).Inc()
}

// TrackFulfillment returns a function that records the duration since start.
func TrackFulfillment() func() {
	start := time.Now()
	return func() {
		OrderFulfillmentDuration.Observe(time.Since(start).Seconds())
	}
}
