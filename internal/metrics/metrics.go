// Package metrics exposes the simulator's prometheus collectors. Gauges
// track point-in-time state (units by lifecycle state, active calls,
// queue depth); counters track cumulative activity (events dispatched,
// calls granted/queued/torn down).
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "radiosim"

var (
	UnitsByState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "units_by_state",
		Help:      "Current number of units in each lifecycle state.",
	}, []string{"zone_id", "state"})

	ActiveCalls = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_calls",
		Help:      "Current number of active radio calls.",
	}, []string{"zone_id"})

	QueuedCalls = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queued_calls",
		Help:      "Current depth of the call busy queue.",
	}, []string{"zone_id"})

	PendingEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_events",
		Help:      "Current number of events pending on the zone clock's queue.",
	}, []string{"zone_id"})
)

var (
	EventsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dispatched_total",
		Help:      "Total events dispatched by the zone clock, by event type.",
	}, []string{"zone_id", "event_type"})

	CallsGrantedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_granted_total",
		Help:      "Total voice calls granted a channel.",
	}, []string{"zone_id"})

	CallsQueuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_queued_total",
		Help:      "Total voice calls that had to wait in the busy queue.",
	}, []string{"zone_id"})

	CallsTornDownTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_torn_down_total",
		Help:      "Total voice calls torn down.",
	}, []string{"zone_id"})
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed by the introspection API.",
	}, []string{"method", "path_pattern", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path_pattern"})
)

func init() {
	prometheus.MustRegister(
		UnitsByState,
		ActiveCalls,
		QueuedCalls,
		PendingEvents,
		EventsDispatchedTotal,
		CallsGrantedTotal,
		CallsQueuedTotal,
		CallsTornDownTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// GinMiddleware records HTTP metrics for the gin-based introspection API.
// It uses gin's matched route as the path label to avoid cardinality
// explosion from path parameters.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		pattern := c.FullPath()
		if pattern == "" {
			pattern = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		HTTPRequestsTotal.WithLabelValues(method, pattern, status).Inc()
		HTTPRequestDuration.WithLabelValues(method, pattern).Observe(duration)
	}
}
