package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the application's prometheus collectors
type Metrics struct {
	EngagementToggles    *prometheus.CounterVec
	NotificationsCreated *prometheus.CounterVec
	NotificationsDropped *prometheus.CounterVec
	FanoutTasks          *prometheus.CounterVec
	FanoutQueueDepth     prometheus.Gauge
	TrendingCache        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EngagementToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_toggles_total",
			Help: "Engagement toggles by content kind, action and resulting state.",
		}, []string{"kind", "action", "state"}),
		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted by type.",
		}, []string{"type"}),
		NotificationsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Notifications that could not be persisted, by type.",
		}, []string{"type"}),
		FanoutTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fanout_tasks_total",
			Help: "Fan-out tasks by outcome (enqueued, delivered, retried, failed).",
		}, []string{"outcome"}),
		FanoutQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fanout_queue_depth",
			Help: "Tasks waiting in the in-process fan-out queue.",
		}),
		TrendingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trending_cache_requests_total",
			Help: "Trending cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.EngagementToggles,
		m.NotificationsCreated,
		m.NotificationsDropped,
		m.FanoutTasks,
		m.FanoutQueueDepth,
		m.TrendingCache,
	)
	return m
}

// NewNopMetrics returns collectors registered on a private registry
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
