package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики сервиса; отдаются через /metrics служебного HTTP.
var (
	engagementOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xplore_engagement_ops_total",
		Help: "Engagement mutations by operation.",
	}, []string{"op"})

	viewsCounted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xplore_views_counted_total",
		Help: "Deduplicated article views that incremented the counter.",
	})

	sweepDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xplore_sweep_deleted_total",
		Help: "Articles deleted by the expiry sweep.",
	})

	sweepMediaFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xplore_sweep_media_failures_total",
		Help: "Best-effort media deletions that failed during the sweep.",
	})
)
