package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Interactions counts toggles and creations by kind (post_like, comment_like,
	// follow, comment, provision) and result.
	Interactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialfeed_interactions_total",
			Help: "Total number of interactions by kind and result",
		},
		[]string{"kind", "result"},
	)

	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialfeed_notifications_total",
			Help: "Total number of notifications stored by type",
		},
		[]string{"type"},
	)

	NotificationsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialfeed_notifications_suppressed_total",
			Help: "Total number of notifications not emitted by reason",
		},
		[]string{"reason"},
	)

	FanoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialfeed_fanout_failures_total",
			Help: "Total number of failed notification deliveries by sink",
		},
		[]string{"sink"},
	)
)

func init() {
	prometheus.MustRegister(Interactions)
	prometheus.MustRegister(NotificationsCreated)
	prometheus.MustRegister(NotificationsSuppressed)
	prometheus.MustRegister(FanoutFailures)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveInteraction records one interaction outcome.
func ObserveInteraction(kind, result string) {
	Interactions.WithLabelValues(kind, result).Inc()
}
