package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests      *prometheus.CounterVec
	TokenRefreshes        prometheus.Counter
	TokenRefreshFailures  prometheus.Counter
	AuthRejectionRecovery prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexsync_registry_upstream_requests_total",
			Help: "Total upstream registry requests by HTTP status",
		}, []string{"status"}),
		TokenRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_registry_token_refreshes_total",
			Help: "Total successful upstream token refreshes",
		}),
		TokenRefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_registry_token_refresh_failures_total",
			Help: "Total failed upstream token refreshes",
		}),
		AuthRejectionRecovery: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_registry_auth_retries_total",
			Help: "Total requests retried after a 401 with a fresh token",
		}),
	}
}
