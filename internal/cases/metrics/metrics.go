package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SyncPasses      *prometheus.CounterVec
	SyncDuration    prometheus.Histogram
	RecordsUpserted prometheus.Counter
	RecordsModified prometheus.Counter
	RecordsDeleted  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SyncPasses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexsync_sync_passes_total",
			Help: "Total full sync passes by outcome",
		}, []string{"outcome"}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexsync_sync_duration_seconds",
			Help:    "Duration of full sync passes",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		RecordsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_sync_records_upserted_total",
			Help: "Total case records newly inserted by sync passes",
		}),
		RecordsModified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_sync_records_modified_total",
			Help: "Total case records modified by sync passes",
		}),
		RecordsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexsync_sync_records_deleted_total",
			Help: "Total case records deleted by sync reconciliation",
		}),
	}
}

func (m *Metrics) ObserveSync(outcome string, d time.Duration) {
	m.SyncPasses.WithLabelValues(outcome).Inc()
	m.SyncDuration.Observe(d.Seconds())
}

func (m *Metrics) AddCounts(upserted, modified, deleted int) {
	m.RecordsUpserted.Add(float64(upserted))
	m.RecordsModified.Add(float64(modified))
	m.RecordsDeleted.Add(float64(deleted))
}
