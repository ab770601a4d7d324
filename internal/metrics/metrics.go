// Package metrics exposes the Prometheus registry described by
// SPEC_FULL.md §4.L: queue depths, batch outcomes, fail counts, drops and
// synchronize duration, one set of label values per destination.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the registered collectors. Constructed once at
// supervisor startup and shared read-only (label-valued) by every worker.
type Metrics struct {
	QueueLength      *prometheus.GaugeVec
	BatchesTotal     *prometheus.CounterVec
	FailCount        *prometheus.GaugeVec
	DestinationsDrop prometheus.Counter
	SyncDuration     *prometheus.HistogramVec
}

// New registers the collectors against reg and returns the bundle.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rsyncwatch_queue_length",
			Help: "Number of queued items per destination, split by kind.",
		}, []string{"dest", "kind"}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsyncwatch_batches_total",
			Help: "Synchronize attempts per destination, by outcome.",
		}, []string{"dest", "outcome"}),
		FailCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rsyncwatch_fail_count",
			Help: "Current sequential failure count per destination.",
		}, []string{"dest"}),
		DestinationsDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsyncwatch_destinations_dropped_total",
			Help: "Destinations dropped after exceeding their failure budget.",
		}),
		SyncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rsyncwatch_sync_duration_seconds",
			Help:    "Synchronize call duration per destination.",
			Buckets: prometheus.DefBuckets,
		}, []string{"dest"}),
	}
	reg.MustRegister(m.QueueLength, m.BatchesTotal, m.FailCount, m.DestinationsDrop, m.SyncDuration)
	return m
}

// Observe records one synchronize outcome for dest.
func (m *Metrics) Observe(dest string, dirs, trees, failCount int, success bool, seconds float64) {
	m.QueueLength.WithLabelValues(dest, "dirs").Set(float64(dirs))
	m.QueueLength.WithLabelValues(dest, "trees").Set(float64(trees))
	m.FailCount.WithLabelValues(dest).Set(float64(failCount))
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.BatchesTotal.WithLabelValues(dest, outcome).Inc()
	m.SyncDuration.WithLabelValues(dest).Observe(seconds)
}

// Drop records a destination being permanently dropped.
func (m *Metrics) Drop() { m.DestinationsDrop.Inc() }
