package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotMetrics tracks expense snapshot creation and restore outcomes.
type SnapshotMetrics struct {
	snapshotsCreated *prometheus.CounterVec
	restores         *prometheus.CounterVec
	restoreDuration  prometheus.Histogram
	outboxPending    prometheus.Gauge
}

var (
	snapshotMetricsOnce sync.Once
	snapshotMetrics     *SnapshotMetrics
)

func Snapshot() *SnapshotMetrics {
	return SnapshotWithConfig(Config{})
}

func SnapshotWithConfig(cfg Config) *SnapshotMetrics {
	snapshotMetricsOnce.Do(func() {
		snapshotMetrics = newSnapshotMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return snapshotMetrics
}

func ResetSnapshotMetricsForTest() {
	snapshotMetricsOnce = sync.Once{}
	snapshotMetrics = nil
}

func newSnapshotMetrics(registerer prometheus.Registerer, cfg Config) *SnapshotMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "sitebooks"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	snapshotsCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "sitebooks_expense_snapshots_created_total",
			Help:        "Total expense snapshots captured, by trigger reason.",
			ConstLabels: constLabels,
		},
		[]string{"trigger"}, // child_creation | manual
	)

	restores := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "sitebooks_expense_snapshot_restores_total",
			Help:        "Total parent restore attempts, by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // restored | missing | failed
	)

	restoreDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "sitebooks_expense_snapshot_restore_duration_seconds",
			Help:        "Duration of parent restore calls.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
	)

	outboxPending := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "sitebooks_expense_outbox_pending_total",
			Help:        "Number of expense events awaiting dispatch.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		snapshotsCreated,
		restores,
		restoreDuration,
		outboxPending,
	)

	return &SnapshotMetrics{
		snapshotsCreated: snapshotsCreated,
		restores:         restores,
		restoreDuration:  restoreDuration,
		outboxPending:    outboxPending,
	}
}

func (m *SnapshotMetrics) IncSnapshotCreated(trigger string) {
	if m == nil {
		return
	}
	m.snapshotsCreated.WithLabelValues(trigger).Inc()
}

func (m *SnapshotMetrics) IncRestore(result string) {
	if m == nil {
		return
	}
	m.restores.WithLabelValues(result).Inc()
}

func (m *SnapshotMetrics) ObserveRestoreDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.restoreDuration.Observe(d.Seconds())
}

func (m *SnapshotMetrics) SetOutboxPending(value int) {
	if m == nil {
		return
	}
	m.outboxPending.Set(float64(value))
}
