package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livelink"

type moduleMetrics struct {
	activeSessions       prometheus.Gauge
	sessionsCreatedTotal prometheus.Counter
	sessionsExpiredTotal prometheus.Counter
	sessionsClosedTotal  prometheus.Counter

	updatesIngestedTotal *prometheus.CounterVec
	updatesRejectedTotal prometheus.Counter

	snapshotSaveDuration prometheus.Histogram
	snapshotLoadDuration prometheus.Histogram
	snapshotSaveFailures prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Namespace: namespace,
					Name:      "active_sessions",
					Help:      "Current live session count.",
				},
			),
			sessionsCreatedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "sessions_created_total",
					Help:      "Total sessions created.",
				},
			),
			sessionsExpiredTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "sessions_expired_total",
					Help:      "Total sessions evicted by TTL expiry.",
				},
			),
			sessionsClosedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "sessions_closed_total",
					Help:      "Total sessions removed by explicit close.",
				},
			),
			updatesIngestedTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "updates_ingested_total",
					Help:      "Total accepted telemetry updates by payload kind.",
				},
				[]string{"kind"},
			),
			updatesRejectedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "updates_rejected_total",
					Help:      "Total updates rejected for carrying no telemetry.",
				},
			),
			snapshotSaveDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: namespace,
					Name:      "snapshot_save_duration_seconds",
					Help:      "Durable snapshot write duration in seconds.",
					Buckets:   prometheus.DefBuckets,
				},
			),
			snapshotLoadDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: namespace,
					Name:      "snapshot_load_duration_seconds",
					Help:      "Durable snapshot load duration in seconds.",
					Buckets:   prometheus.DefBuckets,
				},
			),
			snapshotSaveFailures: prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "snapshot_save_failures_total",
					Help:      "Total failed snapshot writes.",
				},
			),
		}

		prometheus.MustRegister(
			m.activeSessions,
			m.sessionsCreatedTotal,
			m.sessionsExpiredTotal,
			m.sessionsClosedTotal,
			m.updatesIngestedTotal,
			m.updatesRejectedTotal,
			m.snapshotSaveDuration,
			m.snapshotLoadDuration,
			m.snapshotSaveFailures,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func SetActiveSessions(count int) {
	getMetrics().activeSessions.Set(float64(count))
}

func RecordSessionCreated() {
	getMetrics().sessionsCreatedTotal.Inc()
}

func RecordSessionExpired() {
	getMetrics().sessionsExpiredTotal.Inc()
}

func RecordSessionClosed() {
	getMetrics().sessionsClosedTotal.Inc()
}

func RecordUpdateIngested(kind string) {
	getMetrics().updatesIngestedTotal.WithLabelValues(kind).Inc()
}

func RecordUpdateRejected() {
	getMetrics().updatesRejectedTotal.Inc()
}

func RecordSnapshotSave(duration time.Duration, success bool) {
	m := getMetrics()
	m.snapshotSaveDuration.Observe(duration.Seconds())
	if !success {
		m.snapshotSaveFailures.Inc()
	}
}

func RecordSnapshotLoad(duration time.Duration) {
	getMetrics().snapshotLoadDuration.Observe(duration.Seconds())
}
