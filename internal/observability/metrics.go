// Package observability provides Prometheus metrics for the calculation and
// synchronization engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all Prometheus metrics exposed by the engine.
type Metrics struct {
	registry *prometheus.Registry

	// Calculation engine metrics
	evaluationsTotal      *prometheus.CounterVec
	evaluationCacheHits   prometheus.Counter
	evaluationCacheMisses prometheus.Counter
	evaluationCacheSize   prometheus.Gauge

	// Sync coordinator metrics
	syncMutationsTotal  *prometheus.CounterVec
	conflictsOpen       prometheus.Gauge
	conflictsResolved   prometheus.Counter
	syncRunsTotal       prometheus.Counter
	syncSuppressedTotal prometheus.Counter
}

// NewMetrics creates and registers the engine metrics on the given registry.
// A nil registry creates a private one, which keeps tests independent.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{registry: registry}

	m.evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voltflow_evaluations_total",
			Help: "Total number of voltage drop evaluations",
		},
		[]string{"status"}, // success, error
	)
	m.evaluationCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voltflow_evaluation_cache_hits_total",
		Help: "Total number of evaluation cache hits",
	})
	m.evaluationCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voltflow_evaluation_cache_misses_total",
		Help: "Total number of evaluation cache misses",
	})
	m.evaluationCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "voltflow_evaluation_cache_size",
		Help: "Number of entries in the evaluation cache",
	})

	m.syncMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voltflow_sync_mutations_total",
			Help: "Total number of sync coordinator mutations",
		},
		[]string{"operation"}, // update_circuit, update_schedule, delete_circuit, delete_schedule
	)
	m.conflictsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "voltflow_sync_conflicts_open",
		Help: "Number of unresolved sync conflicts",
	})
	m.conflictsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voltflow_sync_conflicts_resolved_total",
		Help: "Total number of resolved sync conflicts",
	})
	m.syncRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voltflow_sync_runs_total",
		Help: "Total number of completed sync runs",
	})
	m.syncSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voltflow_sync_suppressed_total",
		Help: "Total number of sync requests suppressed by the single-flight guard",
	})

	collectors := []prometheus.Collector{
		m.evaluationsTotal,
		m.evaluationCacheHits,
		m.evaluationCacheMisses,
		m.evaluationCacheSize,
		m.syncMutationsTotal,
		m.conflictsOpen,
		m.conflictsResolved,
		m.syncRunsTotal,
		m.syncSuppressedTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEvaluation counts one evaluation with the given status.
func (m *Metrics) RecordEvaluation(status string) {
	if m == nil {
		return
	}
	m.evaluationsTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit counts one evaluation cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.evaluationCacheHits.Inc()
}

// RecordCacheMiss counts one evaluation cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.evaluationCacheMisses.Inc()
}

// SetCacheSize records the current evaluation cache size.
func (m *Metrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.evaluationCacheSize.Set(float64(n))
}

// RecordMutation counts one coordinator mutation.
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.syncMutationsTotal.WithLabelValues(operation).Inc()
}

// SetOpenConflicts records the number of unresolved conflicts.
func (m *Metrics) SetOpenConflicts(n int) {
	if m == nil {
		return
	}
	m.conflictsOpen.Set(float64(n))
}

// RecordConflictResolved counts one resolved conflict.
func (m *Metrics) RecordConflictResolved() {
	if m == nil {
		return
	}
	m.conflictsResolved.Inc()
}

// RecordSyncRun counts one completed sync run.
func (m *Metrics) RecordSyncRun() {
	if m == nil {
		return
	}
	m.syncRunsTotal.Inc()
}

// RecordSyncSuppressed counts one suppressed re-entrant sync request.
func (m *Metrics) RecordSyncSuppressed() {
	if m == nil {
		return
	}
	m.syncSuppressedTotal.Inc()
}
