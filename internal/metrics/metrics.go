package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the run metrics.
type Manager struct {
	namespace   string
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	nodesTotal     prometheus.Counter
	nodesSkipped   *prometheus.CounterVec
	recordsDropped *prometheus.CounterVec
	eventsWritten  prometheus.Gauge
	runDuration    prometheus.Gauge
	lastSuccess    prometheus.Gauge
	runsTotal      *prometheus.CounterVec
}

// NewManager creates a Manager with its metrics registered.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "watplan",
		constLabels: prometheus.Labels{},
		registry:    prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.nodesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "nodes_total",
		Help:        "Lesson nodes found in the timetable markup",
		ConstLabels: m.constLabels,
	})
	m.nodesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "nodes_skipped_total",
		Help:        "Lesson nodes skipped during extraction, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
	m.recordsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "records_dropped_total",
		Help:        "Extracted lessons dropped during normalization, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
	m.eventsWritten = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "events_written",
		Help:        "Calendar events written by the last run",
		ConstLabels: m.constLabels,
	})
	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "last_run_duration_seconds",
		Help:        "Wall time of the last run",
		ConstLabels: m.constLabels,
	})
	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: m.constLabels,
	})
	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "runs_total",
		Help:        "Runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	return m
}

// Registry returns the registry the metrics live in
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveNodes adds n to the number of lesson nodes seen.
func (m *Manager) ObserveNodes(n int) {
	m.nodesTotal.Add(float64(n))
}

// NodeSkipped counts one node skipped by the extractor.
func (m *Manager) NodeSkipped(reason string) {
	m.nodesSkipped.WithLabelValues(reason).Inc()
}

// RecordDropped counts one record dropped by the normalizer.
func (m *Manager) RecordDropped(reason string) {
	m.recordsDropped.WithLabelValues(reason).Inc()
}

// RunSucceeded records a completed run.
func (m *Manager) RunSucceeded(events int, took time.Duration, at time.Time) {
	m.eventsWritten.Set(float64(events))
	m.runDuration.Set(took.Seconds())
	m.lastSuccess.Set(float64(at.Unix()))
	m.runsTotal.WithLabelValues("success").Inc()
}

// RunFailed records a run that aborted.
func (m *Manager) RunFailed(took time.Duration) {
	m.runDuration.Set(took.Seconds())
	m.runsTotal.WithLabelValues("failure").Inc()
}

// WriteTextfile writes the registry in the text exposition format to path.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
