// Package metrics exposes Prometheus collectors for editing sessions.
//
// A Collector owns its own registry so several sessions or tests never
// collide on global registration. All methods are safe on a nil Collector,
// which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector tracks session activity.
type Collector struct {
	registry *prometheus.Registry

	commits        *prometheus.CounterVec
	elisions       *prometheus.CounterVec
	cancels        *prometheus.CounterVec
	history        *prometheus.CounterVec
	replayFailures *prometheus.CounterVec
	replayDuration *prometheus.HistogramVec
	historyLength  prometheus.Gauge
}

// New creates a collector registered on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		registry: reg,
		commits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pigment_operations_committed_total",
			Help: "Operations committed to history by tool",
		}, []string{"tool"}),
		elisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pigment_operations_elided_total",
			Help: "Edits finished without recording an operation, by tool",
		}, []string{"tool"}),
		cancels: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pigment_operations_cancelled_total",
			Help: "Edits cancelled or failed before commit, by tool",
		}, []string{"tool"}),
		history: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pigment_history_moves_total",
			Help: "Undo and redo requests by direction and result",
		}, []string{"direction", "result"}),
		replayFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pigment_replay_failures_total",
			Help: "Operations that failed to replay, by tool",
		}, []string{"tool"}),
		replayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pigment_replay_duration_seconds",
			Help:    "Time to replay one operation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"tool"}),
		historyLength: f.NewGauge(prometheus.GaugeOpts{
			Name: "pigment_history_length",
			Help: "Operations currently held in history",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordCommit counts a committed operation and the new history length.
func (c *Collector) RecordCommit(tool string, historyLen int) {
	if c == nil {
		return
	}
	c.commits.WithLabelValues(tool).Inc()
	c.historyLength.Set(float64(historyLen))
}

// RecordElision counts an edit that produced no operation.
func (c *Collector) RecordElision(tool string) {
	if c == nil {
		return
	}
	c.elisions.WithLabelValues(tool).Inc()
}

// RecordCancel counts a discarded edit.
func (c *Collector) RecordCancel(tool string) {
	if c == nil {
		return
	}
	c.cancels.WithLabelValues(tool).Inc()
}

// RecordHistoryMove counts an undo or redo. direction is "undo" or "redo".
func (c *Collector) RecordHistoryMove(direction string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.history.WithLabelValues(direction, result).Inc()
}

// RecordReplay observes the duration of one replay and counts failures.
func (c *Collector) RecordReplay(tool string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.replayDuration.WithLabelValues(tool).Observe(d.Seconds())
	if err != nil {
		c.replayFailures.WithLabelValues(tool).Inc()
	}
}

// SetHistoryLength records the current history length.
func (c *Collector) SetHistoryLength(n int) {
	if c == nil {
		return
	}
	c.historyLength.Set(float64(n))
}
