/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the planner's prometheus collectors.
type Metrics struct {
	Operations  *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	TilesScored prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "operations_total",
			Help:      "Scoring and aggregation calls, by operation and city.",
		}, []string{"operation", "city"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "failures_total",
			Help:      "Failed scoring and aggregation calls, by operation.",
		}, []string{"operation"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "planner",
			Name:      "operation_duration_seconds",
			Help:      "Time spent scoring or aggregating.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		TilesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "tiles_scored_total",
			Help:      "Tiles scored across all requirements.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Failures, m.Duration, m.TilesScored)
	}
	return m
}

func (m *Metrics) observe(operation, city string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, city).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.Failures.WithLabelValues(operation).Inc()
	}
}
