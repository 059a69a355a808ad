// Package metrics records task counts, durations and in-flight gauges
// with Prometheus. A nil *Metrics records nothing.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "fetch"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the task collectors.
type Metrics struct {
	tasks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// New registers the task collectors with reg. Collectors already present
// in reg, for example from another client sharing it, are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, errors.New("registerer must not be nil")
	}

	tasks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Total number of completed tasks by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Time from building the request to completion of a task, excluding delivery",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	inFlight := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_in_flight",
			Help:      "Number of tasks started but not yet completed",
		},
		[]string{"kind"},
	)

	m := &Metrics{}
	var err error
	if m.tasks, err = register(reg, tasks); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if m.inFlight, err = register(reg, inFlight); err != nil {
		return nil, err
	}

	return m, nil
}

// Start marks a task of kind as in flight. The returned function records
// its completion and must be called exactly once.
func (m *Metrics) Start(kind string) func(ok bool) {
	if m == nil {
		return func(bool) {}
	}

	start := time.Now()
	m.inFlight.WithLabelValues(kind).Inc()

	return func(ok bool) {
		outcome := OutcomeSuccess
		if !ok {
			outcome = OutcomeFailure
		}

		m.inFlight.WithLabelValues(kind).Dec()
		m.tasks.WithLabelValues(kind, outcome).Inc()
		m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		var zero C
		return zero, fmt.Errorf("registering collector: %w", err)
	}

	return c, nil
}
