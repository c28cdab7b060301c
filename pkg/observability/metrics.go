/*
Package observability provides Prometheus instrumentation for scenario runs.

Metrics plug into the runner through lifecycle hooks, so the runner itself
stays free of any metrics dependency.
*/
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/trace"
)

// Metrics holds the Prometheus collectors for scenario execution.
type Metrics struct {
	runs         *prometheus.CounterVec
	checks       *prometheus.CounterVec
	interactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer to use the process-wide registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sieve_runs_total",
				Help: "Total scenario runs by terminal state",
			},
			[]string{"scenario", "state"},
		),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sieve_checks_total",
				Help: "Total check executions by kind and status",
			},
			[]string{"kind", "status"},
		),
		interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sieve_interactions_total",
				Help: "Total interactions recorded",
			},
			[]string{"scenario"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sieve_run_duration_seconds",
				Help: "Duration of scenario runs",
			},
			[]string{"scenario"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.checks, m.interactions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNewMetrics is NewMetrics that panics on registration failure.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// RunsCounter exposes the per-scenario run counter, labeled by state.
func (m *Metrics) RunsCounter() *prometheus.CounterVec { return m.runs }

// ChecksCounter exposes the check counter, labeled by kind and status.
func (m *Metrics) ChecksCounter() *prometheus.CounterVec { return m.checks }

// InteractionsCounter exposes the per-scenario interaction counter.
func (m *Metrics) InteractionsCounter() *prometheus.CounterVec { return m.interactions }

// Hooks returns runner hooks that record metrics for every run.
func (m *Metrics) Hooks() sieve.Hooks {
	return sieve.Hooks{
		OnInteraction: func(ctx context.Context, scenario string, in trace.Interaction) {
			m.interactions.WithLabelValues(scenario).Inc()
		},
		OnCheck: func(ctx context.Context, scenario string, record sieve.CheckRecord) {
			m.checks.WithLabelValues(record.Kind, string(record.Result.Status)).Inc()
		},
		OnScenarioEnd: func(ctx context.Context, result *sieve.Result) {
			m.runs.WithLabelValues(result.Scenario, string(result.State)).Inc()
			m.duration.WithLabelValues(result.Scenario).Observe(result.Duration.Seconds())
		},
	}
}
