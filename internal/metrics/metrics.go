// Package metrics exposes Prometheus counters for context switches, sweeps
// and rollout operations. Collectors register on the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var contextSwitchesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "fleetdeck_context_switches_total",
		Help: "Total number of explicit context switches by outcome.",
	},
	[]string{"outcome"},
)

var sweepsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "fleetdeck_sweeps_total",
		Help: "Total number of cross-cluster sweeps by outcome (completed, failed, rejected).",
	},
	[]string{"outcome"},
)

var sweepDurationSeconds = promauto.With(prometheus.DefaultRegisterer).NewHistogram(
	prometheus.HistogramOpts{
		Name:    "fleetdeck_sweep_duration_seconds",
		Help:    "Wall time of a full sweep including restoration of the original context.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	},
)

var probesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "fleetdeck_probes_total",
		Help: "Total number of per-context sweep probes by context and resulting status.",
	},
	[]string{"context", "status"},
)

var rolloutOperationsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "fleetdeck_rollout_operations_total",
		Help: "Total number of rollout operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeNoop     = "noop"
)

// RecordContextSwitch counts one explicit context switch
func RecordContextSwitch(outcome string) {
	contextSwitchesTotal.WithLabelValues(outcome).Inc()
}

// RecordSweep counts a sweep and observes its duration when it ran
func RecordSweep(outcome string, duration time.Duration) {
	sweepsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		sweepDurationSeconds.Observe(duration.Seconds())
	}
}

// RecordProbe counts one context probe with the status it produced
func RecordProbe(contextName, status string) {
	probesTotal.WithLabelValues(contextName, status).Inc()
}

// RecordRolloutOperation counts one rollout operation (rollback, pause, resume, restart)
func RecordRolloutOperation(operation, outcome string) {
	rolloutOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// OutcomeOf maps an error onto the success or failure label
func OutcomeOf(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
