package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importCommitFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clubs",
		Subsystem: "import",
		Name:      "commit_fallback_total",
		Help:      "Total number of bulk membership inserts that fell back to per-row inserts.",
	})

	importCommitOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubs",
		Subsystem: "import",
		Name:      "commit_outcomes_total",
		Help:      "Total number of committed membership intents broken down by outcome.",
	}, []string{"outcome"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clubs",
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Duration of roster import runs that produced a summary.",
		Buckets:   prometheus.DefBuckets,
	})
)

func recordCommitFallback() {
	importCommitFallbacks.Inc()
}

func recordCommitOutcome(outcome CommitOutcome) {
	importCommitOutcomes.WithLabelValues(outcome.String()).Inc()
}
