package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors, registered once on the default registry and
// served by the /metrics handler in server mode.
var (
	// ProfilesScored counts completed scoring passes by tier.
	ProfilesScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "godscore",
		Name:      "profiles_scored_total",
		Help:      "Number of profiles scored, by data tier.",
	}, []string{"tier"})

	// ScoresSkipped counts rescore passes discarded as immaterial.
	ScoresSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "godscore",
		Name:      "scores_skipped_total",
		Help:      "Number of rescore passes skipped for immaterial change.",
	})

	// ScoreErrors counts profiles that failed to score.
	ScoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "godscore",
		Name:      "score_errors_total",
		Help:      "Number of profiles that failed to score.",
	})

	// ScoreDistribution observes every computed composite score.
	ScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "godscore",
		Name:      "score_distribution",
		Help:      "Distribution of computed composite scores.",
		Buckets:   []float64{40, 48, 55, 64, 70, 77, 88, 100},
	})

	// PopulationAverage tracks the latest monitored population average.
	PopulationAverage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "godscore",
		Name:      "population_average",
		Help:      "Average composite score over the whole population.",
	})

	// MonitorAlerts counts distribution monitor runs that raised an alert.
	MonitorAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "godscore",
		Name:      "monitor_alerts_total",
		Help:      "Number of monitor runs that breached a hard bound.",
	})
)

// RecordScore updates the per-score collectors in one place so callers
// cannot update one and miss the other.
func RecordScore(tier string, total int) {
	ProfilesScored.WithLabelValues(tier).Inc()
	ScoreDistribution.Observe(float64(total))
}
