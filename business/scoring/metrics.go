package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScorerFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_scorer_fallback_total",
			Help: "Count of signal scores replaced by the scorer fallback, by scorer and reason.",
		},
		[]string{"scorer", "reason"},
	)
)

func init() {
	prometheus.MustRegister(ScorerFallbackTotal)
}
