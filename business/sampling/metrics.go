package sampling

import "github.com/prometheus/client_golang/prometheus"

var (
	SamplingAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_sampling_applied_total",
			Help: "Number of ranked lists reordered by the window sampler",
		},
		[]string{"session"}, // "anonymous" or "session"
	)

	SamplingTierItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_sampling_tier_items_total",
			Help: "Items emitted per tier strategy",
		},
		[]string{"strategy"},
	)
)

func init() {
	prometheus.MustRegister(SamplingAppliedTotal, SamplingTierItems)
}
