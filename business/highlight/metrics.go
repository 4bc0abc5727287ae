package highlight

import "github.com/prometheus/client_golang/prometheus"

var (
	ChannelFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlight_channel_failures_total",
			Help: "Highlight fusion channel reads that failed and were treated as empty",
		},
		[]string{"channel"}, // graph | search
	)

	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "highlight_recommend_requests_total",
			Help: "Highlight recommendation requests by outcome",
		},
		[]string{"outcome"}, // ok | empty | invalid
	)
)

func init() {
	prometheus.MustRegister(ChannelFailuresTotal, RecommendRequestsTotal)
}
