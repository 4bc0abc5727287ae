package feed

import "github.com/prometheus/client_golang/prometheus"

var (
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_recommendation_cache_lookups_total",
			Help: "Book feed requests served from cache (hit) or recomputed (miss)",
		},
		[]string{"result"},
	)

	ReviewCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_review_cache_lookups_total",
			Help: "Review feed requests served from cache (hit) or recomputed (miss)",
		},
		[]string{"result"},
	)

	ReviewFeedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_review_items_total",
			Help: "Review recommendations returned, by whether a book context was given",
		},
		[]string{"context"}, // book | feed
	)
)

func init() {
	prometheus.MustRegister(CacheLookupsTotal, ReviewCacheLookupsTotal, ReviewFeedItemsTotal)
}
