package scoring

// Weights are applied to each book signal. They are not required to sum to 1:
// the final score only orders candidates relative to each other.
type Weights struct {
	Graph      float64
	Semantic   float64
	Engagement float64
	Popularity float64
	Freshness  float64
}

type ReviewWeights struct {
	Popularity  float64
	Freshness   float64
	Engagement  float64
	Content     float64
	BookContext float64
}

const (
	defaultWGraph      = 0.4
	defaultWSemantic   = 0.3
	defaultWEngagement = 0.15
	defaultWPopularity = 0.1
	defaultWFreshness  = 0.05

	defaultReviewWPopularity  = 0.3
	defaultReviewWFreshness   = 0.2
	defaultReviewWEngagement  = 0.2
	defaultReviewWContent     = 0.2
	defaultReviewWBookContext = 0.1

	defaultParallelism = 8
)

func DefaultWeights() Weights {
	return Weights{
		Graph:      defaultWGraph,
		Semantic:   defaultWSemantic,
		Engagement: defaultWEngagement,
		Popularity: defaultWPopularity,
		Freshness:  defaultWFreshness,
	}
}

func DefaultReviewWeights() ReviewWeights {
	return ReviewWeights{
		Popularity:  defaultReviewWPopularity,
		Freshness:   defaultReviewWFreshness,
		Engagement:  defaultReviewWEngagement,
		Content:     defaultReviewWContent,
		BookContext: defaultReviewWBookContext,
	}
}
