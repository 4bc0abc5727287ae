package scoring

import (
	"context"

	"readerFeed/domain"
)

// neutralPopularity stands in for a real popularity lookup on candidates that
// did not come from the popularity generator.
const neutralPopularity = 0.5

type PopularityScorer struct{}

func NewPopularityScorer() *PopularityScorer { return &PopularityScorer{} }

func (s *PopularityScorer) Name() string      { return "popularity" }
func (s *PopularityScorer) Fallback() float64 { return neutralPopularity }

func (s *PopularityScorer) Score(_ context.Context, _ int64, c domain.BookCandidate) float64 {
	switch c.Source {
	case domain.SourcePopularity:
		return clamp01(c.Initial())
	case domain.SourceGraphCollaborative,
		domain.SourceGraphGenre,
		domain.SourceGraphAuthor,
		domain.SourceGraphTopic,
		domain.SourceSemanticSearch,
		domain.SourceMoreLikeThis,
		domain.SourceRecent,
		domain.SourceSimilarReview,
		domain.SourceFollowedUser,
		domain.SourceBookPopular,
		domain.SourceGraphSimilarUser,
		domain.SourceGraphBookAffinity:
		return neutralPopularity
	default:
		return neutralPopularity
	}
}

// ReviewPopularityScorer trusts the generator's initial score, clamped.
type ReviewPopularityScorer struct{}

func NewReviewPopularityScorer() *ReviewPopularityScorer { return &ReviewPopularityScorer{} }

func (s *ReviewPopularityScorer) Name() string      { return "review_popularity" }
func (s *ReviewPopularityScorer) Fallback() float64 { return neutralPopularity }

func (s *ReviewPopularityScorer) Score(_ context.Context, _, _ int64, c domain.ReviewCandidate) float64 {
	if c.InitialScore == nil {
		return neutralPopularity
	}
	return clamp01(*c.InitialScore)
}
