package scoring

import (
	"context"

	"readerFeed/domain"
)

// GraphScorer passes through the initial score of graph-generated candidates.
type GraphScorer struct{}

func NewGraphScorer() *GraphScorer { return &GraphScorer{} }

func (s *GraphScorer) Name() string      { return "graph" }
func (s *GraphScorer) Fallback() float64 { return 0 }

func (s *GraphScorer) Score(_ context.Context, _ int64, c domain.BookCandidate) float64 {
	switch c.Source {
	case domain.SourceGraphCollaborative,
		domain.SourceGraphGenre,
		domain.SourceGraphAuthor,
		domain.SourceGraphTopic:
		return clamp01(c.Initial())
	case domain.SourceSemanticSearch,
		domain.SourceMoreLikeThis,
		domain.SourcePopularity,
		domain.SourceRecent,
		domain.SourceSimilarReview,
		domain.SourceFollowedUser,
		domain.SourceBookPopular,
		domain.SourceGraphSimilarUser,
		domain.SourceGraphBookAffinity:
		return 0
	default:
		return 0
	}
}

// SemanticScorer passes through the initial score of search-generated candidates.
type SemanticScorer struct{}

func NewSemanticScorer() *SemanticScorer { return &SemanticScorer{} }

func (s *SemanticScorer) Name() string      { return "semantic" }
func (s *SemanticScorer) Fallback() float64 { return 0 }

func (s *SemanticScorer) Score(_ context.Context, _ int64, c domain.BookCandidate) float64 {
	switch c.Source {
	case domain.SourceSemanticSearch, domain.SourceMoreLikeThis:
		return clamp01(c.Initial())
	case domain.SourceGraphCollaborative,
		domain.SourceGraphGenre,
		domain.SourceGraphAuthor,
		domain.SourceGraphTopic,
		domain.SourcePopularity,
		domain.SourceRecent,
		domain.SourceSimilarReview,
		domain.SourceFollowedUser,
		domain.SourceBookPopular,
		domain.SourceGraphSimilarUser,
		domain.SourceGraphBookAffinity:
		return 0
	default:
		return 0
	}
}
