package scoring

import (
	"context"

	"readerFeed/domain"
)

const defaultContentScore = 0.5

// reviewContentScores ranks review sources by how personal the connection is.
var reviewContentScores = map[domain.CandidateSource]float64{
	domain.SourceFollowedUser:      0.9,
	domain.SourceGraphSimilarUser:  0.85,
	domain.SourceSimilarReview:     0.8,
	domain.SourceGraphBookAffinity: 0.75,
	domain.SourceBookPopular:       0.7,
	domain.SourcePopularity:        0.6,
	domain.SourceRecent:            0.55,
}

type ReviewContentScorer struct{}

func NewReviewContentScorer() *ReviewContentScorer { return &ReviewContentScorer{} }

func (s *ReviewContentScorer) Name() string      { return "review_content" }
func (s *ReviewContentScorer) Fallback() float64 { return defaultContentScore }

func (s *ReviewContentScorer) Score(_ context.Context, _, _ int64, c domain.ReviewCandidate) float64 {
	if v, ok := reviewContentScores[c.Source]; ok {
		return v
	}
	return defaultContentScore
}

// ReviewBookContextScorer lifts reviews of the book whose page is being viewed.
type ReviewBookContextScorer struct{}

func NewReviewBookContextScorer() *ReviewBookContextScorer { return &ReviewBookContextScorer{} }

func (s *ReviewBookContextScorer) Name() string      { return "review_book_context" }
func (s *ReviewBookContextScorer) Fallback() float64 { return 0 }

func (s *ReviewBookContextScorer) Score(_ context.Context, _, bookContextID int64, c domain.ReviewCandidate) float64 {
	if bookContextID == 0 || c.BookID == 0 {
		return 0
	}
	if c.BookID == bookContextID {
		return 1
	}
	return 0
}
