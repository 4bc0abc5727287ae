package scoring

import (
	"context"
	"time"

	"readerFeed/domain"
	"readerFeed/pkg/logger"
)

const neutralFreshness = 0.5

// bookFreshness decays over the first year, then more slowly until three
// years, then stays at a small floor.
func bookFreshness(days float64) float64 {
	switch {
	case days < 365:
		return 1.0 - days/365.0
	case days < 365*3:
		return 0.5 - ((days-365)/(365.0*2))*0.5
	default:
		return 0.1
	}
}

// reviewFreshness decays fast over the first month and bottoms out at half a year.
func reviewFreshness(days float64) float64 {
	switch {
	case days <= 30:
		return 1.0 - (days/30.0)*0.5
	case days <= 180:
		return 0.5 - ((days-30)/150.0)*0.3
	default:
		return 0.2
	}
}

type FreshnessScorer struct {
	dates PublishDateLookup
	now   func() time.Time
}

func NewFreshnessScorer(dates PublishDateLookup) *FreshnessScorer {
	return &FreshnessScorer{dates: dates, now: time.Now}
}

func (s *FreshnessScorer) Name() string      { return "freshness" }
func (s *FreshnessScorer) Fallback() float64 { return neutralFreshness }

func (s *FreshnessScorer) Score(ctx context.Context, _ int64, c domain.BookCandidate) float64 {
	if s.dates == nil || c.BookID == 0 {
		return neutralFreshness
	}

	published, ok, err := s.dates.PublishedDate(ctx, c.BookID)
	if err != nil {
		logger.Warn("freshness_lookup_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"book_id", c.BookID,
			"error", err,
		)
		ScorerFallbackTotal.WithLabelValues(s.Name(), "lookup_error").Inc()
		return neutralFreshness
	}
	if !ok || published.IsZero() {
		return neutralFreshness
	}

	return clamp01(bookFreshness(ageInDays(published, s.now())))
}

type ReviewFreshnessScorer struct {
	now func() time.Time
}

func NewReviewFreshnessScorer() *ReviewFreshnessScorer {
	return &ReviewFreshnessScorer{now: time.Now}
}

func (s *ReviewFreshnessScorer) Name() string      { return "review_freshness" }
func (s *ReviewFreshnessScorer) Fallback() float64 { return neutralFreshness }

func (s *ReviewFreshnessScorer) Score(_ context.Context, _, _ int64, c domain.ReviewCandidate) float64 {
	if c.CreatedAt == nil || c.CreatedAt.IsZero() {
		return neutralFreshness
	}
	return clamp01(reviewFreshness(ageInDays(*c.CreatedAt, s.now())))
}
