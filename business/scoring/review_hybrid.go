package scoring

import (
	"context"

	"readerFeed/domain"
	"readerFeed/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	reviewSignalPopularity = iota
	reviewSignalFreshness
	reviewSignalEngagement
	reviewSignalContent
	reviewSignalBookContext
	reviewSignalCount
)

type weightedReviewScorer struct {
	scorer ReviewScorer
	weight float64
}

type ReviewHybridScorer struct {
	signals     [reviewSignalCount]weightedReviewScorer
	parallelism int
}

func NewReviewHybridScorer(
	popularity ReviewScorer,
	freshness ReviewScorer,
	engagement ReviewScorer,
	content ReviewScorer,
	bookContext ReviewScorer,
	weights ReviewWeights,
) *ReviewHybridScorer {
	h := &ReviewHybridScorer{parallelism: defaultParallelism}
	h.signals[reviewSignalPopularity] = weightedReviewScorer{scorer: popularity, weight: weights.Popularity}
	h.signals[reviewSignalFreshness] = weightedReviewScorer{scorer: freshness, weight: weights.Freshness}
	h.signals[reviewSignalEngagement] = weightedReviewScorer{scorer: engagement, weight: weights.Engagement}
	h.signals[reviewSignalContent] = weightedReviewScorer{scorer: content, weight: weights.Content}
	h.signals[reviewSignalBookContext] = weightedReviewScorer{scorer: bookContext, weight: weights.BookContext}
	return h
}

func (h *ReviewHybridScorer) signalValues(ctx context.Context, userID, bookContextID int64, c domain.ReviewCandidate) [reviewSignalCount]float64 {
	var out [reviewSignalCount]float64
	for i, ws := range h.signals {
		if ws.scorer == nil {
			continue
		}
		s := ws.scorer
		out[i] = safeScore(ctx, s.Name(), s.Fallback(), func() float64 {
			return s.Score(ctx, userID, bookContextID, c)
		})
	}
	return out
}

func (h *ReviewHybridScorer) combine(values [reviewSignalCount]float64) float64 {
	final := 0.0
	for i, ws := range h.signals {
		final += values[i] * ws.weight
	}
	return final
}

func (h *ReviewHybridScorer) CalculateFinalScore(ctx context.Context, userID, bookContextID int64, c domain.ReviewCandidate) float64 {
	return h.combine(h.signalValues(ctx, userID, bookContextID, c))
}

// BatchCalculate scores review candidates concurrently, keyed by review id.
// Candidates without an id are skipped.
func (h *ReviewHybridScorer) BatchCalculate(ctx context.Context, userID, bookContextID int64, candidates []domain.ReviewCandidate) map[int64]float64 {
	finals := make([]float64, len(candidates))

	var g errgroup.Group
	g.SetLimit(h.parallelism)
	for i := range candidates {
		if candidates[i].ReviewID == 0 {
			continue
		}
		g.Go(func() error {
			finals[i] = h.combine(h.signalValues(ctx, userID, bookContextID, candidates[i]))
			return nil
		})
	}
	_ = g.Wait()

	scores := make(map[int64]float64, len(candidates))
	for i, c := range candidates {
		if c.ReviewID == 0 {
			continue
		}
		scores[c.ReviewID] = finals[i]
	}

	logger.Debug("review_hybrid_batch_scored",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"book_context_id", bookContextID,
		"count", len(scores),
	)
	return scores
}

func (h *ReviewHybridScorer) GetScoreBreakdown(ctx context.Context, userID, bookContextID int64, c domain.ReviewCandidate) domain.ReviewScoreBreakdown {
	values := h.signalValues(ctx, userID, bookContextID, c)
	return domain.ReviewScoreBreakdown{
		ReviewID:         c.ReviewID,
		PopularityScore:  values[reviewSignalPopularity],
		FreshnessScore:   values[reviewSignalFreshness],
		EngagementScore:  values[reviewSignalEngagement],
		ContentScore:     values[reviewSignalContent],
		BookContextScore: values[reviewSignalBookContext],
		FinalScore:       h.combine(values),
		Source:           c.Source,
	}
}
