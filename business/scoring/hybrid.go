package scoring

import (
	"context"

	"readerFeed/domain"
	"readerFeed/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// signal positions in HybridScorer.signals
const (
	signalGraph = iota
	signalSemantic
	signalEngagement
	signalPopularity
	signalFreshness
	signalCount
)

type weightedScorer struct {
	scorer Scorer
	weight float64
}

// HybridScorer fuses every book signal into one ranking score.
type HybridScorer struct {
	signals     [signalCount]weightedScorer
	parallelism int
}

func NewHybridScorer(
	graph Scorer,
	semantic Scorer,
	engagement Scorer,
	popularity Scorer,
	freshness Scorer,
	weights Weights,
) *HybridScorer {
	h := &HybridScorer{parallelism: defaultParallelism}
	h.signals[signalGraph] = weightedScorer{scorer: graph, weight: weights.Graph}
	h.signals[signalSemantic] = weightedScorer{scorer: semantic, weight: weights.Semantic}
	h.signals[signalEngagement] = weightedScorer{scorer: engagement, weight: weights.Engagement}
	h.signals[signalPopularity] = weightedScorer{scorer: popularity, weight: weights.Popularity}
	h.signals[signalFreshness] = weightedScorer{scorer: freshness, weight: weights.Freshness}
	return h
}

// safeScore runs one scorer and substitutes its fallback if it panics.
func safeScore(ctx context.Context, name string, fallback float64, fn func() float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("scorer_panic",
				"trace_id", logger.TraceIDFromContext(ctx),
				"scorer", name,
				"panic", r,
			)
			ScorerFallbackTotal.WithLabelValues(name, "panic").Inc()
			v = fallback
		}
	}()
	return clamp01(fn())
}

func (h *HybridScorer) signalValues(ctx context.Context, userID int64, c domain.BookCandidate) [signalCount]float64 {
	var out [signalCount]float64
	for i, ws := range h.signals {
		if ws.scorer == nil {
			continue
		}
		s := ws.scorer
		out[i] = safeScore(ctx, s.Name(), s.Fallback(), func() float64 {
			return s.Score(ctx, userID, c)
		})
	}
	return out
}

func (h *HybridScorer) combine(values [signalCount]float64) float64 {
	final := 0.0
	for i, ws := range h.signals {
		final += values[i] * ws.weight
	}
	return final
}

// CalculateFinalScore returns Σ signal × weight for one candidate.
func (h *HybridScorer) CalculateFinalScore(ctx context.Context, userID int64, c domain.BookCandidate) float64 {
	values := h.signalValues(ctx, userID, c)
	final := h.combine(values)

	logger.Debug("hybrid_score",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"book_id", c.BookID,
		"graph", values[signalGraph],
		"semantic", values[signalSemantic],
		"engagement", values[signalEngagement],
		"popularity", values[signalPopularity],
		"freshness", values[signalFreshness],
		"final", final,
	)

	return final
}

// BatchCalculate scores every candidate, keyed by book id. Candidates are
// scored concurrently; a repeated book id keeps the last candidate's score.
func (h *HybridScorer) BatchCalculate(ctx context.Context, userID int64, candidates []domain.BookCandidate) map[int64]float64 {
	finals := make([]float64, len(candidates))

	var g errgroup.Group
	g.SetLimit(h.parallelism)
	for i := range candidates {
		g.Go(func() error {
			finals[i] = h.combine(h.signalValues(ctx, userID, candidates[i]))
			return nil
		})
	}
	_ = g.Wait()

	scores := make(map[int64]float64, len(candidates))
	for i, c := range candidates {
		scores[c.BookID] = finals[i]
	}

	logger.Debug("hybrid_batch_scored",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"count", len(scores),
	)
	return scores
}

// GetScoreBreakdown exposes every intermediate value behind the final score.
func (h *HybridScorer) GetScoreBreakdown(ctx context.Context, userID int64, c domain.BookCandidate) domain.ScoreBreakdown {
	values := h.signalValues(ctx, userID, c)
	return domain.ScoreBreakdown{
		BookID:          c.BookID,
		GraphScore:      values[signalGraph],
		SemanticScore:   values[signalSemantic],
		EngagementScore: values[signalEngagement],
		PopularityScore: values[signalPopularity],
		FreshnessScore:  values[signalFreshness],
		FinalScore:      h.combine(values),
		Source:          c.Source,
		Reason:          c.Reason,
	}
}
