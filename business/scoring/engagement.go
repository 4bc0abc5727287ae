package scoring

import (
	"context"
	"fmt"
	"strconv"

	"readerFeed/domain"
	"readerFeed/pkg/logger"
)

// A boost at or above this value means maximum engagement.
const boostSaturation = 0.5

func BookBoostKey(userID int64) string {
	return fmt.Sprintf("session:user:%d:books", userID)
}

func ReviewBoostKey(userID int64) string {
	return fmt.Sprintf("session:user:%d:reviews", userID)
}

// boostScore looks up key/field and maps the boost onto [0, 1]. Read errors
// are logged and scored as "no boost".
func boostScore(ctx context.Context, store BoostStore, scorer, key, field string) float64 {
	if store == nil {
		return 0
	}

	boost, ok, err := store.GetBoost(ctx, key, field)
	if err != nil {
		logger.Warn("engagement_boost_read_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"scorer", scorer,
			"key", key,
			"field", field,
			"error", err,
		)
		ScorerFallbackTotal.WithLabelValues(scorer, "store_error").Inc()
		return 0
	}
	if !ok {
		return 0
	}

	return clamp01(boost / boostSaturation)
}

// EngagementScorer rewards books the user interacted with during the
// current session.
type EngagementScorer struct {
	store BoostStore
}

func NewEngagementScorer(store BoostStore) *EngagementScorer {
	return &EngagementScorer{store: store}
}

func (s *EngagementScorer) Name() string      { return "engagement" }
func (s *EngagementScorer) Fallback() float64 { return 0 }

func (s *EngagementScorer) Score(ctx context.Context, userID int64, c domain.BookCandidate) float64 {
	if userID == 0 || c.BookID == 0 {
		return 0
	}
	return boostScore(ctx, s.store, s.Name(), BookBoostKey(userID), strconv.FormatInt(c.BookID, 10))
}

type ReviewEngagementScorer struct {
	store BoostStore
}

func NewReviewEngagementScorer(store BoostStore) *ReviewEngagementScorer {
	return &ReviewEngagementScorer{store: store}
}

func (s *ReviewEngagementScorer) Name() string      { return "review_engagement" }
func (s *ReviewEngagementScorer) Fallback() float64 { return 0 }

func (s *ReviewEngagementScorer) Score(ctx context.Context, userID, _ int64, c domain.ReviewCandidate) float64 {
	if userID == 0 || c.ReviewID == 0 {
		return 0
	}
	return boostScore(ctx, s.store, s.Name(), ReviewBoostKey(userID), strconv.FormatInt(c.ReviewID, 10))
}
