package scoring

import (
	"context"
	"math"
	"time"

	"readerFeed/domain"
)

// Scorer maps one (user, book candidate) pair to a relevance estimate in
// [0, 1]. Implementations never fail: an unusable candidate or a broken
// dependency yields Fallback().
type Scorer interface {
	Name() string
	Score(ctx context.Context, userID int64, c domain.BookCandidate) float64
	Fallback() float64
}

// ReviewScorer is the review-feed counterpart of Scorer. bookContextID is the
// book page the feed is rendered on, 0 when there is none.
type ReviewScorer interface {
	Name() string
	Score(ctx context.Context, userID, bookContextID int64, c domain.ReviewCandidate) float64
	Fallback() float64
}

// BoostStore reads short-lived per-user engagement boosts.
type BoostStore interface {
	GetBoost(ctx context.Context, key, field string) (float64, bool, error)
}

// PublishDateLookup resolves a book's publication date by id.
type PublishDateLookup interface {
	PublishedDate(ctx context.Context, bookID int64) (time.Time, bool, error)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ageInDays counts whole days between t and now; future timestamps count as 0.
func ageInDays(t, now time.Time) float64 {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return math.Floor(d.Hours() / 24)
}
