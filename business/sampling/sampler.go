package sampling

import (
	"math/rand"
	"strings"
	"time"

	"readerFeed/domain"
	"readerFeed/pkg/logger"
)

// WindowSampler reorders a score-sorted list tier by tier so repeated
// requests do not always show the identical top of the feed.
type WindowSampler struct {
	cfg Config
	now func() time.Time
}

func NewWindowSampler(cfg Config) *WindowSampler {
	if cfg.BucketWidth <= 0 {
		cfg.BucketWidth = defaultBucketWidth
	}
	return &WindowSampler{cfg: cfg, now: time.Now}
}

func (s *WindowSampler) Enabled() bool { return s.cfg.Enabled }

// ApplySampling reorders ranked recommendations for one session.
func (s *WindowSampler) ApplySampling(ranked []domain.RecommendationResult, sessionID string) []domain.RecommendationResult {
	return Reorder(s, ranked, sessionID)
}

// Reorder is ApplySampling for any item type. The result is always a
// permutation of items; items beyond the configured tiers keep their order.
func Reorder[T any](s *WindowSampler, items []T, sessionID string) []T {
	if s == nil || !s.cfg.Enabled || len(items) == 0 {
		return items
	}

	rng := rand.New(rand.NewSource(sessionSeed(sessionID, s.now(), s.cfg.BucketWidth)))

	out := make([]T, 0, len(items))
	start := 0
	for _, tier := range s.cfg.Tiers {
		size := min(tier.Size, len(items)-start)
		if size <= 0 {
			continue
		}

		seg := items[start : start+size]
		shuffle := ShuffleConfig{FixedTopN: tier.FixedTopN, WindowSize: tier.FixedTopN}
		for _, i := range Permute(size, tier.Strategy, shuffle, rng) {
			out = append(out, seg[i])
		}

		SamplingTierItems.WithLabelValues(string(tier.Strategy)).Add(float64(size))
		start += size
	}
	out = append(out, items[start:]...)

	label := "session"
	if strings.TrimSpace(sessionID) == "" {
		label = "anonymous"
	}
	SamplingAppliedTotal.WithLabelValues(label).Inc()

	logger.Debug("window_sampling_applied",
		"items", len(items),
		"tiered", start,
		"session", label,
	)
	return out
}
