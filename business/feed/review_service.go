package feed

import (
	"context"
	"fmt"
	"sort"

	"readerFeed/business/sampling"
	"readerFeed/domain"
	"readerFeed/pkg/logger"
)

type ReviewScorer interface {
	BatchCalculate(ctx context.Context, userID, bookContextID int64, candidates []domain.ReviewCandidate) map[int64]float64
}

// ReviewCache keeps scored reviews per user and book context. A zero
// bookContextID is the general review feed.
type ReviewCache interface {
	Save(ctx context.Context, userID, bookContextID int64, results []domain.ReviewRecommendationResult) error
	Get(ctx context.Context, userID, bookContextID int64, limit int) ([]domain.ReviewRecommendationResult, error)
	Exists(ctx context.Context, userID, bookContextID int64) (bool, error)
}

// ExposureStore tracks reviews recently shown in a user's feed.
type ExposureStore interface {
	Recent(ctx context.Context, userID int64, limit int) (map[int64]struct{}, error)
	Record(ctx context.Context, userID int64, reviewIDs []int64) error
}

type ReviewService struct {
	candidates CandidateRepository
	cache      ReviewCache
	exposures  ExposureStore
	scorer     ReviewScorer
	sampler    *sampling.WindowSampler
	cfg        Config
}

func NewReviewService(candidates CandidateRepository, cache ReviewCache, exposures ExposureStore, scorer ReviewScorer, sampler *sampling.WindowSampler, cfg Config) *ReviewService {
	return &ReviewService{
		candidates: candidates,
		cache:      cache,
		exposures:  exposures,
		scorer:     scorer,
		sampler:    sampler,
		cfg:        cfg.withDefaults(),
	}
}

// RecommendReviews ranks review candidates for a user. A non-zero
// bookContextID scopes the feed to a book page and boosts that book's reviews.
//
// Scores are cached per user and book context and reused unless forceRefresh
// is set. In the general feed, reviews shown recently are left out of a fresh
// ranking and every page served is recorded as shown. cursor is the review id
// of the last item of the previous page; an unknown cursor yields an empty page.
func (s *ReviewService) RecommendReviews(ctx context.Context, userID, bookContextID int64, cursor *int64, limit int, sessionID string, forceRefresh bool) ([]domain.ReviewRecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if bookContextID < 0 {
		return nil, fmt.Errorf("%w: book id must not be negative", domain.ErrInvalidInput)
	}
	if cursor != nil && *cursor <= 0 {
		return nil, fmt.Errorf("%w: cursor must be a review id", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	if !forceRefresh && s.cacheWarm(ctx, userID, bookContextID) {
		cached, err := s.cache.Get(ctx, userID, bookContextID, s.cfg.MaxCachedItems)
		if err == nil && len(cached) > 0 {
			ReviewCacheLookupsTotal.WithLabelValues("hit").Inc()
			sortReviews(cached)
			return s.finish(ctx, userID, bookContextID, cached, cursor, limit, sessionID), nil
		}
		if err != nil {
			logger.Warn("review_cache_read_failed", "user_id", userID, "book_context_id", bookContextID, "error", err)
		}
	}
	ReviewCacheLookupsTotal.WithLabelValues("miss").Inc()

	raw, err := s.candidates.ReviewCandidates(ctx, userID, bookContextID, s.cfg.MaxCandidates)
	if err != nil {
		logger.Error("review_candidates_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"user_id", userID,
			"book_context_id", bookContextID,
			"error", err,
		)
		return []domain.ReviewRecommendationResult{}, nil
	}
	if bookContextID == 0 {
		raw = s.withoutRecentlyShown(ctx, userID, raw)
	}

	unique := dedupeReviews(raw)
	if len(unique) == 0 {
		return []domain.ReviewRecommendationResult{}, nil
	}
	list := make([]domain.ReviewCandidate, 0, len(unique))
	for _, c := range unique {
		list = append(list, c)
	}

	scores := s.scorer.BatchCalculate(ctx, userID, bookContextID, list)

	ranked := make([]domain.ReviewRecommendationResult, 0, len(scores))
	for reviewID, score := range scores {
		c := unique[reviewID]
		ranked = append(ranked, domain.ReviewRecommendationResult{
			ReviewID: reviewID,
			BookID:   c.BookID,
			Score:    score,
			Source:   string(c.Source),
		})
	}

	if err := s.cache.Save(ctx, userID, bookContextID, ranked); err != nil {
		logger.Error("review_cache_write_failed", "user_id", userID, "book_context_id", bookContextID, "error", err)
	}

	sortReviews(ranked)
	return s.finish(ctx, userID, bookContextID, ranked, cursor, limit, sessionID), nil
}

// finish samples the ranked list, cuts the page after cursor, assigns ranks
// and records what the general feed showed.
func (s *ReviewService) finish(ctx context.Context, userID, bookContextID int64, ranked []domain.ReviewRecommendationResult, cursor *int64, limit int, sessionID string) []domain.ReviewRecommendationResult {
	ranked = sampling.Reorder(s.sampler, ranked, sessionID)
	page := pageAfter(ranked, cursor, limit)
	for i := range page {
		page[i].Rank = i + 1
	}

	label := "feed"
	if bookContextID != 0 {
		label = "book"
	}
	ReviewFeedItemsTotal.WithLabelValues(label).Add(float64(len(page)))

	if bookContextID == 0 && len(page) > 0 {
		ids := make([]int64, len(page))
		for i, r := range page {
			ids[i] = r.ReviewID
		}
		if err := s.exposures.Record(ctx, userID, ids); err != nil {
			logger.Warn("review_exposure_record_failed", "user_id", userID, "error", err)
		}
	}

	logger.Info("review_recommendations_generated",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"book_context_id", bookContextID,
		"returned", len(page),
	)
	return page
}

// withoutRecentlyShown drops candidates the user saw recently. When that
// would leave nothing, the unfiltered list is kept.
func (s *ReviewService) withoutRecentlyShown(ctx context.Context, userID int64, raw []domain.ReviewCandidate) []domain.ReviewCandidate {
	seen, err := s.exposures.Recent(ctx, userID, s.cfg.ExposureFilterLimit)
	if err != nil {
		logger.Warn("review_exposure_read_failed", "user_id", userID, "error", err)
		return raw
	}
	if len(seen) == 0 {
		return raw
	}

	fresh := make([]domain.ReviewCandidate, 0, len(raw))
	for _, c := range raw {
		if _, ok := seen[c.ReviewID]; !ok {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		logger.Info("review_exposure_filter_exhausted", "user_id", userID, "candidates", len(raw))
		return raw
	}
	return fresh
}

func (s *ReviewService) cacheWarm(ctx context.Context, userID, bookContextID int64) bool {
	ok, err := s.cache.Exists(ctx, userID, bookContextID)
	if err != nil {
		logger.Warn("review_cache_check_failed", "user_id", userID, "book_context_id", bookContextID, "error", err)
		return false
	}
	return ok
}

// pageAfter returns up to limit items following the item whose review id is
// cursor, or the first limit items when cursor is nil.
func pageAfter(ranked []domain.ReviewRecommendationResult, cursor *int64, limit int) []domain.ReviewRecommendationResult {
	start := 0
	if cursor != nil {
		start = -1
		for i, r := range ranked {
			if r.ReviewID == *cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return []domain.ReviewRecommendationResult{}
		}
	}

	end := min(start+limit, len(ranked))
	if start >= end {
		return []domain.ReviewRecommendationResult{}
	}
	out := make([]domain.ReviewRecommendationResult, end-start)
	copy(out, ranked[start:end])
	return out
}

// sortReviews orders by score desc, then review id desc.
func sortReviews(rs []domain.ReviewRecommendationResult) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].ReviewID > rs[j].ReviewID
	})
}

func dedupeReviews(candidates []domain.ReviewCandidate) map[int64]domain.ReviewCandidate {
	out := make(map[int64]domain.ReviewCandidate, len(candidates))
	for _, c := range candidates {
		if c.ReviewID == 0 {
			continue
		}
		prev, ok := out[c.ReviewID]
		if !ok || c.Initial() > prev.Initial() {
			out[c.ReviewID] = c
		}
	}
	return out
}
