package feed

import (
	"context"
	"fmt"
	"sort"

	"readerFeed/domain"
	"readerFeed/pkg/logger"
)

// CandidateRepository returns the raw, precomputed candidates for one user.
type CandidateRepository interface {
	BookCandidates(ctx context.Context, userID int64, limit int) ([]domain.BookCandidate, error)
	ReviewCandidates(ctx context.Context, userID, bookContextID int64, limit int) ([]domain.ReviewCandidate, error)
}

// RecommendationCache keeps each user's last scored book list.
type RecommendationCache interface {
	Save(ctx context.Context, userID int64, scores map[int64]float64) error
	Get(ctx context.Context, userID int64, limit int) ([]domain.RecommendationResult, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Clear(ctx context.Context, userID int64) error
	Stats(ctx context.Context, userID int64) (domain.RecommendationStats, error)
}

type BookScorer interface {
	BatchCalculate(ctx context.Context, userID int64, candidates []domain.BookCandidate) map[int64]float64
	GetScoreBreakdown(ctx context.Context, userID int64, c domain.BookCandidate) domain.ScoreBreakdown
}

type Sampler interface {
	ApplySampling(ranked []domain.RecommendationResult, sessionID string) []domain.RecommendationResult
}

type Service struct {
	candidates CandidateRepository
	cache      RecommendationCache
	scorer     BookScorer
	sampler    Sampler
	cfg        Config
}

func NewService(candidates CandidateRepository, cache RecommendationCache, scorer BookScorer, sampler Sampler, cfg Config) *Service {
	return &Service{
		candidates: candidates,
		cache:      cache,
		scorer:     scorer,
		sampler:    sampler,
		cfg:        cfg.withDefaults(),
	}
}

// GenerateRecommendations builds the book feed for one user. A warm cache is
// reused unless forceRefresh is set. An empty slice means no candidates.
func (s *Service) GenerateRecommendations(ctx context.Context, userID int64, limit int, sessionID string, forceRefresh bool) ([]domain.RecommendationResult, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	logger.Info("generate_recommendations",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"limit", limit,
		"force_refresh", forceRefresh,
	)

	if !forceRefresh && s.cacheWarm(ctx, userID) {
		cached, err := s.cache.Get(ctx, userID, s.cfg.MaxCachedItems)
		if err == nil && len(cached) > 0 {
			CacheLookupsTotal.WithLabelValues("hit").Inc()
			// redis breaks score ties by member string, not by book id
			sortResults(cached)
			return s.finish(cached, sessionID, limit), nil
		}
		if err != nil {
			logger.Warn("recommendation_cache_read_failed", "user_id", userID, "error", err)
		}
	}
	CacheLookupsTotal.WithLabelValues("miss").Inc()

	raw, err := s.candidates.BookCandidates(ctx, userID, s.cfg.MaxCandidates)
	if err != nil {
		logger.Error("book_candidates_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"user_id", userID,
			"error", err,
		)
		raw = nil
	}
	if len(raw) == 0 {
		logger.Warn("no_candidates_generated", "user_id", userID)
		return []domain.RecommendationResult{}, nil
	}

	unique := dedupeBooks(raw)
	list := make([]domain.BookCandidate, 0, len(unique))
	for _, c := range unique {
		list = append(list, c)
	}

	scores := s.scorer.BatchCalculate(ctx, userID, list)

	if err := s.cache.Save(ctx, userID, scores); err != nil {
		logger.Error("recommendation_cache_write_failed", "user_id", userID, "error", err)
	}

	ranked := make([]domain.RecommendationResult, 0, len(scores))
	for bookID, score := range scores {
		c := unique[bookID]
		ranked = append(ranked, domain.RecommendationResult{
			BookID: bookID,
			Score:  score,
			Source: string(c.Source),
			Reason: c.Reason,
		})
	}
	sortResults(ranked)

	results := s.finish(ranked, sessionID, limit)
	logger.Info("recommendations_generated",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"candidates", len(raw),
		"unique", len(unique),
		"returned", len(results),
	)
	return results, nil
}

// finish samples the ranked list, cuts it to limit and assigns 1-based ranks.
func (s *Service) finish(ranked []domain.RecommendationResult, sessionID string, limit int) []domain.RecommendationResult {
	if s.sampler != nil {
		ranked = s.sampler.ApplySampling(ranked, sessionID)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]domain.RecommendationResult, len(ranked))
	for i, r := range ranked {
		r.Rank = i + 1
		out[i] = r
	}
	return out
}

func (s *Service) cacheWarm(ctx context.Context, userID int64) bool {
	ok, err := s.cache.Exists(ctx, userID)
	if err != nil {
		logger.Warn("recommendation_cache_check_failed", "user_id", userID, "error", err)
		return false
	}
	return ok
}

// GetCachedRecommendations reads the cached list as-is, without sampling.
func (s *Service) GetCachedRecommendations(ctx context.Context, userID int64, limit int) ([]domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	res, err := s.cache.Get(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("read cached recommendations: %w", err)
	}
	return res, nil
}

// RefreshRecommendations drops the cached list and rebuilds it.
func (s *Service) RefreshRecommendations(ctx context.Context, userID int64) ([]domain.RecommendationResult, error) {
	if err := s.cache.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cached recommendations: %w", err)
	}
	logger.Info("recommendations_cache_cleared", "user_id", userID)
	return s.GenerateRecommendations(ctx, userID, s.cfg.RefreshLimit, "", true)
}

func (s *Service) GetStats(ctx context.Context, userID int64) (domain.RecommendationStats, error) {
	stats, err := s.cache.Stats(ctx, userID)
	if err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("read cache stats: %w", err)
	}
	stats.UserID = userID
	return stats, nil
}

// GetScoreBreakdown scores bookID as if it were a collaborative graph
// candidate with a mid-range initial score.
func (s *Service) GetScoreBreakdown(ctx context.Context, userID, bookID int64) (domain.ScoreBreakdown, error) {
	if bookID <= 0 {
		return domain.ScoreBreakdown{}, fmt.Errorf("%w: book id is required", domain.ErrInvalidInput)
	}
	c := domain.BookCandidate{
		BookID:       bookID,
		Source:       domain.SourceGraphCollaborative,
		InitialScore: domain.Score(0.5),
	}
	return s.scorer.GetScoreBreakdown(ctx, userID, c), nil
}

// dedupeBooks keeps one candidate per book, preferring the higher initial
// score. On a tie the first one seen wins.
func dedupeBooks(candidates []domain.BookCandidate) map[int64]domain.BookCandidate {
	out := make(map[int64]domain.BookCandidate, len(candidates))
	for _, c := range candidates {
		if c.BookID == 0 {
			continue
		}
		prev, ok := out[c.BookID]
		if !ok || c.Initial() > prev.Initial() {
			out[c.BookID] = c
		}
	}
	return out
}

// sortResults orders by score desc, then book id desc.
func sortResults(rs []domain.RecommendationResult) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].BookID > rs[j].BookID
	})
}
