package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"readerFeed/domain"

	"github.com/redis/go-redis/v9"
)

const (
	recommendationKeyPrefix = "recommend:user:"
	bookMemberPrefix        = "book:"
	defaultMaxCachedItems   = 100
)

// RecommendationCacheRepository keeps each user's scored books in a sorted
// set, trimmed to the best maxItems and expired after ttl.
type RecommendationCacheRepository struct {
	client   *redis.Client
	ttl      time.Duration
	maxItems int64
}

func NewRecommendationCacheRepository(client *redis.Client, ttl time.Duration, maxItems int) *RecommendationCacheRepository {
	if maxItems <= 0 {
		maxItems = defaultMaxCachedItems
	}
	return &RecommendationCacheRepository{
		client:   client,
		ttl:      ttl,
		maxItems: int64(maxItems),
	}
}

func recommendationKey(userID int64) string {
	return recommendationKeyPrefix + strconv.FormatInt(userID, 10)
}

// Save replaces the cached list for userID.
func (r *RecommendationCacheRepository) Save(ctx context.Context, userID int64, scores map[int64]float64) error {
	key := recommendationKey(userID)

	members := make([]redis.Z, 0, len(scores))
	for bookID, score := range scores {
		members = append(members, redis.Z{
			Score:  score,
			Member: bookMemberPrefix + strconv.FormatInt(bookID, 10),
		})
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) == 0 {
			return nil
		}
		pipe.ZAdd(ctx, key, members...)
		// keep only the top maxItems
		pipe.ZRemRangeByRank(ctx, key, 0, -r.maxItems-1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save recommendations for user %d: %w", userID, err)
	}

	return nil
}

// Get returns up to limit cached books, best first, ranked from 1.
func (r *RecommendationCacheRepository) Get(ctx context.Context, userID int64, limit int) ([]domain.RecommendationResult, error) {
	if limit <= 0 {
		return []domain.RecommendationResult{}, nil
	}

	tuples, err := r.client.ZRevRangeWithScores(ctx, recommendationKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendations for user %d: %w", userID, err)
	}

	out := make([]domain.RecommendationResult, 0, len(tuples))
	for _, z := range tuples {
		member, ok := z.Member.(string)
		if !ok || !strings.HasPrefix(member, bookMemberPrefix) {
			continue
		}
		bookID, err := strconv.ParseInt(strings.TrimPrefix(member, bookMemberPrefix), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, domain.RecommendationResult{
			BookID: bookID,
			Score:  z.Score,
			Rank:   len(out) + 1,
		})
	}

	return out, nil
}

func (r *RecommendationCacheRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	n, err := r.client.ZCard(ctx, recommendationKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check recommendations for user %d: %w", userID, err)
	}
	return n > 0, nil
}

func (r *RecommendationCacheRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, recommendationKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear recommendations for user %d: %w", userID, err)
	}
	return nil
}

// Stats reports the cached size and remaining TTL. A missing key or a key
// without expiry reports a TTL of 0.
func (r *RecommendationCacheRepository) Stats(ctx context.Context, userID int64) (domain.RecommendationStats, error) {
	key := recommendationKey(userID)

	var card *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		card = pipe.ZCard(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return domain.RecommendationStats{}, fmt.Errorf("failed to read cache stats for user %d: %w", userID, err)
	}

	seconds := int64(ttl.Val() / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	return domain.RecommendationStats{
		UserID:                   userID,
		CachedItems:              card.Val(),
		CacheTTLSeconds:          seconds,
		HasCachedRecommendations: card.Val() > 0,
	}, nil
}
