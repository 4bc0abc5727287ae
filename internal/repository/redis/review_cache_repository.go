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
	reviewCacheKeyPrefix = "recommend:review:user:"
	reviewMemberPrefix   = "review:"
)

// ReviewCacheRepository keeps scored reviews per user and book context.
// Members are "review:<reviewID>:<bookID>" so a cached page still carries
// the book each review belongs to.
type ReviewCacheRepository struct {
	client   *redis.Client
	ttl      time.Duration
	maxItems int64
}

func NewReviewCacheRepository(client *redis.Client, ttl time.Duration, maxItems int) *ReviewCacheRepository {
	if maxItems <= 0 {
		maxItems = defaultMaxCachedItems
	}
	return &ReviewCacheRepository{
		client:   client,
		ttl:      ttl,
		maxItems: int64(maxItems),
	}
}

// reviewCacheKey is recommend:review:user:<id>:book:<bookID> on a book page
// and recommend:review:user:<id>:feed otherwise.
func reviewCacheKey(userID, bookContextID int64) string {
	key := reviewCacheKeyPrefix + strconv.FormatInt(userID, 10)
	if bookContextID > 0 {
		return key + ":book:" + strconv.FormatInt(bookContextID, 10)
	}
	return key + ":feed"
}

func reviewMember(reviewID, bookID int64) string {
	return reviewMemberPrefix + strconv.FormatInt(reviewID, 10) + ":" + strconv.FormatInt(bookID, 10)
}

func parseReviewMember(member string) (reviewID, bookID int64, ok bool) {
	rest, found := strings.CutPrefix(member, reviewMemberPrefix)
	if !found {
		return 0, 0, false
	}
	idPart, bookPart, _ := strings.Cut(rest, ":")

	reviewID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || reviewID <= 0 {
		return 0, 0, false
	}
	if bookPart != "" {
		bookID, _ = strconv.ParseInt(bookPart, 10, 64)
	}
	return reviewID, bookID, true
}

// Save replaces the cached reviews for the user and book context.
func (r *ReviewCacheRepository) Save(ctx context.Context, userID, bookContextID int64, results []domain.ReviewRecommendationResult) error {
	key := reviewCacheKey(userID, bookContextID)

	members := make([]redis.Z, 0, len(results))
	for _, res := range results {
		if res.ReviewID <= 0 {
			continue
		}
		members = append(members, redis.Z{Score: res.Score, Member: reviewMember(res.ReviewID, res.BookID)})
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) == 0 {
			return nil
		}
		pipe.ZAdd(ctx, key, members...)
		pipe.ZRemRangeByRank(ctx, key, 0, -r.maxItems-1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save review recommendations for user %d: %w", userID, err)
	}
	return nil
}

// Get returns up to limit cached reviews, highest score first. Ranks are
// left for the caller to assign.
func (r *ReviewCacheRepository) Get(ctx context.Context, userID, bookContextID int64, limit int) ([]domain.ReviewRecommendationResult, error) {
	if limit <= 0 {
		return []domain.ReviewRecommendationResult{}, nil
	}

	tuples, err := r.client.ZRevRangeWithScores(ctx, reviewCacheKey(userID, bookContextID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read review recommendations for user %d: %w", userID, err)
	}

	out := make([]domain.ReviewRecommendationResult, 0, len(tuples))
	for _, z := range tuples {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		reviewID, bookID, ok := parseReviewMember(member)
		if !ok {
			continue
		}
		out = append(out, domain.ReviewRecommendationResult{
			ReviewID: reviewID,
			BookID:   bookID,
			Score:    z.Score,
		})
	}
	return out, nil
}

func (r *ReviewCacheRepository) Exists(ctx context.Context, userID, bookContextID int64) (bool, error) {
	n, err := r.client.ZCard(ctx, reviewCacheKey(userID, bookContextID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check review recommendations for user %d: %w", userID, err)
	}
	return n > 0, nil
}
