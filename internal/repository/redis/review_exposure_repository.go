package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	exposureKeyPrefix       = "recommend:review:exposed:user:"
	defaultExposureMaxItems = 200
	defaultExposureTTL      = 24 * time.Hour
)

// ReviewExposureRepository remembers which reviews a user was recently shown.
// Each user has a sorted set of review ids scored by exposure time in unix
// millis, trimmed to the newest maxItems.
type ReviewExposureRepository struct {
	client   *redis.Client
	maxItems int64
	ttl      time.Duration
	now      func() time.Time
}

func NewReviewExposureRepository(client *redis.Client, maxItems int, ttl time.Duration) *ReviewExposureRepository {
	if maxItems <= 0 {
		maxItems = defaultExposureMaxItems
	}
	if ttl <= 0 {
		ttl = defaultExposureTTL
	}
	return &ReviewExposureRepository{
		client:   client,
		maxItems: int64(maxItems),
		ttl:      ttl,
		now:      time.Now,
	}
}

func exposureKey(userID int64) string {
	return exposureKeyPrefix + strconv.FormatInt(userID, 10)
}

// Recent returns up to limit of the most recently exposed review ids.
// Members that are not review ids are skipped.
func (r *ReviewExposureRepository) Recent(ctx context.Context, userID int64, limit int) (map[int64]struct{}, error) {
	if userID <= 0 || limit <= 0 {
		return map[int64]struct{}{}, nil
	}

	members, err := r.client.ZRevRange(ctx, exposureKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read exposed reviews for user %d: %w", userID, err)
	}

	out := make(map[int64]struct{}, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		out[id] = struct{}{}
	}
	return out, nil
}

// Record marks reviewIDs as shown now, then trims and refreshes the TTL.
func (r *ReviewExposureRepository) Record(ctx context.Context, userID int64, reviewIDs []int64) error {
	if userID <= 0 {
		return nil
	}

	score := float64(r.now().UnixMilli())
	members := make([]redis.Z, 0, len(reviewIDs))
	for _, id := range reviewIDs {
		if id <= 0 {
			continue
		}
		members = append(members, redis.Z{Score: score, Member: strconv.FormatInt(id, 10)})
	}
	if len(members) == 0 {
		return nil
	}

	key := exposureKey(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		// oldest exposures go first
		pipe.ZRemRangeByRank(ctx, key, 0, -r.maxItems-1)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record exposed reviews for user %d: %w", userID, err)
	}
	return nil
}
