package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// EngagementRepository reads the per-session engagement boosts written by
// the activity tracker. Boosts live in hashes keyed by user and bucket.
type EngagementRepository struct {
	client *redis.Client
}

func NewEngagementRepository(client *redis.Client) *EngagementRepository {
	return &EngagementRepository{
		client: client,
	}
}

// GetBoost returns the boost stored at key/field. ok is false when either the
// hash or the field does not exist.
func (r *EngagementRepository) GetBoost(ctx context.Context, key, field string) (float64, bool, error) {
	val, err := r.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read boost %s[%s]: %w", key, field, err)
	}

	boost, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid boost value %q at %s[%s]: %w", val, key, field, err)
	}

	return boost, true, nil
}
