package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0.4, cfg.Scoring.GraphWeight)
	assert.Equal(t, 0.1, cfg.ReviewScoring.BookContextWeight)
	assert.True(t, cfg.Sampling.Enabled)
	assert.Equal(t, 60, cfg.Sampling.BucketSeconds)
	require.Len(t, cfg.Sampling.Tiers, 3)
	assert.Equal(t, SamplingTier{Size: 10, Strategy: "PARTIAL", FixedTopN: 3}, cfg.Sampling.Tiers[0])
	assert.Equal(t, 0.6, cfg.Highlight.ESWeight)
	assert.Equal(t, 200, cfg.Highlight.MaxCandidates)
	assert.Equal(t, 24, cfg.Feed.CacheTTLHours)
	assert.Equal(t, 100, cfg.Feed.ReviewCacheMaxItems)
	assert.Equal(t, 200, cfg.Feed.ExposureFilterLimit)
	assert.Equal(t, 200, cfg.Feed.ExposureMaxItems)
	assert.Equal(t, 24, cfg.Feed.ExposureTTLHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("SCORING_WEIGHT_GRAPH", "1.5")
	t.Setenv("SAMPLING_ENABLED", "false")
	t.Setenv("SAMPLING_TIER2_WINDOW_SIZE", "4")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REVIEW_EXPOSURE_MAX_ITEMS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Scoring.GraphWeight)
	assert.False(t, cfg.Sampling.Enabled)
	assert.Equal(t, 4, cfg.Sampling.Tiers[1].FixedTopN)
	assert.Equal(t, 0, cfg.Redis.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 50, cfg.Feed.ExposureMaxItems)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "pw")
	_, err := Load()
	assert.EqualError(t, err, "missing jwt secret")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "")
	_, err = Load()
	assert.EqualError(t, err, "missing database password")
}
