package redis

import (
	"context"
	"testing"
	"time"

	"readerFeed/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestEngagementRepository_GetBoost(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewEngagementRepository(client)
	ctx := context.Background()

	mr.HSet("session:user:1:books", "100", "0.25")
	mr.HSet("session:user:1:books", "200", "garbage")

	t.Run("present", func(t *testing.T) {
		v, ok, err := repo.GetBoost(ctx, "session:user:1:books", "100")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.25, v)
	})

	t.Run("missing field", func(t *testing.T) {
		_, ok, err := repo.GetBoost(ctx, "session:user:1:books", "999")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := repo.GetBoost(ctx, "session:user:2:books", "100")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, ok, err := repo.GetBoost(ctx, "session:user:1:books", "200")
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("connection failure", func(t *testing.T) {
		mr.SetError("server down")
		defer mr.SetError("")

		_, _, err := repo.GetBoost(ctx, "session:user:1:books", "100")
		require.Error(t, err)
	})
}

func TestRecommendationCacheRepository(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewRecommendationCacheRepository(client, 24*time.Hour, 3)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.Save(ctx, 7, map[int64]float64{1: 0.1, 2: 0.9, 3: 0.5, 4: 0.7, 5: 0.3})
	require.NoError(t, err)

	ok, err = repo.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := repo.Get(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, res, 3, "trimmed to the best three")
	assert.Equal(t, int64(2), res[0].BookID)
	assert.Equal(t, int64(4), res[1].BookID)
	assert.Equal(t, int64(3), res[2].BookID)
	assert.Equal(t, 0.9, res[0].Score)
	assert.Equal(t, 1, res[0].Rank)
	assert.Equal(t, 3, res[2].Rank)

	top, err := repo.Get(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].BookID)

	assert.Equal(t, 24*time.Hour, mr.TTL("recommend:user:7"))

	stats, err := repo.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.UserID)
	assert.Equal(t, int64(3), stats.CachedItems)
	assert.Equal(t, int64(24*3600), stats.CacheTTLSeconds)
	assert.True(t, stats.HasCachedRecommendations)

	// a second save replaces the list
	require.NoError(t, repo.Save(ctx, 7, map[int64]float64{9: 0.4}))
	res, err = repo.Get(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(9), res[0].BookID)

	require.NoError(t, repo.Clear(ctx, 7))
	stats, err = repo.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, stats.CachedItems)
	assert.Zero(t, stats.CacheTTLSeconds)
	assert.False(t, stats.HasCachedRecommendations)
}

func TestRecommendationCacheRepository_SkipsForeignMembers(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewRecommendationCacheRepository(client, time.Hour, 0)
	ctx := context.Background()

	_, err := mr.ZAdd("recommend:user:3", 0.9, "book:12")
	require.NoError(t, err)
	_, err = mr.ZAdd("recommend:user:3", 0.8, "review:5")
	require.NoError(t, err)
	_, err = mr.ZAdd("recommend:user:3", 0.7, "book:abc")
	require.NoError(t, err)

	res, err := repo.Get(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(12), res[0].BookID)

	empty, err := repo.Get(ctx, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReviewExposureRepository(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewReviewExposureRepository(client, 3, 24*time.Hour)
	ctx := context.Background()

	clock := time.UnixMilli(1_700_000_000_000)
	repo.now = func() time.Time { return clock }

	seen, err := repo.Recent(ctx, 1, 200)
	require.NoError(t, err)
	assert.Empty(t, seen)

	require.NoError(t, repo.Record(ctx, 1, []int64{100, 0, 101}))
	clock = clock.Add(time.Second)
	require.NoError(t, repo.Record(ctx, 1, []int64{102, 103}))

	members, err := mr.ZMembers("recommend:review:exposed:user:1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"101", "102", "103"}, members, "trimmed to the newest three")
	score, err := mr.ZScore("recommend:review:exposed:user:1", "103")
	require.NoError(t, err)
	assert.Equal(t, float64(clock.UnixMilli()), score)
	assert.Equal(t, 24*time.Hour, mr.TTL("recommend:review:exposed:user:1"))

	seen, err = repo.Recent(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, seen, 2)
	assert.Contains(t, seen, int64(102))
	assert.Contains(t, seen, int64(103))

	mr.FastForward(25 * time.Hour)
	seen, err = repo.Recent(ctx, 1, 200)
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestReviewExposureRepository_SkipsBadInput(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewReviewExposureRepository(client, 0, 0)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, 0, []int64{1}))
	require.NoError(t, repo.Record(ctx, 2, nil))
	assert.False(t, mr.Exists("recommend:review:exposed:user:0"))
	assert.False(t, mr.Exists("recommend:review:exposed:user:2"))

	_, err := mr.ZAdd("recommend:review:exposed:user:2", 1, "100")
	require.NoError(t, err)
	_, err = mr.ZAdd("recommend:review:exposed:user:2", 2, "invalid")
	require.NoError(t, err)

	seen, err := repo.Recent(ctx, 2, 200)
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{100: {}}, seen)

	mr.SetError("server down")
	defer mr.SetError("")
	_, err = repo.Recent(ctx, 2, 200)
	require.Error(t, err)
	require.Error(t, repo.Record(ctx, 2, []int64{5}))
}

func TestReviewCacheRepository(t *testing.T) {
	mr, client := setupTestClient(t)
	repo := NewReviewCacheRepository(client, 24*time.Hour, 3)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, 7, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.Save(ctx, 7, 0, []domain.ReviewRecommendationResult{
		{ReviewID: 1, BookID: 10, Score: 0.1},
		{ReviewID: 2, BookID: 20, Score: 0.9},
		{ReviewID: 3, BookID: 30, Score: 0.5},
		{ReviewID: 4, BookID: 40, Score: 0.7},
		{BookID: 50, Score: 1},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, 7, 9, []domain.ReviewRecommendationResult{{ReviewID: 8, BookID: 9, Score: 0.2}}))

	ok, err = repo.Exists(ctx, 7, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("recommend:review:user:7:feed"))
	assert.True(t, mr.Exists("recommend:review:user:7:book:9"))
	assert.Equal(t, 24*time.Hour, mr.TTL("recommend:review:user:7:feed"))

	res, err := repo.Get(ctx, 7, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ReviewRecommendationResult{
		{ReviewID: 2, BookID: 20, Score: 0.9},
		{ReviewID: 4, BookID: 40, Score: 0.7},
		{ReviewID: 3, BookID: 30, Score: 0.5},
	}, res)

	book, err := repo.Get(ctx, 7, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ReviewRecommendationResult{{ReviewID: 8, BookID: 9, Score: 0.2}}, book)

	// members without a book id still decode
	_, err = mr.ZAdd("recommend:review:user:5:feed", 0.3, "review:77")
	require.NoError(t, err)
	_, err = mr.ZAdd("recommend:review:user:5:feed", 0.2, "book:12")
	require.NoError(t, err)
	legacy, err := repo.Get(ctx, 5, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ReviewRecommendationResult{{ReviewID: 77, Score: 0.3}}, legacy)
}
