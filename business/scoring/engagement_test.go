//go:build !integration

package scoring

import (
	"context"
	"errors"
	"testing"

	"readerFeed/domain"

	"github.com/stretchr/testify/assert"
)

type fakeBoostStore struct {
	values map[string]float64
	err    error
	calls  int
}

func (f *fakeBoostStore) GetBoost(_ context.Context, key, field string) (float64, bool, error) {
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.values[key+"|"+field]
	return v, ok, nil
}

func TestEngagementScorer_Saturation(t *testing.T) {
	store := &fakeBoostStore{values: map[string]float64{
		"session:user:1:books|100": 0.5,
		"session:user:1:books|200": 0.25,
		"session:user:1:books|300": 0.3,
		"session:user:1:books|400": 1.0,
		"session:user:1:books|500": 0.0,
		"session:user:2:books|100": 0.4,
	}}
	s := NewEngagementScorer(store)
	ctx := context.Background()

	score := func(userID, bookID int64) float64 {
		return s.Score(ctx, userID, domain.BookCandidate{BookID: bookID, Source: domain.SourceGraphGenre})
	}

	assert.Equal(t, 1.0, score(1, 100))
	assert.Equal(t, 0.5, score(1, 200))
	assert.InDelta(t, 0.6, score(1, 300), 1e-9)
	assert.Equal(t, 1.0, score(1, 400))
	assert.Equal(t, 0.0, score(1, 500))
	assert.InDelta(t, 0.8, score(2, 100), 1e-9)
	assert.Equal(t, 0.0, score(1, 999), "missing boost")
}

func TestEngagementScorer_StoreFailureFallsBack(t *testing.T) {
	s := NewEngagementScorer(&fakeBoostStore{err: errors.New("redis error")})
	got := s.Score(context.Background(), 1, domain.BookCandidate{BookID: 100})
	assert.Equal(t, 0.0, got)
}

func TestEngagementScorer_SkipsLookupWithoutIDs(t *testing.T) {
	store := &fakeBoostStore{}
	s := NewEngagementScorer(store)

	assert.Equal(t, 0.0, s.Score(context.Background(), 0, domain.BookCandidate{BookID: 100}))
	assert.Equal(t, 0.0, s.Score(context.Background(), 1, domain.BookCandidate{}))
	assert.Zero(t, store.calls)
}

func TestReviewEngagementScorer(t *testing.T) {
	store := &fakeBoostStore{values: map[string]float64{
		"session:user:1:reviews|100": 0.3,
		"session:user:1:reviews|200": 0.25,
		"session:user:2:reviews|100": 0.4,
	}}
	s := NewReviewEngagementScorer(store)
	ctx := context.Background()

	assert.InDelta(t, 0.6, s.Score(ctx, 1, 0, domain.ReviewCandidate{ReviewID: 100}), 1e-9)
	assert.Equal(t, 0.5, s.Score(ctx, 1, 0, domain.ReviewCandidate{ReviewID: 200}))
	assert.InDelta(t, 0.8, s.Score(ctx, 2, 0, domain.ReviewCandidate{ReviewID: 100}), 1e-9)
	assert.Equal(t, 0.0, s.Score(ctx, 0, 0, domain.ReviewCandidate{ReviewID: 100}))
	assert.Equal(t, 0.0, s.Score(ctx, 1, 0, domain.ReviewCandidate{}))

	broken := NewReviewEngagementScorer(&fakeBoostStore{err: errors.New("redis error")})
	assert.Equal(t, 0.0, broken.Score(ctx, 1, 0, domain.ReviewCandidate{ReviewID: 100}))
}
