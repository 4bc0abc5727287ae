//go:build !integration

package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuse_TieBreakByIDDesc(t *testing.T) {
	search := map[int64]float64{50: 0.9, 80: 0.9}

	got := fuse(nil, search, 1.0, 0)
	require.Len(t, got, 2)
	assert.Equal(t, int64(80), got[0].reviewID)
	assert.Equal(t, int64(50), got[1].reviewID)
	assert.Equal(t, got[0].score, got[1].score)
}

func TestFuse_NormalizesEachChannelByItsMax(t *testing.T) {
	graph := map[int64]float64{1: 1, 2: 1}
	search := map[int64]float64{2: 12.5, 3: 25}

	got := fuse(graph, search, 0.6, 0.4)
	scores := map[int64]float64{}
	for _, s := range got {
		scores[s.reviewID] = s.score
	}

	assert.InDelta(t, 0.4, scores[1], 1e-9)
	assert.InDelta(t, 0.6*0.5+0.4, scores[2], 1e-9)
	assert.InDelta(t, 0.6, scores[3], 1e-9)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].reviewID, got[1].reviewID, got[2].reviewID})
}

func TestFuse_ZeroMaxContributesNothing(t *testing.T) {
	search := map[int64]float64{4: 0, 5: 0}
	got := fuse(map[int64]float64{}, search, 0.6, 0.4)

	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, 0.0, s.score)
	}
	assert.Empty(t, fuse(nil, nil, 0.6, 0.4))
}

func TestPaginate(t *testing.T) {
	scored := []scoredReview{
		{reviewID: 9, score: 0.9},
		{reviewID: 7, score: 0.8},
		{reviewID: 5, score: 0.7},
		{reviewID: 3, score: 0.6},
		{reviewID: 1, score: 0.5},
	}

	page := paginate(scored, 2)
	assert.Equal(t, []int64{9, 7}, page.ReviewIDs)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, int64(5), *page.NextCursor)

	page = paginate(scored, 5)
	assert.Equal(t, []int64{9, 7, 5, 3, 1}, page.ReviewIDs)
	assert.Nil(t, page.NextCursor)

	page = paginate(scored, 10)
	assert.Len(t, page.ReviewIDs, 5)
	assert.Nil(t, page.NextCursor)

	page = paginate(nil, 3)
	assert.Empty(t, page.ReviewIDs)
	assert.Nil(t, page.NextCursor)
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Call Me   Ishmael ": "call me ishmael",
		"call me ishmael":      "call me ishmael",
		"CALL\tME\nISHMAEL":    "call me ishmael",
		"":                     "",
		"   ":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "%q", in)
	}

	norms, first := NormalizeAll([]string{"A  b", "a B", "", "c"})
	assert.Equal(t, []string{"a b", "c"}, norms)
	assert.Equal(t, "A  b", first["a b"])
}
