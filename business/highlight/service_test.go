//go:build !integration

package highlight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"readerFeed/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	mu       sync.Mutex
	ids      []int64
	err      error
	calls    int
	lastNorm string
	lastLim  int
	upserted []domain.HighlightNode
	node     domain.ReviewNode
	deleted  []int64
	delErr   error
}

func (f *fakeGraph) FindReviewIDsByHighlight(_ context.Context, norm string, cursor *int64, limit int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastNorm = norm
	f.lastLim = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]int64, 0, len(f.ids))
	for _, id := range f.ids {
		if cursor == nil || id < *cursor {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeGraph) UpsertReviewHighlights(_ context.Context, node domain.ReviewNode, hs []domain.HighlightNode) error {
	f.node = node
	f.upserted = hs
	return f.err
}

func (f *fakeGraph) DeleteReview(_ context.Context, reviewID int64) error {
	f.deleted = append(f.deleted, reviewID)
	return f.delErr
}

type fakeSearch struct {
	mu      sync.Mutex
	hits    map[int64]float64
	err     error
	calls   int
	lastRaw string
	indexed []domain.ReviewContentDocument
	deleted []int64
	delErr  error
}

func (f *fakeSearch) SearchByHighlight(_ context.Context, _, raw string, _ *int64, _ int) (map[int64]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastRaw = raw
	if f.err != nil {
		return nil, f.err
	}
	// cursor deliberately ignored; the service filters again
	out := make(map[int64]float64, len(f.hits))
	for k, v := range f.hits {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSearch) IndexReview(_ context.Context, doc domain.ReviewContentDocument) error {
	f.indexed = append(f.indexed, doc)
	return f.err
}

func (f *fakeSearch) DeleteReview(_ context.Context, reviewID int64) error {
	f.deleted = append(f.deleted, reviewID)
	return f.delErr
}

func cursorAt(v int64) *int64 { return &v }

func TestRecommendByHighlight_RejectsBlankText(t *testing.T) {
	graph, search := &fakeGraph{}, &fakeSearch{}
	svc := NewService(graph, search, DefaultConfig())

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.RecommendByHighlight(context.Background(), text, nil, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, graph.calls)
	assert.Zero(t, search.calls)
}

func TestRecommendByHighlight_FusesChannels(t *testing.T) {
	graph := &fakeGraph{ids: []int64{10, 20, 30}}
	search := &fakeSearch{hits: map[int64]float64{20: 8.0, 40: 4.0}}
	svc := NewService(graph, search, DefaultConfig())

	res, err := svc.RecommendByHighlight(context.Background(), "  The  Road\tGoes ", nil, 10)
	require.NoError(t, err)

	// 20: 0.6*1 + 0.4*1; 40: 0.6*0.5; 30,10: 0.4 (id desc)
	assert.Equal(t, []int64{20, 30, 10, 40}, res.ReviewIDs)
	assert.Nil(t, res.NextCursor)
	assert.Equal(t, "the road goes", graph.lastNorm)
	assert.Equal(t, "  The  Road\tGoes ", search.lastRaw)
	assert.Equal(t, 11, graph.lastLim)
}

func TestRecommendByHighlight_FetchCappedByMaxCandidates(t *testing.T) {
	graph := &fakeGraph{ids: []int64{1}}
	svc := NewService(graph, &fakeSearch{}, Config{ESWeight: 0.6, GraphWeight: 0.4, MaxCandidates: 5})

	_, err := svc.RecommendByHighlight(context.Background(), "quote", nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, graph.lastLim)
}

func TestRecommendByHighlight_CursorIsExclusive(t *testing.T) {
	graph := &fakeGraph{ids: []int64{5, 4, 3, 2, 1}}
	search := &fakeSearch{hits: map[int64]float64{5: 1, 3: 2, 1: 3}}
	svc := NewService(graph, search, DefaultConfig())

	res, err := svc.RecommendByHighlight(context.Background(), "quote", cursorAt(3), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 1}, res.ReviewIDs)
	for _, id := range res.ReviewIDs {
		assert.Less(t, id, int64(3))
	}
}

func TestRecommendByHighlight_ChannelFailureDegrades(t *testing.T) {
	graph := &fakeGraph{err: errors.New("db down")}
	search := &fakeSearch{hits: map[int64]float64{7: 2.0, 9: 1.0}}
	svc := NewService(graph, search, DefaultConfig())

	res, err := svc.RecommendByHighlight(context.Background(), "quote", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 9}, res.ReviewIDs)

	both := NewService(&fakeGraph{err: errors.New("db down")}, &fakeSearch{err: errors.New("search down")}, DefaultConfig())
	res, err = both.RecommendByHighlight(context.Background(), "quote", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, res.ReviewIDs)
	assert.Nil(t, res.NextCursor)
}

func TestRecommendByHighlight_DefaultPageSize(t *testing.T) {
	ids := make([]int64, 30)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	svc := NewService(&fakeGraph{ids: ids}, &fakeSearch{}, DefaultConfig())

	res, err := svc.RecommendByHighlight(context.Background(), "quote", nil, 0)
	require.NoError(t, err)
	assert.Len(t, res.ReviewIDs, defaultPageSize)
	require.NotNil(t, res.NextCursor)
	assert.Equal(t, int64(10), *res.NextCursor)
}

func TestIngest(t *testing.T) {
	graph, search := &fakeGraph{}, &fakeSearch{}
	svc := NewService(graph, search, DefaultConfig())
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	err := svc.Ingest(context.Background(), domain.HighlightIngestCommand{
		ReviewID:   11,
		UserID:     2,
		BookID:     3,
		Summary:    "a summary",
		Highlights: []string{"Call me  Ishmael", "call me ishmael", "  ", "It was the best of times"},
		CreatedAt:  created,
		Rating:     4,
	})
	require.NoError(t, err)

	require.Len(t, search.indexed, 1)
	doc := search.indexed[0]
	assert.Equal(t, int64(11), doc.ReviewID)
	assert.Equal(t, []string{"call me ishmael", "it was the best of times"}, doc.HighlightsNorm)
	assert.Equal(t, created.Unix(), doc.CreatedAt)

	require.Len(t, graph.upserted, 2)
	assert.Equal(t, domain.HighlightNode{Norm: "call me ishmael", Raw: "Call me  Ishmael"}, graph.upserted[0])
	assert.Equal(t, int64(11), graph.node.ReviewID)
	assert.Equal(t, 2, graph.node.Meta["highlight_count"])
}

func TestIngest_NormalizesSuppliedNorms(t *testing.T) {
	graph, search := &fakeGraph{}, &fakeSearch{}
	svc := NewService(graph, search, DefaultConfig())

	err := svc.Ingest(context.Background(), domain.HighlightIngestCommand{
		ReviewID:       12,
		UserID:         2,
		BookID:         3,
		Highlights:     []string{"Call Me Ishmael"},
		HighlightsNorm: []string{"Call Me  Ishmael", " ", "call me ishmael"},
	})
	require.NoError(t, err)

	require.Len(t, search.indexed, 1)
	assert.Equal(t, []string{"call me ishmael"}, search.indexed[0].HighlightsNorm)
	require.Len(t, graph.upserted, 1)
	assert.Equal(t, search.indexed[0].HighlightsNorm[0], graph.upserted[0].Norm, "index and graph agree on the key")
}

func TestIngest_IndexFailureStopsWrite(t *testing.T) {
	graph := &fakeGraph{}
	svc := NewService(graph, &fakeSearch{err: errors.New("index down")}, DefaultConfig())

	err := svc.Ingest(context.Background(), domain.HighlightIngestCommand{ReviewID: 1, UserID: 1, BookID: 1})
	require.Error(t, err)
	assert.Nil(t, graph.upserted)

	err = svc.Ingest(context.Background(), domain.HighlightIngestCommand{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteReview(t *testing.T) {
	graph, search := &fakeGraph{}, &fakeSearch{delErr: errors.New("index down")}
	svc := NewService(graph, search, DefaultConfig())

	err := svc.DeleteReview(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, []int64{5}, search.deleted)
	assert.Equal(t, []int64{5}, graph.deleted, "graph delete still attempted")

	assert.ErrorIs(t, svc.DeleteReview(context.Background(), 0), domain.ErrInvalidInput)
}
