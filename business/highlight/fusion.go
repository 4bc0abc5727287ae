package highlight

import (
	"sort"

	"readerFeed/domain"
)

type scoredReview struct {
	reviewID int64
	score    float64
}

func maxScore(scores map[int64]float64) float64 {
	m := 0.0
	for _, v := range scores {
		if v > m {
			m = v
		}
	}
	return m
}

// fuse merges both channels after normalizing each by its own maximum and
// orders the result by score desc, then id desc.
func fuse(graph, search map[int64]float64, esWeight, graphWeight float64) []scoredReview {
	maxGraph := maxScore(graph)
	maxSearch := maxScore(search)

	ids := make(map[int64]struct{}, len(graph)+len(search))
	for id := range graph {
		ids[id] = struct{}{}
	}
	for id := range search {
		ids[id] = struct{}{}
	}

	out := make([]scoredReview, 0, len(ids))
	for id := range ids {
		normSearch, normGraph := 0.0, 0.0
		if maxSearch > 0 {
			normSearch = search[id] / maxSearch
		}
		if maxGraph > 0 {
			normGraph = graph[id] / maxGraph
		}
		out = append(out, scoredReview{
			reviewID: id,
			score:    esWeight*normSearch + graphWeight*normGraph,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].reviewID > out[j].reviewID
	})
	return out
}

// paginate cuts one page; the id right after the page becomes the cursor.
func paginate(scored []scoredReview, size int) domain.HighlightRecommendation {
	page := scored
	var next *int64
	if len(scored) > size {
		id := scored[size].reviewID
		next = &id
		page = scored[:size]
	}

	ids := make([]int64, len(page))
	for i, s := range page {
		ids[i] = s.reviewID
	}
	return domain.HighlightRecommendation{ReviewIDs: ids, NextCursor: next}
}
