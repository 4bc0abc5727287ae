package meilisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/meilisearch/meilisearch-go"
)

const (
	BookIndexName        = "books"
	defaultDateCacheSize = 10000
	defaultMissTTL       = 10 * time.Minute
)

// BookDocumentRepository resolves book publish dates from the books index.
// Known dates stay in an in-process LRU; misses expire after missTTL so a
// book indexed later is picked up. Lookup errors are not cached.
type BookDocumentRepository struct {
	index  meilisearch.IndexManager
	dates  *lru.Cache[int64, time.Time]
	misses *expirable.LRU[int64, struct{}]
}

func NewBookDocumentRepository(client meilisearch.ServiceManager, cacheSize int) (*BookDocumentRepository, error) {
	return newBookDocumentRepository(client, cacheSize, defaultMissTTL)
}

func newBookDocumentRepository(client meilisearch.ServiceManager, cacheSize int, missTTL time.Duration) (*BookDocumentRepository, error) {
	if cacheSize <= 0 {
		cacheSize = defaultDateCacheSize
	}
	dates, err := lru.New[int64, time.Time](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create publish date cache: %w", err)
	}
	return &BookDocumentRepository{
		index:  client.Index(BookIndexName),
		dates:  dates,
		misses: expirable.NewLRU[int64, struct{}](cacheSize, nil, missTTL),
	}, nil
}

// PublishedDate returns the book's publish date. found is false when the
// book is unknown or has no date.
func (r *BookDocumentRepository) PublishedDate(ctx context.Context, bookID int64) (time.Time, bool, error) {
	if at, ok := r.dates.Get(bookID); ok {
		return at, true, nil
	}
	if _, ok := r.misses.Get(bookID); ok {
		return time.Time{}, false, nil
	}

	if err := ctx.Err(); err != nil {
		return time.Time{}, false, fmt.Errorf("context error: %w", err)
	}

	result, err := r.index.Search("", &meilisearch.SearchRequest{
		Filter:               "book_id = " + strconv.FormatInt(bookID, 10),
		Limit:                1,
		AttributesToRetrieve: []string{"book_id", "published_date"},
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to look up book %d: %w", bookID, err)
	}

	if len(result.Hits) > 0 {
		if at, ok := parsePublishedDate(result.Hits[0]); ok {
			r.dates.Add(bookID, at)
			return at, true, nil
		}
	}
	r.misses.Add(bookID, struct{}{})

	return time.Time{}, false, nil
}

var publishedDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01", "2006"}

// parsePublishedDate accepts a date string in a few common layouts or a unix
// timestamp in seconds.
func parsePublishedDate(hit meilisearch.Hit) (time.Time, bool) {
	raw, ok := hit["published_date"]
	if !ok {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range publishedDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil && unix > 0 {
		return time.Unix(unix, 0).UTC(), true
	}
	return time.Time{}, false
}
