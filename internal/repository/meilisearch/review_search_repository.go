package meilisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"readerFeed/domain"
	"readerFeed/pkg/logger"

	"github.com/meilisearch/meilisearch-go"
)

const (
	ReviewIndexName   = "review_contents"
	reviewPrimaryKey  = "review_id"
	rankingScoreField = "_rankingScore"
)

// ReviewSearchRepository is the search side of highlight recommendations.
type ReviewSearchRepository struct {
	index meilisearch.IndexManager
}

func NewReviewSearchRepository(client meilisearch.ServiceManager) *ReviewSearchRepository {
	return &ReviewSearchRepository{
		index: client.Index(ReviewIndexName),
	}
}

// SearchByHighlight runs a full-text query for raw against highlights and
// summary, restricted to documents carrying the exact normalized highlight.
// It returns the engine's ranking score per review id.
func (r *ReviewSearchRepository) SearchByHighlight(
	ctx context.Context,
	norm, raw string,
	cursor *int64,
	limit int,
) (map[int64]float64, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	req := &meilisearch.SearchRequest{
		Query:                raw,
		Limit:                int64(limit),
		Filter:               highlightFilter(norm, cursor),
		AttributesToSearchOn: []string{"highlights", "summary"},
		AttributesToRetrieve: []string{reviewPrimaryKey},
		ShowRankingScore:     true,
	}

	result, err := r.index.Search(raw, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", ReviewIndexName, err)
	}

	scores := make(map[int64]float64, len(result.Hits))
	for _, hit := range result.Hits {
		id, score, err := decodeReviewHit(hit)
		if err != nil {
			logger.Warn("review_search_hit_skipped", "error", err)
			continue
		}
		if cursor != nil && id >= *cursor {
			continue
		}
		scores[id] = score
	}

	return scores, nil
}

func decodeReviewHit(hit meilisearch.Hit) (int64, float64, error) {
	rawID, ok := hit[reviewPrimaryKey]
	if !ok {
		return 0, 0, fmt.Errorf("missing required field: %s", reviewPrimaryKey)
	}
	var id int64
	if err := json.Unmarshal(rawID, &id); err != nil {
		return 0, 0, fmt.Errorf("invalid %s: %w", reviewPrimaryKey, err)
	}

	var score float64
	if rawScore, ok := hit[rankingScoreField]; ok {
		if err := json.Unmarshal(rawScore, &score); err != nil {
			return 0, 0, fmt.Errorf("invalid %s: %w", rankingScoreField, err)
		}
	}
	return id, score, nil
}

func (r *ReviewSearchRepository) IndexReview(ctx context.Context, doc domain.ReviewContentDocument) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	pk := reviewPrimaryKey
	task, err := r.index.AddDocuments([]domain.ReviewContentDocument{doc}, &meilisearch.DocumentOptions{PrimaryKey: &pk})
	if err != nil {
		return fmt.Errorf("failed to index review %d: %w", doc.ReviewID, err)
	}

	logger.Debug("review_index_enqueued", "review_id", doc.ReviewID, "task_uid", task.TaskUID)
	return nil
}

func (r *ReviewSearchRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := r.index.DeleteDocument(strconv.FormatInt(reviewID, 10), nil); err != nil {
		return fmt.Errorf("failed to delete review %d from index: %w", reviewID, err)
	}
	return nil
}

// EnsureIndex registers the attributes highlight search filters and ranks
// on. Settings are applied asynchronously by Meilisearch.
func (r *ReviewSearchRepository) EnsureIndex(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := r.index.UpdateFilterableAttributes(&[]interface{}{"highlights_norm", "review_id", "book_id"}); err != nil {
		return fmt.Errorf("failed to set filterable attributes: %w", err)
	}

	if _, err := r.index.UpdateSearchableAttributes(&[]string{"highlights", "summary", "content", "keywords"}); err != nil {
		return fmt.Errorf("failed to set searchable attributes: %w", err)
	}

	logger.Info("review_index_settings_enqueued", "index", ReviewIndexName)
	return nil
}
