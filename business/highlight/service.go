package highlight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"readerFeed/domain"
	"readerFeed/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// GraphRepository stores review -> highlight edges.
type GraphRepository interface {
	FindReviewIDsByHighlight(ctx context.Context, norm string, cursor *int64, limit int) ([]int64, error)
	UpsertReviewHighlights(ctx context.Context, node domain.ReviewNode, highlights []domain.HighlightNode) error
	DeleteReview(ctx context.Context, reviewID int64) error
}

// SearchRepository is the full-text review index.
type SearchRepository interface {
	SearchByHighlight(ctx context.Context, norm, raw string, cursor *int64, limit int) (map[int64]float64, error)
	IndexReview(ctx context.Context, doc domain.ReviewContentDocument) error
	DeleteReview(ctx context.Context, reviewID int64) error
}

type Service struct {
	graph  GraphRepository
	search SearchRepository
	cfg    Config
}

func NewService(graph GraphRepository, search SearchRepository, cfg Config) *Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultMaxCandidates
	}
	return &Service{graph: graph, search: search, cfg: cfg}
}

// RecommendByHighlight returns one page of review ids matching text, best
// first. Only ids strictly below cursor are considered.
func (s *Service) RecommendByHighlight(ctx context.Context, text string, cursor *int64, size int) (domain.HighlightRecommendation, error) {
	if strings.TrimSpace(text) == "" {
		RecommendRequestsTotal.WithLabelValues("invalid").Inc()
		return domain.HighlightRecommendation{}, fmt.Errorf("%w: highlight must not be empty", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return domain.HighlightRecommendation{}, fmt.Errorf("context error: %w", err)
	}
	if size <= 0 {
		size = defaultPageSize
	}

	norm := Normalize(text)
	fetch := min(s.cfg.MaxCandidates, size+1)

	var graphScores, searchScores map[int64]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		graphScores = s.graphChannel(gctx, norm, cursor, fetch)
		return nil
	})
	g.Go(func() error {
		searchScores = s.searchChannel(gctx, norm, text, cursor, fetch)
		return nil
	})
	_ = g.Wait()

	scored := fuse(graphScores, searchScores, s.cfg.ESWeight, s.cfg.GraphWeight)
	result := paginate(scored, size)

	outcome := "ok"
	if len(result.ReviewIDs) == 0 {
		outcome = "empty"
	}
	RecommendRequestsTotal.WithLabelValues(outcome).Inc()

	logger.Info("highlight_recommendation",
		"trace_id", logger.TraceIDFromContext(ctx),
		"highlight_norm", norm,
		"graph_hits", len(graphScores),
		"search_hits", len(searchScores),
		"returned", len(result.ReviewIDs),
		"has_next", result.NextCursor != nil,
	)
	return result, nil
}

func belowCursor(id int64, cursor *int64) bool {
	return cursor == nil || id < *cursor
}

// graphChannel gives every connected review a flat presence score of 1.
func (s *Service) graphChannel(ctx context.Context, norm string, cursor *int64, limit int) map[int64]float64 {
	scores := make(map[int64]float64)
	if s.graph == nil {
		return scores
	}

	ids, err := s.graph.FindReviewIDsByHighlight(ctx, norm, cursor, limit)
	if err != nil {
		logger.Warn("highlight_graph_channel_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"highlight_norm", norm,
			"error", err,
		)
		ChannelFailuresTotal.WithLabelValues("graph").Inc()
		return scores
	}

	for _, id := range ids {
		if belowCursor(id, cursor) {
			scores[id] = 1.0
		}
	}
	return scores
}

func (s *Service) searchChannel(ctx context.Context, norm, raw string, cursor *int64, limit int) map[int64]float64 {
	scores := make(map[int64]float64)
	if s.search == nil {
		return scores
	}

	hits, err := s.search.SearchByHighlight(ctx, norm, raw, cursor, limit)
	if err != nil {
		logger.Warn("highlight_search_channel_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"highlight_norm", norm,
			"error", err,
		)
		ChannelFailuresTotal.WithLabelValues("search").Inc()
		return scores
	}

	for id, score := range hits {
		if belowCursor(id, cursor) {
			scores[id] = score
		}
	}
	return scores
}

// Ingest indexes a review's searchable content and records its highlight edges.
func (s *Service) Ingest(ctx context.Context, cmd domain.HighlightIngestCommand) error {
	if cmd.ReviewID <= 0 {
		return fmt.Errorf("%w: review id is required", domain.ErrInvalidInput)
	}

	// supplied norms go through the same normalization the graph uses
	raws := cmd.HighlightsNorm
	if len(raws) == 0 {
		raws = cmd.Highlights
	}
	norms, _ := NormalizeAll(raws)

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	doc := domain.ReviewContentDocument{
		ReviewID:       cmd.ReviewID,
		UserID:         cmd.UserID,
		BookID:         cmd.BookID,
		Summary:        cmd.Summary,
		Content:        cmd.Content,
		Highlights:     cmd.Highlights,
		HighlightsNorm: norms,
		Keywords:       cmd.Keywords,
		Genre:          cmd.Genre,
		CreatedAt:      createdAt.Unix(),
		Rating:         cmd.Rating,
	}
	if err := s.search.IndexReview(ctx, doc); err != nil {
		logger.Error("highlight_ingest_index_failed", "review_id", cmd.ReviewID, "error", err)
		return fmt.Errorf("index review %d: %w", cmd.ReviewID, err)
	}

	return s.UpsertHighlights(ctx, cmd.ReviewID, cmd.UserID, cmd.BookID, cmd.Highlights)
}

// UpsertHighlights replaces the highlight edges of one review. Blank
// highlights are dropped; highlights that normalize to the same key collapse.
func (s *Service) UpsertHighlights(ctx context.Context, reviewID, userID, bookID int64, raws []string) error {
	if reviewID <= 0 {
		return fmt.Errorf("%w: review id is required", domain.ErrInvalidInput)
	}

	norms, firstRaw := NormalizeAll(raws)
	nodes := make([]domain.HighlightNode, 0, len(norms))
	for _, n := range norms {
		nodes = append(nodes, domain.HighlightNode{Norm: n, Raw: firstRaw[n]})
	}

	review := domain.ReviewNode{
		ReviewID: reviewID,
		UserID:   userID,
		BookID:   bookID,
		Meta:     datatypes.JSONMap{"highlight_count": len(nodes)},
	}
	if err := s.graph.UpsertReviewHighlights(ctx, review, nodes); err != nil {
		logger.Error("highlight_upsert_failed", "review_id", reviewID, "error", err)
		return fmt.Errorf("upsert highlights for review %d: %w", reviewID, err)
	}

	logger.Info("highlight_upserted", "review_id", reviewID, "highlights", len(nodes))
	return nil
}

// DeleteReview removes a review from both the index and the graph. Both
// deletions are attempted even if the first fails.
func (s *Service) DeleteReview(ctx context.Context, reviewID int64) error {
	if reviewID <= 0 {
		return fmt.Errorf("%w: review id is required", domain.ErrInvalidInput)
	}

	var errs []error
	if err := s.search.DeleteReview(ctx, reviewID); err != nil {
		errs = append(errs, fmt.Errorf("delete review %d from index: %w", reviewID, err))
	}
	if err := s.graph.DeleteReview(ctx, reviewID); err != nil {
		errs = append(errs, fmt.Errorf("delete review %d from graph: %w", reviewID, err))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("highlight_delete_failed", "review_id", reviewID, "error", err)
		return err
	}
	return nil
}
