package postgres

import (
	"context"
	"fmt"

	"readerFeed/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HighlightGraphRepository stores the review -> highlight graph as three
// tables: review nodes, highlight nodes, and the edges between them.
type HighlightGraphRepository struct {
	DB *gorm.DB
}

func NewHighlightGraphRepository(db *gorm.DB) *HighlightGraphRepository {
	return &HighlightGraphRepository{
		DB: db,
	}
}

// FindReviewIDsByHighlight returns ids of reviews quoting norm, newest id
// first, restricted to ids below cursor when one is given.
func (r *HighlightGraphRepository) FindReviewIDsByHighlight(
	ctx context.Context,
	norm string,
	cursor *int64,
	limit int,
) ([]int64, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	q := r.DB.WithContext(ctx).
		Model(&domain.ReviewHighlightEdge{}).
		Where("highlight_norm = ?", norm)
	if cursor != nil {
		q = q.Where("review_id < ?", *cursor)
	}

	var ids []int64
	if err := q.Order("review_id DESC").
		Limit(limit).
		Pluck("review_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to query highlight edges: %w", err)
	}

	return ids, nil
}

// UpsertReviewHighlights writes the review node and replaces its edges.
// Existing highlight nodes keep their original raw text.
func (r *HighlightGraphRepository) UpsertReviewHighlights(
	ctx context.Context,
	node domain.ReviewNode,
	highlights []domain.HighlightNode,
) error {

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "book_id", "meta", "updated_at"}),
		}).Create(&node).Error; err != nil {
			return fmt.Errorf("failed to upsert review node: %w", err)
		}

		if len(highlights) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&highlights).Error; err != nil {
				return fmt.Errorf("failed to upsert highlight nodes: %w", err)
			}
		}

		if err := tx.Where("review_id = ?", node.ReviewID).
			Delete(&domain.ReviewHighlightEdge{}).Error; err != nil {
			return fmt.Errorf("failed to clear highlight edges: %w", err)
		}

		if len(highlights) == 0 {
			return nil
		}

		edges := make([]domain.ReviewHighlightEdge, 0, len(highlights))
		for _, h := range highlights {
			edges = append(edges, domain.ReviewHighlightEdge{
				ReviewID:      node.ReviewID,
				HighlightNorm: h.Norm,
			})
		}
		if err := tx.Create(&edges).Error; err != nil {
			return fmt.Errorf("failed to create highlight edges: %w", err)
		}

		return nil
	})
}

func (r *HighlightGraphRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).
			Delete(&domain.ReviewHighlightEdge{}).Error; err != nil {
			return fmt.Errorf("failed to delete highlight edges: %w", err)
		}
		if err := tx.Where("review_id = ?", reviewID).
			Delete(&domain.ReviewNode{}).Error; err != nil {
			return fmt.Errorf("failed to delete review node: %w", err)
		}
		return nil
	})
}
