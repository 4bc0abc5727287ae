package postgres

import (
	"context"
	"fmt"
	"time"

	"readerFeed/domain"

	"gorm.io/gorm"
)

// BookCandidateRecord is one precomputed book candidate for a user, written
// by the offline retrieval jobs.
type BookCandidateRecord struct {
	ID                   uint64 `gorm:"primaryKey"`
	UserID               int64  `gorm:"column:user_id;not null;index"`
	domain.BookCandidate `gorm:"embedded"`
	UpdatedAt            time.Time
}

func (BookCandidateRecord) TableName() string { return "book_candidates" }

// ReviewCandidateRecord is a precomputed review candidate. Rows with a zero
// UserID are book-scoped and shared by every reader of that book.
type ReviewCandidateRecord struct {
	ID                     uint64 `gorm:"primaryKey"`
	UserID                 int64  `gorm:"column:user_id;not null;index"`
	domain.ReviewCandidate `gorm:"embedded"`
	UpdatedAt              time.Time
}

func (ReviewCandidateRecord) TableName() string { return "review_candidates" }

type CandidateRepository struct {
	DB *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{
		DB: db,
	}
}

// BookCandidates returns a user's top-N book candidates by initial score.
func (r *CandidateRepository) BookCandidates(
	ctx context.Context,
	userID int64,
	limit int,
) ([]domain.BookCandidate, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 100
	}

	var rows []BookCandidateRecord
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("initial_score DESC NULLS LAST").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query book_candidates: %w", err)
	}

	out := make([]domain.BookCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.BookCandidate)
	}
	return out, nil
}

// ReviewCandidates returns the user's review feed candidates, or the
// book-scoped candidates when bookContextID is set.
func (r *CandidateRepository) ReviewCandidates(
	ctx context.Context,
	userID int64,
	bookContextID int64,
	limit int,
) ([]domain.ReviewCandidate, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 100
	}

	q := r.DB.WithContext(ctx)
	if bookContextID != 0 {
		q = q.Where("book_id = ? AND user_id IN ?", bookContextID, []int64{0, userID})
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var rows []ReviewCandidateRecord
	if err := q.Order("initial_score DESC NULLS LAST").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query review_candidates: %w", err)
	}

	out := make([]domain.ReviewCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ReviewCandidate)
	}
	return out, nil
}
