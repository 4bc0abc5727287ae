package domain

import (
	"time"

	"gorm.io/datatypes"
)

// HighlightRecommendation is one page of reviews matching a highlight.
// NextCursor is nil on the last page.
type HighlightRecommendation struct {
	ReviewIDs  []int64 `json:"review_ids"`
	NextCursor *int64  `json:"next_cursor"`
}

type HighlightIngestCommand struct {
	ReviewID       int64     `json:"review_id" validate:"required,gt=0"`
	UserID         int64     `json:"user_id" validate:"required,gt=0"`
	BookID         int64     `json:"book_id" validate:"required,gt=0"`
	Summary        string    `json:"summary"`
	Content        string    `json:"content"`
	Highlights     []string  `json:"highlights"`
	HighlightsNorm []string  `json:"highlights_norm"`
	Keywords       []string  `json:"keywords"`
	Genre          string    `json:"genre"`
	CreatedAt      time.Time `json:"created_at"`
	Rating         int       `json:"rating" validate:"gte=0,lte=5"`
}

// ReviewContentDocument is the search-index representation of a review.
type ReviewContentDocument struct {
	ReviewID       int64    `json:"review_id"`
	UserID         int64    `json:"user_id"`
	BookID         int64    `json:"book_id"`
	Summary        string   `json:"summary"`
	Content        string   `json:"content"`
	Highlights     []string `json:"highlights"`
	HighlightsNorm []string `json:"highlights_norm"`
	Keywords       []string `json:"keywords"`
	Genre          string   `json:"genre"`
	CreatedAt      int64    `json:"created_at"`
	Rating         int      `json:"rating"`
}

// ReviewNode is a review vertex in the highlight graph.
type ReviewNode struct {
	ReviewID  int64             `gorm:"column:review_id;primaryKey" json:"review_id"`
	UserID    int64             `gorm:"column:user_id;not null" json:"user_id"`
	BookID    int64             `gorm:"column:book_id;not null" json:"book_id"`
	Meta      datatypes.JSONMap `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// HighlightNode is keyed by the normalized highlight text; Raw keeps the
// first spelling seen.
type HighlightNode struct {
	Norm string `gorm:"column:norm;primaryKey" json:"norm"`
	Raw  string `gorm:"column:raw;not null" json:"raw"`
}

// ReviewHighlightEdge connects a review to a highlight it quotes.
type ReviewHighlightEdge struct {
	ReviewID      int64  `gorm:"column:review_id;primaryKey"`
	HighlightNorm string `gorm:"column:highlight_norm;primaryKey;index"`
}
