package domain

import "time"

// CandidateSource tags where a candidate came from. The set is closed: every
// scorer switches over it explicitly.
type CandidateSource string

const (
	SourceGraphCollaborative CandidateSource = "graph_collaborative"
	SourceGraphGenre         CandidateSource = "graph_genre"
	SourceGraphAuthor        CandidateSource = "graph_author"
	SourceGraphTopic         CandidateSource = "graph_topic"
	SourceSemanticSearch     CandidateSource = "semantic_search"
	SourceMoreLikeThis       CandidateSource = "more_like_this"
	SourcePopularity         CandidateSource = "popularity"
	SourceRecent             CandidateSource = "recent"

	// review candidates only
	SourceSimilarReview     CandidateSource = "similar_review"
	SourceFollowedUser      CandidateSource = "followed_user"
	SourceBookPopular       CandidateSource = "book_popular"
	SourceGraphSimilarUser  CandidateSource = "graph_similar_user"
	SourceGraphBookAffinity CandidateSource = "graph_book_affinity"
)

var candidateSources = map[CandidateSource]struct{}{
	SourceGraphCollaborative: {},
	SourceGraphGenre:         {},
	SourceGraphAuthor:        {},
	SourceGraphTopic:         {},
	SourceSemanticSearch:     {},
	SourceMoreLikeThis:       {},
	SourcePopularity:         {},
	SourceRecent:             {},
	SourceSimilarReview:      {},
	SourceFollowedUser:       {},
	SourceBookPopular:        {},
	SourceGraphSimilarUser:   {},
	SourceGraphBookAffinity:  {},
}

// Valid reports whether s is one of the known sources.
func (s CandidateSource) Valid() bool {
	_, ok := candidateSources[s]
	return ok
}

type BookCandidate struct {
	BookID       int64           `gorm:"column:book_id;not null" json:"book_id"`
	Source       CandidateSource `gorm:"column:source;not null" json:"source"`
	InitialScore *float64        `gorm:"column:initial_score" json:"initial_score,omitempty"`
	Reason       string          `gorm:"column:reason" json:"reason"`
}

// Initial returns the pre-computed relevance, or 0 when none was supplied.
func (c BookCandidate) Initial() float64 {
	if c.InitialScore == nil {
		return 0
	}
	return *c.InitialScore
}

type ReviewCandidate struct {
	ReviewID     int64           `gorm:"column:review_id;not null" json:"review_id"`
	BookID       int64           `gorm:"column:book_id" json:"book_id"`
	Source       CandidateSource `gorm:"column:source;not null" json:"source"`
	InitialScore *float64        `gorm:"column:initial_score" json:"initial_score,omitempty"`
	Reason       string          `gorm:"column:reason" json:"reason"`
	CreatedAt    *time.Time      `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (c ReviewCandidate) Initial() float64 {
	if c.InitialScore == nil {
		return 0
	}
	return *c.InitialScore
}

// Score is a small helper for building candidates with an initial score.
func Score(v float64) *float64 {
	return &v
}
