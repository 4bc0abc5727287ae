package domain

// ScoreBreakdown is a diagnostic snapshot of every signal behind one book's
// final score. It is never persisted.
type ScoreBreakdown struct {
	BookID          int64           `json:"book_id"`
	GraphScore      float64         `json:"graph_score"`
	SemanticScore   float64         `json:"semantic_score"`
	EngagementScore float64         `json:"engagement_score"`
	PopularityScore float64         `json:"popularity_score"`
	FreshnessScore  float64         `json:"freshness_score"`
	FinalScore      float64         `json:"final_score"`
	Source          CandidateSource `json:"source"`
	Reason          string          `json:"reason,omitempty"`
}

type ReviewScoreBreakdown struct {
	ReviewID         int64           `json:"review_id"`
	PopularityScore  float64         `json:"popularity_score"`
	FreshnessScore   float64         `json:"freshness_score"`
	EngagementScore  float64         `json:"engagement_score"`
	ContentScore     float64         `json:"content_score"`
	BookContextScore float64         `json:"book_context_score"`
	FinalScore       float64         `json:"final_score"`
	Source           CandidateSource `json:"source"`
}

type RecommendationResult struct {
	BookID int64   `json:"book_id"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
	Source string  `json:"source,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

type ReviewRecommendationResult struct {
	ReviewID int64   `json:"review_id"`
	BookID   int64   `json:"book_id"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
	Source   string  `json:"source,omitempty"`
}

type RecommendationStats struct {
	UserID                   int64 `json:"user_id"`
	CachedItems              int64 `json:"cached_items"`
	CacheTTLSeconds          int64 `json:"cache_ttl_seconds"`
	HasCachedRecommendations bool  `json:"has_cached_recommendations"`
}
