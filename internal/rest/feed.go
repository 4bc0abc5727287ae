package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"readerFeed/domain"
	"readerFeed/internal/middleware"
	"readerFeed/pkg/logger"

	jsonres "readerFeed/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	FeedHandler struct {
		validate      *validator.Validate
		feedService   FeedService
		reviewService ReviewFeedService
	}

	FeedService interface {
		GenerateRecommendations(ctx context.Context, userID int64, limit int, sessionID string, forceRefresh bool) ([]domain.RecommendationResult, error)
		RefreshRecommendations(ctx context.Context, userID int64) ([]domain.RecommendationResult, error)
		GetStats(ctx context.Context, userID int64) (domain.RecommendationStats, error)
		GetScoreBreakdown(ctx context.Context, userID, bookID int64) (domain.ScoreBreakdown, error)
	}

	ReviewFeedService interface {
		RecommendReviews(ctx context.Context, userID, bookContextID int64, cursor *int64, limit int, sessionID string, forceRefresh bool) ([]domain.ReviewRecommendationResult, error)
	}

	BookFeedQuery struct {
		Limit     int    `query:"limit" validate:"gte=0,lte=100"`
		SessionID string `query:"session_id" validate:"max=128"`
		Refresh   bool   `query:"refresh"`
	}

	ReviewFeedQuery struct {
		BookID    int64  `query:"book_id" validate:"gte=0"`
		Cursor    string `query:"cursor"`
		Limit     int    `query:"limit" validate:"gte=0,lte=100"`
		SessionID string `query:"session_id" validate:"max=128"`
		Refresh   bool   `query:"refresh"`
	}
)

func NewFeedHandler(feedService FeedService, reviewService ReviewFeedService) *FeedHandler {
	return &FeedHandler{
		validate:      validator.New(),
		feedService:   feedService,
		reviewService: reviewService,
	}
}

// GET /api/v1/recommendations/books?limit=20&session_id=abc&refresh=false
func (h *FeedHandler) Books(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
	}

	var q BookFeedQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}

	recs, err := h.feedService.GenerateRecommendations(c.Request().Context(), userID, q.Limit, q.SessionID, q.Refresh)
	if err != nil {
		return serviceError(c, "book_feed_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/recommendations/books/:bookId/breakdown
func (h *FeedHandler) Breakdown(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
	}

	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", "invalid book id", nil))
	}

	breakdown, err := h.feedService.GetScoreBreakdown(c.Request().Context(), userID, bookID)
	if err != nil {
		return serviceError(c, "score_breakdown_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(breakdown))
}

// POST /api/v1/recommendations/books/refresh
func (h *FeedHandler) Refresh(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
	}

	recs, err := h.feedService.RefreshRecommendations(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "book_feed_refresh_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/recommendations/books/stats
func (h *FeedHandler) Stats(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
	}

	stats, err := h.feedService.GetStats(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, "book_feed_stats_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

// GET /api/v1/recommendations/reviews?book_id=0&cursor=120&limit=20&session_id=abc&refresh=false
func (h *FeedHandler) Reviews(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
	}

	var q ReviewFeedQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}

	var cursor *int64
	if q.Cursor != "" {
		v, err := strconv.ParseInt(q.Cursor, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", "invalid cursor", nil))
		}
		cursor = &v
	}

	recs, err := h.reviewService.RecommendReviews(c.Request().Context(), userID, q.BookID, cursor, q.Limit, q.SessionID, q.Refresh)
	if err != nil {
		return serviceError(c, "review_feed_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// serviceError maps invalid input to 400 and anything else to 500.
func serviceError(c echo.Context, event string, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}

	logger.Error(event,
		"trace_id", logger.TraceIDFromContext(c.Request().Context()),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, jsonres.Error("INTERNAL_SERVER_ERROR", "internal server error", nil))
}
