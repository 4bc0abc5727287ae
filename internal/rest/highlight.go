package rest

import (
	"context"
	"net/http"
	"strconv"

	"readerFeed/domain"

	jsonres "readerFeed/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	HighlightHandler struct {
		validate *validator.Validate
		service  HighlightService
	}

	HighlightService interface {
		RecommendByHighlight(ctx context.Context, text string, cursor *int64, size int) (domain.HighlightRecommendation, error)
		Ingest(ctx context.Context, cmd domain.HighlightIngestCommand) error
		DeleteReview(ctx context.Context, reviewID int64) error
	}

	HighlightQuery struct {
		Q      string `query:"q"`
		Cursor string `query:"cursor"`
		Size   int    `query:"size" validate:"gte=0,lte=100"`
	}
)

func NewHighlightHandler(service HighlightService) *HighlightHandler {
	return &HighlightHandler{
		validate: validator.New(),
		service:  service,
	}
}

// GET /api/v1/highlights/reviews?q=call+me+ishmael&cursor=120&size=20
func (h *HighlightHandler) Recommend(c echo.Context) error {
	var q HighlightQuery
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

	page, err := h.service.RecommendByHighlight(c.Request().Context(), q.Q, cursor, q.Size)
	if err != nil {
		return serviceError(c, "highlight_recommend_failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

// POST /api/v1/highlights/reviews
func (h *HighlightHandler) Ingest(c echo.Context) error {
	var cmd domain.HighlightIngestCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}
	if err := h.validate.Struct(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	}

	if err := h.service.Ingest(c.Request().Context(), cmd); err != nil {
		return serviceError(c, "highlight_ingest_failed", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("review indexed"))
}

// DELETE /api/v1/highlights/reviews/:reviewId
func (h *HighlightHandler) Delete(c echo.Context) error {
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", "invalid review id", nil))
	}

	if err := h.service.DeleteReview(c.Request().Context(), reviewID); err != nil {
		return serviceError(c, "highlight_delete_failed", err)
	}

	return c.NoContent(http.StatusNoContent)
}
