package router

import (
	"readerFeed/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)

	reco.GET("/books", handler.Books)
	reco.POST("/books/refresh", handler.Refresh)
	reco.GET("/books/stats", handler.Stats)
	reco.GET("/books/:bookId/breakdown", handler.Breakdown)
	reco.GET("/reviews", handler.Reviews)
}

func SetupHighlightRoutes(api *echo.Group, handler *rest.HighlightHandler, authRequired echo.MiddlewareFunc) {
	highlights := api.Group("/highlights")

	highlights.GET("/reviews", handler.Recommend)
	highlights.POST("/reviews", handler.Ingest, authRequired)
	highlights.DELETE("/reviews/:reviewId", handler.Delete, authRequired)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
