package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"readerFeed/app/echo-server/router"
	"readerFeed/business/feed"
	"readerFeed/business/highlight"
	"readerFeed/business/sampling"
	"readerFeed/business/scoring"
	"readerFeed/domain"
	"readerFeed/internal/middleware"
	meiliRepo "readerFeed/internal/repository/meilisearch"
	psqlRepo "readerFeed/internal/repository/postgres"
	redisRepo "readerFeed/internal/repository/redis"
	"readerFeed/internal/rest"
	"readerFeed/pkg/config"
	"readerFeed/pkg/database"
	redisdb "readerFeed/pkg/database/redis"
	"readerFeed/pkg/logger"
	"readerFeed/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/meilisearch/meilisearch-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting readerFeed", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg, migrationModels()...)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	rdb, err := redisdb.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(rdb)

	meili := meilisearch.New(cfg.Meilisearch.Host, meilisearch.WithAPIKey(cfg.Meilisearch.APIKey))

	metrics.Init()

	// Init repo
	candidateRepo := psqlRepo.NewCandidateRepository(db)
	graphRepo := psqlRepo.NewHighlightGraphRepository(db)
	engagementRepo := redisRepo.NewEngagementRepository(rdb)
	cacheRepo := redisRepo.NewRecommendationCacheRepository(
		rdb,
		time.Duration(cfg.Feed.CacheTTLHours)*time.Hour,
		cfg.Feed.MaxCachedItems,
	)
	reviewCacheRepo := redisRepo.NewReviewCacheRepository(
		rdb,
		time.Duration(cfg.Feed.ReviewCacheTTLHours)*time.Hour,
		cfg.Feed.ReviewCacheMaxItems,
	)
	exposureRepo := redisRepo.NewReviewExposureRepository(
		rdb,
		cfg.Feed.ExposureMaxItems,
		time.Duration(cfg.Feed.ExposureTTLHours)*time.Hour,
	)
	reviewSearchRepo := meiliRepo.NewReviewSearchRepository(meili)
	bookDocRepo, err := meiliRepo.NewBookDocumentRepository(meili, cfg.Meilisearch.DateCacheSize)
	if err != nil {
		logger.Fatal("Failed to init book document repository", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := reviewSearchRepo.EnsureIndex(ctx); err != nil {
		logger.Warn("Failed to apply review index settings", "error", err)
	}
	cancel()

	// Init scoring
	bookScorer := scoring.NewHybridScorer(
		scoring.NewGraphScorer(),
		scoring.NewSemanticScorer(),
		scoring.NewEngagementScorer(engagementRepo),
		scoring.NewPopularityScorer(),
		scoring.NewFreshnessScorer(bookDocRepo),
		scoring.Weights{
			Graph:      cfg.Scoring.GraphWeight,
			Semantic:   cfg.Scoring.SemanticWeight,
			Engagement: cfg.Scoring.EngagementWeight,
			Popularity: cfg.Scoring.PopularityWeight,
			Freshness:  cfg.Scoring.FreshnessWeight,
		},
	)
	reviewScorer := scoring.NewReviewHybridScorer(
		scoring.NewReviewPopularityScorer(),
		scoring.NewReviewFreshnessScorer(),
		scoring.NewReviewEngagementScorer(engagementRepo),
		scoring.NewReviewContentScorer(),
		scoring.NewReviewBookContextScorer(),
		scoring.ReviewWeights{
			Popularity:  cfg.ReviewScoring.PopularityWeight,
			Freshness:   cfg.ReviewScoring.FreshnessWeight,
			Engagement:  cfg.ReviewScoring.EngagementWeight,
			Content:     cfg.ReviewScoring.ContentWeight,
			BookContext: cfg.ReviewScoring.BookContextWeight,
		},
	)
	sampler := sampling.NewWindowSampler(samplingConfig(cfg.Sampling))
	logger.Info("Window sampling configured", "enabled", sampler.Enabled(), "tiers", len(cfg.Sampling.Tiers))

	// Init service
	feedCfg := feed.Config{
		MaxCandidates:       cfg.Feed.MaxCandidates,
		MaxCachedItems:      cfg.Feed.MaxCachedItems,
		DefaultLimit:        cfg.Feed.DefaultLimit,
		RefreshLimit:        cfg.Feed.RefreshLimit,
		ExposureFilterLimit: cfg.Feed.ExposureFilterLimit,
	}
	feedService := feed.NewService(candidateRepo, cacheRepo, bookScorer, sampler, feedCfg)
	reviewFeedCfg := feedCfg
	reviewFeedCfg.MaxCachedItems = cfg.Feed.ReviewCacheMaxItems
	reviewFeedService := feed.NewReviewService(candidateRepo, reviewCacheRepo, exposureRepo, reviewScorer, sampler, reviewFeedCfg)
	highlightService := highlight.NewService(graphRepo, reviewSearchRepo, highlight.Config{
		ESWeight:      cfg.Highlight.ESWeight,
		GraphWeight:   cfg.Highlight.GraphWeight,
		MaxCandidates: cfg.Highlight.MaxCandidates,
	})

	// Init handler
	feedHandler := rest.NewFeedHandler(feedService, reviewFeedService)
	highlightHandler := rest.NewHighlightHandler(highlightService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TraceIDHeader},
	}))

	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)

	// Setup routes
	router.SetupMetricsRoute(e)
	api := e.Group("/api/v1", metrics.Observe())
	router.SetupFeedRoutes(api, feedHandler, authRequired)
	router.SetupHighlightRoutes(api, highlightHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

// migrationModels lists the tables auto-migrated at startup.
func migrationModels() []any {
	return []any{
		&domain.ReviewNode{},
		&domain.HighlightNode{},
		&domain.ReviewHighlightEdge{},
		&psqlRepo.BookCandidateRecord{},
		&psqlRepo.ReviewCandidateRecord{},
	}
}

func samplingConfig(c config.SamplingConfig) sampling.Config {
	tiers := make([]sampling.TierConfig, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		if t.Size <= 0 {
			continue
		}
		tiers = append(tiers, sampling.TierConfig{
			Size:      t.Size,
			Strategy:  sampling.ParseStrategy(t.Strategy),
			FixedTopN: t.FixedTopN,
		})
	}

	return sampling.Config{
		Enabled:     c.Enabled,
		Tiers:       tiers,
		BucketWidth: time.Duration(c.BucketSeconds) * time.Second,
	}
}
