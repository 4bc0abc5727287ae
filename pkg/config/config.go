package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Redis         RedisConfig
	Meilisearch   MeilisearchConfig
	Scoring       ScoringConfig
	ReviewScoring ReviewScoringConfig
	Sampling      SamplingConfig
	Highlight     HighlightConfig
	Feed          FeedConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type MeilisearchConfig struct {
	Host          string
	APIKey        string
	DateCacheSize int
}

type ScoringConfig struct {
	GraphWeight      float64
	SemanticWeight   float64
	EngagementWeight float64
	PopularityWeight float64
	FreshnessWeight  float64
}

type ReviewScoringConfig struct {
	PopularityWeight  float64
	FreshnessWeight   float64
	EngagementWeight  float64
	ContentWeight     float64
	BookContextWeight float64
}

type SamplingTier struct {
	Size      int
	Strategy  string
	FixedTopN int
}

type SamplingConfig struct {
	Enabled       bool
	BucketSeconds int
	Tiers         []SamplingTier
}

type HighlightConfig struct {
	ESWeight      float64
	GraphWeight   float64
	MaxCandidates int
}

type FeedConfig struct {
	MaxCandidates  int
	MaxCachedItems int
	DefaultLimit   int
	RefreshLimit   int
	CacheTTLHours  int

	ReviewCacheTTLHours int
	ReviewCacheMaxItems int
	ExposureFilterLimit int
	ExposureMaxItems    int
	ExposureTTLHours    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "readerFeed"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "reader_feed"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Meilisearch: MeilisearchConfig{
			Host:          getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
			APIKey:        getEnv("MEILISEARCH_API_KEY", ""),
			DateCacheSize: getEnvInt("MEILISEARCH_DATE_CACHE_SIZE", 10000),
		},
		Scoring: ScoringConfig{
			GraphWeight:      getEnvFloat("SCORING_WEIGHT_GRAPH", 0.4),
			SemanticWeight:   getEnvFloat("SCORING_WEIGHT_SEMANTIC", 0.3),
			EngagementWeight: getEnvFloat("SCORING_WEIGHT_ENGAGEMENT", 0.15),
			PopularityWeight: getEnvFloat("SCORING_WEIGHT_POPULARITY", 0.1),
			FreshnessWeight:  getEnvFloat("SCORING_WEIGHT_FRESHNESS", 0.05),
		},
		ReviewScoring: ReviewScoringConfig{
			PopularityWeight:  getEnvFloat("REVIEW_SCORING_WEIGHT_POPULARITY", 0.3),
			FreshnessWeight:   getEnvFloat("REVIEW_SCORING_WEIGHT_FRESHNESS", 0.2),
			EngagementWeight:  getEnvFloat("REVIEW_SCORING_WEIGHT_ENGAGEMENT", 0.2),
			ContentWeight:     getEnvFloat("REVIEW_SCORING_WEIGHT_CONTENT", 0.2),
			BookContextWeight: getEnvFloat("REVIEW_SCORING_WEIGHT_BOOK_CONTEXT", 0.1),
		},
		Sampling: SamplingConfig{
			Enabled:       getEnvBool("SAMPLING_ENABLED", true),
			BucketSeconds: getEnvInt("SAMPLING_BUCKET_SECONDS", 60),
			Tiers: []SamplingTier{
				{
					Size:      getEnvInt("SAMPLING_TIER1_SIZE", 10),
					Strategy:  getEnv("SAMPLING_TIER1_STRATEGY", "PARTIAL"),
					FixedTopN: getEnvInt("SAMPLING_TIER1_FIXED_TOP_N", 3),
				},
				{
					Size:      getEnvInt("SAMPLING_TIER2_SIZE", 40),
					Strategy:  getEnv("SAMPLING_TIER2_STRATEGY", "WINDOW"),
					FixedTopN: getEnvInt("SAMPLING_TIER2_WINDOW_SIZE", 8),
				},
				{
					Size:     getEnvInt("SAMPLING_TIER3_SIZE", 50),
					Strategy: getEnv("SAMPLING_TIER3_STRATEGY", "FULL"),
				},
			},
		},
		Highlight: HighlightConfig{
			ESWeight:      getEnvFloat("HIGHLIGHT_ES_WEIGHT", 0.6),
			GraphWeight:   getEnvFloat("HIGHLIGHT_GRAPH_WEIGHT", 0.4),
			MaxCandidates: getEnvInt("HIGHLIGHT_MAX_CANDIDATES", 200),
		},
		Feed: FeedConfig{
			MaxCandidates:  getEnvInt("FEED_MAX_CANDIDATES", 200),
			MaxCachedItems: getEnvInt("FEED_MAX_CACHED_ITEMS", 100),
			DefaultLimit:   getEnvInt("FEED_DEFAULT_LIMIT", 20),
			RefreshLimit:   getEnvInt("FEED_REFRESH_LIMIT", 50),
			CacheTTLHours:  getEnvInt("FEED_CACHE_TTL_HOURS", 24),

			ReviewCacheTTLHours: getEnvInt("REVIEW_CACHE_TTL_HOURS", 24),
			ReviewCacheMaxItems: getEnvInt("REVIEW_CACHE_MAX_ITEMS", 100),
			ExposureFilterLimit: getEnvInt("REVIEW_EXPOSURE_FILTER_LIMIT", 200),
			ExposureMaxItems:    getEnvInt("REVIEW_EXPOSURE_MAX_ITEMS", 200),
			ExposureTTLHours:    getEnvInt("REVIEW_EXPOSURE_TTL_HOURS", 24),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
