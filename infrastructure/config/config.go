package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainConfig "retroboard/domain/config"
)

// Storage backends
const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Storage configuration
	StorageBackend   string
	AWSRegion        string
	DynamoDBTable    string
	DynamoDBEndpoint string // local DynamoDB, empty for AWS
	SessionIndexName string // GSI1 - sessions by date

	// Circuit breaker around the repositories
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	// Lambda configuration
	IsLambda bool

	// Logging
	LogLevel string

	// Observability
	EnableMetrics bool
	EnableTracing bool
	OTelEndpoint  string

	// HTTP
	EnableCORS      bool
	AllowedOrigins  []string
	RateLimitPerMin int // 0 disables rate limiting
	RateLimitBurst  int
	MetricsCacheTTL time.Duration

	// Analytics thresholds; a YAML file at AnalyticsConfigPath overrides
	// them and is reloaded on change
	MatchStrategy       string
	Analytics           *domainConfig.AnalyticsConfig
	AnalyticsConfigPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	environment := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   environment,

		StorageBackend:   getEnv("STORAGE_BACKEND", StorageMemory),
		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:    getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "retroboard")),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		SessionIndexName: getEnv("SESSION_INDEX_NAME", "GSI1"),

		BreakerFailures: uint32(getEnvInt("BREAKER_MAX_FAILURES", 5)),
		BreakerTimeout:  getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),

		IsLambda: getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		OTelEndpoint:  getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),

		EnableCORS:      getEnvBool("ENABLE_CORS", true),
		AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		MetricsCacheTTL: getEnvDuration("METRICS_CACHE_TTL", time.Minute),

		MatchStrategy:       getEnv("ANALYTICS_MATCH_STRATEGY", "quick_ratio"),
		Analytics:           loadAnalytics(environment),
		AnalyticsConfigPath: getEnv("ANALYTICS_CONFIG_PATH", ""),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadAnalytics starts from the environment profile and applies ANALYTICS_*
// overrides
func loadAnalytics(environment string) *domainConfig.AnalyticsConfig {
	a := domainConfig.LoadAnalyticsConfig(environment)

	a.SimilarityThreshold = getEnvFloat("ANALYTICS_SIMILARITY_THRESHOLD", a.SimilarityThreshold)
	a.MinOccurrences = getEnvInt("ANALYTICS_MIN_OCCURRENCES", a.MinOccurrences)
	a.GrowthThreshold = getEnvFloat("ANALYTICS_GROWTH_THRESHOLD", a.GrowthThreshold)
	a.DeclineThreshold = getEnvFloat("ANALYTICS_DECLINE_THRESHOLD", a.DeclineThreshold)
	a.ActionItemsSlug = getEnv("ANALYTICS_ACTION_ITEMS_SLUG", a.ActionItemsSlug)
	a.MinSessions = getEnvInt("ANALYTICS_MIN_SESSIONS", a.MinSessions)
	a.MaxSessions = getEnvInt("ANALYTICS_MAX_SESSIONS", a.MaxSessions)
	a.RequireSameTemplate = getEnvBool("ANALYTICS_REQUIRE_SAME_TEMPLATE", a.RequireSameTemplate)
	a.TopVotedLimit = getEnvInt("ANALYTICS_TOP_VOTED_LIMIT", a.TopVotedLimit)
	a.RecentSessionsLimit = getEnvInt("ANALYTICS_RECENT_SESSIONS_LIMIT", a.RecentSessionsLimit)
	a.ParticipationWindow = getEnvInt("ANALYTICS_PARTICIPATION_WINDOW", a.ParticipationWindow)
	a.ComparisonTimeout = getEnvDuration("ANALYTICS_COMPARISON_TIMEOUT", a.ComparisonTimeout)

	return a
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StorageDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required for the dynamodb backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.RateLimitPerMin < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if c.IsProduction() && c.StorageBackend == StorageMemory {
		return fmt.Errorf("the memory backend is not allowed in production")
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("invalid analytics configuration: %w", err)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList reads a comma separated list, dropping empty entries
func getEnvList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
