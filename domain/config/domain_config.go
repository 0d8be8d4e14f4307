package config

import (
	"fmt"
	"time"
)

// AnalyticsConfig holds the tunable thresholds of the retrospective analytics engine.
// Every analyzer receives its values explicitly; none of them reads globals.
type AnalyticsConfig struct {
	// Text matching
	SimilarityThreshold float64 `yaml:"similarityThreshold" json:"similarityThreshold"`

	// Recurrence
	MinOccurrences int `yaml:"minOccurrences" json:"minOccurrences"`

	// Trend bands, in percent (10 means +10%)
	GrowthThreshold  float64 `yaml:"growthThreshold" json:"growthThreshold"`
	DeclineThreshold float64 `yaml:"declineThreshold" json:"declineThreshold"`

	// Category carrying action items, excluded from recurrence analysis
	ActionItemsSlug string `yaml:"actionItemsSlug" json:"actionItemsSlug"`

	// Comparison request bounds
	MinSessions int `yaml:"minSessions" json:"minSessions"`
	MaxSessions int `yaml:"maxSessions" json:"maxSessions"`

	// Reject comparisons whose sessions use templates with different category slugs
	RequireSameTemplate bool `yaml:"requireSameTemplate" json:"requireSameTemplate"`

	// Global metrics
	TopVotedLimit       int `yaml:"topVotedLimit" json:"topVotedLimit"`
	RecentSessionsLimit int `yaml:"recentSessionsLimit" json:"recentSessionsLimit"`
	ParticipationWindow int `yaml:"participationWindow" json:"participationWindow"`

	// Upper bound on how long a single comparison may take
	ComparisonTimeout time.Duration `yaml:"comparisonTimeout" json:"comparisonTimeout"`
}

// DefaultAnalyticsConfig returns the default analytics configuration
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		SimilarityThreshold: 0.85,
		MinOccurrences:      2,
		GrowthThreshold:     10,
		DeclineThreshold:    -10,
		ActionItemsSlug:     "action_items",
		MinSessions:         2,
		MaxSessions:         10,
		RequireSameTemplate: false,
		TopVotedLimit:       10,
		RecentSessionsLimit: 5,
		ParticipationWindow: 5,
		ComparisonTimeout:   10 * time.Second,
	}
}

// ProductionAnalyticsConfig returns production-specific configuration
func ProductionAnalyticsConfig() *AnalyticsConfig {
	config := DefaultAnalyticsConfig()
	config.ComparisonTimeout = 5 * time.Second
	return config
}

// DevelopmentAnalyticsConfig returns development-specific configuration
func DevelopmentAnalyticsConfig() *AnalyticsConfig {
	config := DefaultAnalyticsConfig()
	config.ComparisonTimeout = 30 * time.Second
	return config
}

// LoadAnalyticsConfig loads analytics configuration based on environment
func LoadAnalyticsConfig(environment string) *AnalyticsConfig {
	switch environment {
	case "production":
		return ProductionAnalyticsConfig()
	case "development":
		return DevelopmentAnalyticsConfig()
	default:
		return DefaultAnalyticsConfig()
	}
}

// Clone returns an independent copy
func (c *AnalyticsConfig) Clone() *AnalyticsConfig {
	clone := *c
	return &clone
}

// Validate checks if the configuration is valid
func (c *AnalyticsConfig) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be within [0, 1], got %v", c.SimilarityThreshold)
	}
	if c.MinOccurrences < 2 {
		return fmt.Errorf("min occurrences must be at least 2, got %d", c.MinOccurrences)
	}
	if c.GrowthThreshold < 0 {
		return fmt.Errorf("growth threshold must not be negative, got %v", c.GrowthThreshold)
	}
	if c.DeclineThreshold > 0 {
		return fmt.Errorf("decline threshold must not be positive, got %v", c.DeclineThreshold)
	}
	if c.ActionItemsSlug == "" {
		return fmt.Errorf("action items slug is required")
	}
	if c.MinSessions < 2 {
		return fmt.Errorf("min sessions must be at least 2, got %d", c.MinSessions)
	}
	if c.MaxSessions < c.MinSessions {
		return fmt.Errorf("max sessions (%d) must not be below min sessions (%d)", c.MaxSessions, c.MinSessions)
	}
	if c.TopVotedLimit <= 0 || c.RecentSessionsLimit <= 0 || c.ParticipationWindow <= 0 {
		return fmt.Errorf("metrics limits must be positive")
	}
	if c.ComparisonTimeout < 0 {
		return fmt.Errorf("comparison timeout must not be negative")
	}
	return nil
}
