// Package config provides configuration management for the podium-picks scorer.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/podium-picks/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// ScoringConfig holds the game constants, leaderboard directions and rule overrides
type ScoringConfig struct {
	TrackOrder        TrackOrderConfig `mapstructure:"track_order"`
	WinnerPick        WinnerPickConfig `mapstructure:"winner_pick"`
	Directions        DirectionsConfig `mapstructure:"directions"`
	Rules             []RuleConfig     `mapstructure:"rules" validate:"dive"`
	MaxConcurrentRuns int              `mapstructure:"max_concurrent_runs" validate:"required,gt=0,lte=64"`
	LeaderboardTopN   int              `mapstructure:"leaderboard_top_n" validate:"gte=0"`
}

// TrackOrderConfig represents the track-order game constants
type TrackOrderConfig struct {
	TrackPoints       int `mapstructure:"track_points" validate:"gte=0"`
	WeekPoints        int `mapstructure:"week_points" validate:"gte=0"`
	MissingPenalty    int `mapstructure:"missing_penalty" validate:"gte=0"`
	RequiredWeeks     int `mapstructure:"required_weeks" validate:"required,gt=0"`
	LateRequiredWeeks int `mapstructure:"late_required_weeks" validate:"required,gt=0"`
}

// WinnerPickConfig represents the winner-pick game constants
type WinnerPickConfig struct {
	DNFPositionCutoff int `mapstructure:"dnf_position_cutoff" validate:"required,gt=0"`
}

// DirectionsConfig sets the ranking direction of each context kind
type DirectionsConfig struct {
	TrackOrder string `mapstructure:"track_order" validate:"required,direction"`
	WinnerPick string `mapstructure:"winner_pick" validate:"required,direction"`
	MultiClass string `mapstructure:"multi_class" validate:"required,direction"`
}

// RuleConfig overrides one entry of the scoring rule table
type RuleConfig struct {
	Category  string `mapstructure:"category" validate:"required,category"`
	Slot      int    `mapstructure:"slot" validate:"gte=0"`
	Proximity string `mapstructure:"proximity" validate:"required,proximity"`
	Points    int    `mapstructure:"points"`
}

// CacheConfig represents in-memory cache configuration
type CacheConfig struct {
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" validate:"gte=0"`
	RuleTTLSeconds     int `mapstructure:"rule_ttl_seconds" validate:"gte=0"`
}

// ScheduleConfig represents periodic rescoring
type ScheduleConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RescoreCron string `mapstructure:"rescore_cron" validate:"required_if=Enabled true"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig represents the health server
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// NotifyConfig represents the leaderboard webhook
type NotifyConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	WebhookURL     string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
	RatePerSecond  float64 `mapstructure:"rate_per_second" validate:"gte=0"`
	Burst          int     `mapstructure:"burst" validate:"gte=0"`
}

// SecretsConfig selects the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// TrackOrderRules returns the configured track-order constants
func (c *Config) TrackOrderRules() models.TrackOrderRules {
	t := c.Scoring.TrackOrder
	return models.TrackOrderRules{
		TrackPoints:       t.TrackPoints,
		WeekPoints:        t.WeekPoints,
		MissingPenalty:    t.MissingPenalty,
		RequiredWeeks:     t.RequiredWeeks,
		LateRequiredWeeks: t.LateRequiredWeeks,
	}
}

// WinnerPickRules returns the configured winner-pick constants
func (c *Config) WinnerPickRules() models.WinnerPickRules {
	return models.WinnerPickRules{DNFPositionCutoff: c.Scoring.WinnerPick.DNFPositionCutoff}
}

// Direction returns the ranking direction for a context kind
func (c *Config) Direction(kind models.ContextKind) (models.Direction, error) {
	var d string
	switch kind {
	case models.ContextTrackOrder:
		d = c.Scoring.Directions.TrackOrder
	case models.ContextWinnerPick:
		d = c.Scoring.Directions.WinnerPick
	case models.ContextMultiClass:
		d = c.Scoring.Directions.MultiClass
	default:
		return "", fmt.Errorf("%q: %w", kind, models.ErrUnknownContextKind)
	}
	return models.Direction(d), nil
}

// RuleOverrides returns the configured rule overrides in file order
func (c *Config) RuleOverrides() []models.ScoringRule {
	rules := make([]models.ScoringRule, 0, len(c.Scoring.Rules))
	for _, r := range c.Scoring.Rules {
		rules = append(rules, models.ScoringRule{
			Category:  models.Category(r.Category),
			Slot:      r.Slot,
			Proximity: models.Proximity(r.Proximity),
			Points:    r.Points,
		})
	}
	return rules
}

// SnapshotTTL returns the leaderboard snapshot cache lifetime
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.Cache.SnapshotTTLSeconds) * time.Second
}

// RuleTTL returns the rule table cache lifetime
func (c *Config) RuleTTL() time.Duration {
	return time.Duration(c.Cache.RuleTTLSeconds) * time.Second
}

// NotifyTimeout returns the webhook request timeout
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutSeconds) * time.Second
}
