package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/podium-picks/internal/models"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "PODIUM_PICKS"
)

// newViper returns a viper instance bound to PODIUM_PICKS_* environment variables
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads the file at path, expands ${VAR} placeholders and feeds it to v
func readExpanded(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every optional key so environment overrides bind
// even when the file omits them.
func setDefaults(v *viper.Viper) {
	to := models.DefaultTrackOrderRules()
	wp := models.DefaultWinnerPickRules()

	v.SetDefault("app.name", "podium-picks")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "podium_picks")
	v.SetDefault("database.user", "podium")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("scoring.track_order.track_points", to.TrackPoints)
	v.SetDefault("scoring.track_order.week_points", to.WeekPoints)
	v.SetDefault("scoring.track_order.missing_penalty", to.MissingPenalty)
	v.SetDefault("scoring.track_order.required_weeks", to.RequiredWeeks)
	v.SetDefault("scoring.track_order.late_required_weeks", to.LateRequiredWeeks)
	v.SetDefault("scoring.winner_pick.dnf_position_cutoff", wp.DNFPositionCutoff)
	v.SetDefault("scoring.directions.track_order", string(models.LowerIsBetter))
	v.SetDefault("scoring.directions.winner_pick", string(models.LowerIsBetter))
	v.SetDefault("scoring.directions.multi_class", string(models.HigherIsBetter))
	v.SetDefault("scoring.max_concurrent_runs", 4)
	v.SetDefault("scoring.leaderboard_top_n", 10)

	v.SetDefault("cache.snapshot_ttl_seconds", 3600)
	v.SetDefault("cache.rule_ttl_seconds", 300)

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.rescore_cron", "*/15 * * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8080)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.timeout_seconds", 10)
	v.SetDefault("notify.retry_attempts", 3)
	v.SetDefault("notify.rate_per_second", 1.0)
	v.SetDefault("notify.burst", 1)

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.secret_name", "")
}

// ReloadFromEnv reloads the configuration from PODIUM_PICKS_CONFIG_PATH when set
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(envPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}
	newCfg, err := LoadWithDefaults(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}
