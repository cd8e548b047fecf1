package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/podium-picks/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("direction", validateDirection)
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("proximity", validateProximity)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateDirection(fl validator.FieldLevel) bool {
	return models.Direction(fl.Field().String()).Valid()
}

func validateCategory(fl validator.FieldLevel) bool {
	switch models.Category(fl.Field().String()) {
	case models.CategoryPodium, models.CategoryManufacturer:
		return true
	default:
		return false
	}
}

// validateProximity accepts the proximities that are looked up in the rule table
func validateProximity(fl validator.FieldLevel) bool {
	switch models.Proximity(fl.Field().String()) {
	case models.ProximityExact, models.ProximityOnPodium, models.ProximityTop5,
		models.ProximityOff1, models.ProximityOff2:
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	to := cfg.Scoring.TrackOrder
	if to.MissingPenalty <= to.TrackPoints+to.WeekPoints {
		return fmt.Errorf("scoring.track_order.missing_penalty (%d) must exceed track_points + week_points (%d)",
			to.MissingPenalty, to.TrackPoints+to.WeekPoints)
	}
	if to.LateRequiredWeeks > to.RequiredWeeks {
		return fmt.Errorf("scoring.track_order.late_required_weeks (%d) must not exceed required_weeks (%d)",
			to.LateRequiredWeeks, to.RequiredWeeks)
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("database.max_idle_connections must not exceed max_connections")
	}

	for i, r := range cfg.Scoring.Rules {
		if models.Category(r.Category) == models.CategoryPodium && (r.Slot < 1 || r.Slot > 3) {
			return fmt.Errorf("scoring.rules[%d]: podium rules need a slot between 1 and 3", i)
		}
	}

	if cfg.Schedule.Enabled {
		if _, err := cron.ParseStandard(cfg.Schedule.RescoreCron); err != nil {
			return fmt.Errorf("schedule.rescore_cron: %w", err)
		}
	}

	if cfg.Notify.Enabled && cfg.Notify.WebhookURL == "" && !cfg.Secrets.Enabled {
		return fmt.Errorf("notify.webhook_url is required when notifications are enabled")
	}

	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	var b strings.Builder
	for _, err := range errs {
		field := err.Namespace()
		switch err.Tag() {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "min", "gte":
			fmt.Fprintf(&b, "- Field '%s' must be at least %s\n", field, err.Param())
		case "gt":
			fmt.Fprintf(&b, "- Field '%s' must be greater than %s\n", field, err.Param())
		case "max", "lte":
			fmt.Fprintf(&b, "- Field '%s' must be at most %s\n", field, err.Param())
		case "oneof", "environment", "loglevel", "direction", "category", "proximity":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, err.Value())
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, err.Tag())
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
