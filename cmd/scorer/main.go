package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/podium-picks/internal/cache"
	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/database"
	applogger "github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/notify"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	dryRun       bool
	outputFormat string

	cfg     *config.Config
	logger  *logrus.Logger
	db      *database.DB
	scorer  *service.ScoringService
	cleanup []func()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Score and rank without writing results back")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Report format: table or json")

	rootCmd.AddCommand(trackOrderCmd, winnersCmd, eventCmd, contextCmd, rescoreAllCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:           "scorer",
	Short:         "Score sim-racing predictions and rebuild leaderboards",
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != "table" && outputFormat != "json" {
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	},
}

var trackOrderCmd = &cobra.Command{
	Use:   "track-order SEASON_ID",
	Short: "Score a season's track-order predictions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		report, err := scorer.ScoreTrackOrder(cmd.Context(), id, dryRun)
		return printReports(cmd, err, report)
	},
}

var winnersCmd = &cobra.Command{
	Use:   "winners SEASON_ID",
	Short: "Score a season's race-winner picks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		report, err := scorer.ScoreWinnerPicks(cmd.Context(), id, dryRun)
		return printReports(cmd, err, report)
	},
}

var eventCmd = &cobra.Command{
	Use:   "event EVENT_ID",
	Short: "Score a multi-class event's podium and manufacturer picks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		report, err := scorer.ScoreEvent(cmd.Context(), id, dryRun)
		return printReports(cmd, err, report)
	},
}

var contextCmd = &cobra.Command{
	Use:   "context CONTEXT_ID",
	Short: "Score a stored season or event by ID, whatever its kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		report, err := scorer.ScoreByID(cmd.Context(), id, dryRun)
		return printReports(cmd, err, report)
	},
}

var rescoreAllCmd = &cobra.Command{
	Use:   "rescore-all",
	Short: "Rescore every season and event with recorded results",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := scorer.RescoreAll(cmd.Context(), dryRun)
		if err != nil {
			return err
		}
		if err := printReports(cmd, nil, reports...); err != nil {
			return err
		}
		for _, r := range reports {
			if r.Err != nil {
				return fmt.Errorf("one or more contexts failed to score")
			}
		}
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.ReloadFromEnv(cfg); err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLoggerWithFormat(cfg.App.LogLevel, cfg.App.LogFormat)
	logger.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
		"dry_run":     dryRun,
	}).Debug("Starting scorer")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	var err error
	db, err = database.Initialize(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup = append(cleanup, db.Close)

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	var notifier service.Notifier = notify.NoopNotifier{}
	if !dryRun {
		notifier = notify.FromConfig(cfg, logger)
		if closer, ok := notifier.(interface{ Close() error }); ok {
			cleanup = append(cleanup, func() { _ = closer.Close() })
		}
	}

	scorer = service.NewScoringService(
		repos,
		opts,
		cache.NewSnapshotCache(cfg.SnapshotTTL()),
		cache.NewRuleCache(cfg.RuleTTL()),
		notifier,
		logger,
	)
	return nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q: %w", s, err)
	}
	return id, nil
}
