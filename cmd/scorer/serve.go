package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/podium-picks/internal/health"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled rescoring with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		healthCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Health.Port,
			Logger:      logger,
		}
		if cfg.Metrics.Enabled {
			healthCfg.Metrics = metrics.Handler()
			healthCfg.MetricsPath = cfg.Metrics.Path
		}
		srv := health.NewServer(healthCfg)
		srv.AddCheck("database", db.HealthCheck)
		if err := srv.Start(ctx); err != nil {
			return err
		}

		sched := scheduler.NewScheduler(scorer, logger)
		if cfg.Schedule.Enabled {
			if _, err := sched.ScheduleRescore(cfg.Schedule.RescoreCron, dryRun); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		} else {
			logger.Warn("Scheduled rescoring disabled; serving health endpoints only")
		}

		srv.SetReady(true)
		logger.WithField("next_run", sched.GetNextRun()).Info("Scorer serving")

		<-ctx.Done()
		logger.Info("Shutdown signal received")
		srv.SetReady(false)
		return nil
	},
}
