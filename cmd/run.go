package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/queuewatch/internal/application"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var lanes int
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rotate accounts through the queue until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			level, err := cmd.Flags().GetString(logLevelFlag)
			if err != nil {
				return err
			}
			logger, err := app.newLogger(cmd.ErrOrStderr(), level)
			if err != nil {
				return err
			}

			schedulerCfg := application.SchedulerConfig{
				Lanes:              app.cfg.Scheduler.Lanes,
				BudgetWindow:       app.cfg.Scheduler.BudgetWindow,
				Cooldown:           app.cfg.Scheduler.Cooldown,
				RetryDelay:         app.cfg.Scheduler.RetryDelay,
				MaxSessionDuration: app.cfg.Session.MaxDuration,
			}
			if cmd.Flags().Changed("lanes") {
				schedulerCfg.Lanes = lanes
			}
			if cmd.Flags().Changed("window") {
				if window < 0 {
					return fmt.Errorf("window must not be negative, got %s", window)
				}
				schedulerCfg.BudgetWindow = window
			}

			creds, err := application.NewCredentialPool(app.repo, app.secretStore, logger).Load(ctx)
			if err != nil {
				return fmt.Errorf("load credentials: %w", err)
			}

			records, closeRecords, err := app.openRecordStore(ctx)
			defer closeRecords()
			if err != nil {
				return err
			}

			scheduler, err := application.NewScheduler(creds, schedulerCfg, app.newSessionFactory(logger), records, ports.SystemClock{}, logger)
			if err != nil {
				return err
			}

			logger.Info().
				Int("credentials", len(creds)).
				Int("lanes", schedulerCfg.Lanes).
				Dur("window", schedulerCfg.BudgetWindow).
				Str("relay", app.cfg.Session.URL).
				Msg("queuewatch started")

			if err := scheduler.Run(ctx); err != nil {
				return err
			}

			logger.Info().Msg("queuewatch stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&lanes, "lanes", 0, "Number of parallel lanes (overrides scheduler.lanes)")
	cmd.Flags().DurationVar(&window, "window", 0, "Budget window the lane starts are spread over (overrides scheduler.budget_window)")

	return cmd
}
