package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timereport/internal/config"
	"timereport/internal/logger"
	"timereport/internal/report"
	"timereport/internal/scheduler"
	"timereport/internal/storage"
)

var daemonConfigPath string

func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run report generation on a schedule",
		Long:  "Run in the foreground and regenerate the weekly report on the configured cron expression or fixed interval.",
		RunE:  runDaemon,
	}

	cmd.Flags().StringVarP(&daemonConfigPath, "config", "c", "", "Path to config file")

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(daemonConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Report.Cron == "" && cfg.Report.Interval == "" {
		return fmt.Errorf("daemon mode requires report.cron or report.interval to be configured")
	}

	mode, err := report.ParseWeekMode(cfg.Report.Week)
	if err != nil {
		return err
	}

	if err := cfg.Storage.EnsureDBPath(); err != nil {
		return fmt.Errorf("failed to create db path: %w", err)
	}

	st, err := storage.NewReportStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer st.Close()

	generator, err := newGenerator(cfg, st)
	if err != nil {
		return err
	}

	task := func() error {
		summary, err := generator.Run(mode)
		if err != nil {
			return err
		}
		logger.GetLogger().Infof("Scheduled report complete for week %s: %d rows written", summary.Window, summary.RowsWritten)
		return nil
	}

	sched, err := scheduler.NewScheduler(cfg.Report.Interval, cfg.Report.Cron)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := sched.Start(task); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.GetLogger().Info("Timereport daemon started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.GetLogger().Info("Stopping...")
	if err := sched.Stop(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	logger.GetLogger().Info("Stopped.")

	return nil
}
