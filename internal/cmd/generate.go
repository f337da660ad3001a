package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"timereport/internal/calendar"
	"timereport/internal/config"
	"timereport/internal/report"
	"timereport/internal/storage"
)

var generateConfigPath string
var generateWeek string

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the weekly time allocation report",
		Long:  "Generate the time allocation report for one week: fetch calendar events, classify them into project categories by keyword and replace that week's rows in the report store.",
		RunE:  runGenerate,
	}

	cmd.Flags().StringVarP(&generateConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&generateWeek, "week", "w", "", "Week to report on: current, previous or auto (default from config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(generateConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	week := generateWeek
	if week == "" {
		week = cfg.Report.Week
	}
	mode, err := report.ParseWeekMode(week)
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

	summary, err := generator.Run(mode)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Report complete for week %s: %d of %d events counted, %d rows written.\n",
		summary.Window, summary.EventsIncluded, summary.EventsFetched, summary.RowsWritten)

	return nil
}

// newGenerator wires a report generator from configuration: system clock,
// ICS event source, and the store doubling as keyword source and row sink.
func newGenerator(cfg *config.Config, st *storage.ReportStore) (*report.Generator, error) {
	location, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report timezone: %w", err)
	}

	timeout, err := cfg.Calendar.GetFetchTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid calendar fetch timeout: %w", err)
	}

	source := calendar.NewICSSource(cfg.Calendar.Source, cfg.Calendar.OwnerEmail, timeout)

	return report.NewGenerator(report.SystemClock{}, st, source, st, location), nil
}
