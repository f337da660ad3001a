package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timereport/internal/config"
	"timereport/internal/storage"
)

var queryConfigPath string
var queryWeekStart string

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query stored weekly reports",
		Long:  "Query and view report rows that have already been generated. Without a week, lists the weeks present in the store.",
		RunE:  runQuery,
	}

	cmd.Flags().StringVarP(&queryConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&queryWeekStart, "week-start", "s", "", "Week start date (YYYY-MM-DD)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(queryConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := storage.NewReportStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer st.Close()

	if queryWeekStart == "" {
		weeks, err := st.Weeks()
		if err != nil {
			return fmt.Errorf("failed to list weeks: %w", err)
		}

		if len(weeks) == 0 {
			fmt.Fprintf(os.Stdout, "No reports stored yet.\n")
			return nil
		}

		fmt.Fprintf(os.Stdout, "Stored report weeks:\n")
		for _, week := range weeks {
			fmt.Fprintf(os.Stdout, "  %s\n", week.Format("2006-01-02"))
		}
		return nil
	}

	weekStart, err := time.Parse("2006-01-02", queryWeekStart)
	if err != nil {
		return fmt.Errorf("invalid week start date: %w", err)
	}

	rows, err := st.RowsForWeek(weekStart)
	if err != nil {
		return fmt.Errorf("failed to query report rows: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No report found for week starting %s\n", weekStart.Format("2006-01-02"))
		return nil
	}

	fmt.Fprintf(os.Stdout, "Report for week %s to %s\n", rows[0].WeekStart.Format("2006-01-02"), rows[0].WeekEnd.Format("2006-01-02"))
	fmt.Fprintf(os.Stdout, "================\n\n")

	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%s: %.2f hours\n", row.Category, row.Hours)
		if row.Tasks != "" {
			for _, task := range strings.Split(row.Tasks, "\n") {
				fmt.Fprintf(os.Stdout, "    - %s\n", task)
			}
		}
	}

	return nil
}
