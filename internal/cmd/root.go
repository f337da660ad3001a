package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timereport",
		Short: "Timereport - weekly time allocation reports from your calendar",
		Long:  "A reporting tool that reads calendar events, classifies them into project categories by keyword and persists weekly per-category hour totals",
	}

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewQueryCmd())
	rootCmd.AddCommand(NewProjectsCmd())
	rootCmd.AddCommand(NewDaemonCmd())

	return rootCmd
}
