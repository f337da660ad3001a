package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"timereport/internal/config"
	"timereport/internal/storage"
)

var projectsConfigPath string

func NewProjectsCmd() *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage project keywords (list/add/remove)",
		Long:  "Manage the ordered project keyword list. Keyword order defines classification precedence: the first keyword found in an event wins.",
	}

	projectsCmd.PersistentFlags().StringVarP(&projectsConfigPath, "config", "c", "", "Path to config file")

	projectsCmd.AddCommand(NewProjectsListCmd())
	projectsCmd.AddCommand(NewProjectsAddCmd())
	projectsCmd.AddCommand(NewProjectsRemoveCmd())

	return projectsCmd
}

func NewProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured project keywords in precedence order",
		RunE:  runProjectsList,
	}
}

func NewProjectsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword>",
		Short: "Append a project keyword at the end of the precedence order",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsAdd,
	}
}

func NewProjectsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <keyword>",
		Short: "Remove a project keyword",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsRemove,
	}
}

func openProjectStore() (*storage.ReportStore, error) {
	cfg, err := config.Load(projectsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Storage.EnsureDBPath(); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}

	st, err := storage.NewReportStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return st, nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	st, err := openProjectStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Fprintf(os.Stdout, "No project keywords configured. Add one with 'timereport projects add <keyword>'.\n")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Project keywords (precedence order):\n")
	for i, p := range projects {
		fmt.Fprintf(os.Stdout, "  %d. %s\n", i+1, p.Keyword)
	}
	return nil
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	keyword := strings.TrimSpace(args[0])
	if keyword == "" {
		return fmt.Errorf("keyword must not be blank")
	}

	st, err := openProjectStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.AddProject(keyword); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Added project keyword '%s'.\n", keyword)
	return nil
}

func runProjectsRemove(cmd *cobra.Command, args []string) error {
	st, err := openProjectStore()
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.RemoveProject(args[0])
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Fprintf(os.Stdout, "No project keyword '%s' found.\n", args[0])
	} else {
		fmt.Fprintf(os.Stdout, "Removed project keyword '%s'.\n", args[0])
	}
	return nil
}
