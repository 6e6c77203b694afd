package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/gridrecon/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query journaled runs",
	Long: `Query and display runs recorded in the SQLite journal.

Subcommands:
  list  - List recent runs
  show  - Show one run and its portfolios

Examples:
  gridrecon history list --limit 5
  gridrecon history show <run-id>`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its portfolios",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var (
	historyDBPath string
	historyLimit  int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.PersistentFlags().StringVarP(&historyDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
}

func openHistory() (*journal.SQLite, error) {
	path := cfg.Journal.DBPath
	if historyDBPath != "" {
		path = historyDBPath
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	j, err := openHistory()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), journal.FormatRunsOrg(runs))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	j, err := openHistory()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	results, err := j.ListResults(cmd.Context(), run.RunID)
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}

	out, err := journal.FormatRunOrg(run, results)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
