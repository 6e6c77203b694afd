package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/gridrecon/gridlog"
	"github.com/rustyeddy/gridrecon/internal/pipeline"
	"github.com/rustyeddy/gridrecon/journal"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Reconcile a GridLog and a SUMMARY workbook into a CSV",
	Long: `Load both exports, keep portfolios with enough unique users, and write
"completed portfolio of <day> <mon>.csv" to the output directory.

Examples:
  gridrecon process -g "gridlog 5 Jan 2024.csv" -s SUMMARY.xlsx
  gridrecon process -g gridlog.xlsx -s SUMMARY.xlsx --min-users 3 -o ./out`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

var (
	processGridLog  string
	processSummary  string
	processMinUsers int
	processOutDir   string
)

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processGridLog, "gridlog", "g", "", "GridLog export, .csv or .xlsx (required)")
	processCmd.Flags().StringVarP(&processSummary, "summary", "s", "", "SUMMARY workbook, .xlsx (required)")
	processCmd.Flags().IntVarP(&processMinUsers, "min-users", "m", 0, "minimum unique UserIDs per portfolio (default from config)")
	processCmd.Flags().StringVarP(&processOutDir, "out", "o", "", "output directory (default from config)")
	processCmd.MarkFlagRequired("gridlog")
	processCmd.MarkFlagRequired("summary")
}

func runProcess(cmd *cobra.Command, args []string) error {
	rc := cfg.Recon()
	if cmd.Flags().Changed("min-users") {
		rc.MinUsers = processMinUsers
	}
	outDir := cfg.Output.Dir
	if processOutDir != "" {
		outDir = processOutDir
	}

	events, err := gridlog.LoadEventLog(processGridLog)
	if err != nil {
		return err
	}
	wb, err := gridlog.LoadWorkbook(processSummary)
	if err != nil {
		return err
	}

	j, err := pipeline.OpenJournal(cfg.Journal.Type, cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	out, err := pipeline.New(j).Process(cmd.Context(), events, wb, rc)
	if err != nil {
		return err
	}

	path, err := journal.WriteFile(outDir, out.Result.OutputName, out.Result.Rows)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, warning := range out.Result.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warning)
	}
	st := out.Result.Stats
	fmt.Fprintf(w, "✓ Processing completed: %s\n", path)
	fmt.Fprintf(w, "  Run: %s\n", out.RunID)
	fmt.Fprintf(w, "  GridLog rows processed: %d\n", st.EventRows)
	fmt.Fprintf(w, "  Portfolios in GridLog: %d\n", st.EventPortfolios)
	fmt.Fprintf(w, "  Portfolios after UserID filter: %d\n", st.QualifiedPortfolios)
	fmt.Fprintf(w, "  Fully completed portfolios: %d\n", st.FullyCompleted)
	fmt.Fprintf(w, "  Final results: %d\n", st.Results)
	return nil
}
