package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/gridrecon/config"
	"github.com/rustyeddy/gridrecon/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg is loaded before every subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gridrecon",
	Short: "Reconcile GridLog events with SUMMARY workbook legs",
	Long: `Gridrecon answers, per trading portfolio, "did this portfolio finish,
and why/when?" by merging two exports:

  - the GridLog event log (CSV or XLSX)
  - the SUMMARY execution workbook (XLSX, every sheet named *legs*)

Reasons are combined stop-loss or trailing-target breaches, forced
square-off at session end (OnSqOffTime), a specific leg exit type, or
AllLegsCompleted.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
}
