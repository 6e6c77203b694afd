package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/gridrecon/internal/pipeline"
	"github.com/rustyeddy/gridrecon/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload/download HTTP endpoint",
	Long: `Start an HTTP server accepting multipart uploads on POST /process
(fields: gridlog, summary, optional min_users) and answering with the
reconciled CSV as an attachment.

Example:
  gridrecon serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	j, err := pipeline.OpenJournal(cfg.Journal.Type, cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	srv := server.New(server.Config{
		Addr:        addr,
		MaxUploadMB: cfg.Server.MaxUploadMB,
		Defaults:    cfg.Recon(),
	}, pipeline.New(j))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
