package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/canvas/internal/cli"
	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves canvas documents over a JSON API with live change streams (SSE)
and Prometheus metrics at /metrics. Documents live in memory, in a directory
or in Redis, as selected by the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Backend, _ = cmd.Flags().GetString("store")
		}
		if cmd.Flags().Changed("dir") {
			cfg.Store.Path, _ = cmd.Flags().GetString("dir")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := newLogger(cfg)

		backend, err := cli.OpenBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		handler, err := cli.NewAPI(sc, backend, logger)
		if err != nil {
			return err
		}

		tui.PrintBanner(os.Stderr)
		if err := cli.Serve(sc, fmt.Sprintf(":%d", cfg.HTTP.Port), handler, logger); err != nil {
			return err
		}
		if sig := sc.Signal(); sig != nil {
			logger.Info("canvas server stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("store", "", "Document store: memory, file or redis")
	serveCmd.Flags().String("dir", "", "Directory of the file store")
}
