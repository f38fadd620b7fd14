package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/canvas/internal/config"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/aretw0/canvas/pkg/document"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "canvas",
	Short:         "Canvas is an interaction engine for node-graph workflow editors",
	Long:          `Canvas edits workflow graphs the way an editor canvas does: copy, paste, move, collapse frames and derive edge status, from the shell, over HTTP or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (.toml, .yaml or .json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// loadSettings reads the --config file and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

func newLogger(cfg *config.Settings) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.Log.Level))
}

// openFile serves a single graph file as a document of a file-backed
// manager. The document ID is the file name without its extension.
func openFile(cfg *config.Settings, path string, logger *slog.Logger) (*document.Manager, string) {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	store := file.New(filepath.Dir(path))
	store.Format = file.FormatOf(path)

	opts := append(cfg.DocumentOptions(), document.WithLogger(logger))
	return document.NewManager(store, opts...), id
}
