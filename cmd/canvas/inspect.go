package main

import (
	"path/filepath"
	"strings"

	"github.com/aretw0/canvas/internal/cli"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a canvas: nodes, collapsed frames and edge status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := file.ReadGraph(args[0])
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		return cli.Inspect(cmd.OutOrStdout(), id, *g)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
