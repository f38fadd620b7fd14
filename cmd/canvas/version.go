package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of canvas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "canvas version %s\n", strings.TrimSpace(canvas.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
