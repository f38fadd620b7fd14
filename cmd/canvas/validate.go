package main

import (
	"fmt"

	"github.com/aretw0/canvas/internal/validator"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check graph files for consistency",
	Long:  `Reports broken edge endpoints, undeclared ports, members of non-frame nodes and frame cycles.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			g, err := file.ReadGraph(path)
			if err != nil {
				return err
			}
			if err := validator.ValidateGraph(*g); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
