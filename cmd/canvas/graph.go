package main

import (
	"fmt"

	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export a canvas as a Mermaid diagram",
	Long: `Reads a graph file (JSON or YAML) and prints a Mermaid flowchart: frames become
subgraphs, collapsed frames a single node, and edges carry their derived status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := file.ReadGraph(args[0])
		if err != nil {
			return err
		}
		selected, _ := cmd.Flags().GetStringSlice("selected")

		var overlay *graph.GraphOverlay
		if len(selected) > 0 {
			overlay = &graph.GraphOverlay{SelectedNodes: selected}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(*g, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("selected", nil, "Node IDs to highlight")
}
