package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/edges"
	"github.com/aretw0/canvas/pkg/frame"
)

// Summary describes a canvas document as markdown: its nodes, collapsed
// frames and visible edges with their derived status.
func Summary(canvasID string, g domain.Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", canvasID)

	visible := frame.VisibleNodes(g)
	rendered := edges.Derive(g)
	fmt.Fprintf(&sb, "%d nodes (%d visible), %d edges (%d visible)\n\n",
		len(g.Nodes), len(visible), len(g.Edges), len(rendered))

	if len(g.Nodes) > 0 {
		sb.WriteString("## Nodes\n\n| ID | Name | Type | Position | Status |\n|---|---|---|---|---|\n")
		for _, n := range g.Nodes {
			fmt.Fprintf(&sb, "| %s | %s | %s | %g, %g | %s |\n",
				cell(n.ID), cell(n.Name), cell(n.Type), n.Position.X, n.Position.Y, cell(string(n.Status)))
		}
		sb.WriteString("\n")
	}

	if views := frame.Collapsed(g); len(views) > 0 {
		sb.WriteString("## Collapsed frames\n\n")
		for _, v := range views {
			fmt.Fprintf(&sb, "- **%s** hides %d nodes, %d edges in, %d edges out\n",
				v.FrameID, len(v.Members), len(v.InputPort.Edges), len(v.OutputPort.Edges))
		}
		sb.WriteString("\n")
	}

	if len(rendered) > 0 {
		sb.WriteString("## Edges\n\n")
		for _, e := range rendered {
			status := string(e.Status)
			if status == "" {
				status = "-"
			}
			fmt.Fprintf(&sb, "- `%s` %s → %s (%s)\n", e.EdgeID, e.SourceNodeID, e.TargetNodeID, status)
		}
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
