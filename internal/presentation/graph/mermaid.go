package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/edges"
	"github.com/aretw0/canvas/pkg/frame"
)

// GraphOverlay contains transient editor state to visualize on the graph.
type GraphOverlay struct {
	SelectedNodes []string
}

// GenerateMermaid produces a Mermaid flowchart of what the canvas shows:
// - Expanded frame: subgraph holding its visible members
// - Collapsed frame: [[Subroutine]] labeled with its member count
// - Default: [Rectangle]
// Edges hidden by a collapsed frame are drawn to the frame, and edges carry
// their derived execution status. Node status and the overlay selection are
// applied as classes.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	visible := frame.VisibleNodes(g)
	shown := make(map[string]bool, len(visible))
	children := make(map[string][]domain.Node)
	for _, n := range visible {
		shown[n.ID] = true
	}
	var roots []domain.Node
	for _, n := range visible {
		if n.ParentFrameID != "" && shown[n.ParentFrameID] {
			children[n.ParentFrameID] = append(children[n.ParentFrameID], n)
			continue
		}
		roots = append(roots, n)
	}

	var write func(n domain.Node, indent string)
	write = func(n domain.Node, indent string) {
		safeID := sanitizeMermaidID(n.ID)
		if n.IsFrame() && !n.Collapsed {
			fmt.Fprintf(&sb, "%ssubgraph %s[\"%s\"]\n", indent, safeID, label(n))
			for _, c := range children[n.ID] {
				write(c, indent+"    ")
			}
			fmt.Fprintf(&sb, "%send\n", indent)
			return
		}
		if n.IsFrame() {
			members := len(frame.Contained(g, n.ID))
			fmt.Fprintf(&sb, "%s%s[[\"%s (%d)\"]]\n", indent, safeID, label(n), members)
			return
		}
		fmt.Fprintf(&sb, "%s%s[\"%s\"]\n", indent, safeID, label(n))
	}
	for _, n := range roots {
		write(n, "    ")
	}

	for _, e := range edges.Derive(g) {
		from, to := sanitizeMermaidID(e.SourceNodeID), sanitizeMermaidID(e.TargetNodeID)
		switch e.Status {
		case domain.StatusNone:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
		case domain.StatusRunning:
			fmt.Fprintf(&sb, "    %s == \"%s\" ==> %s\n", from, statusClass(e.Status), to)
		default:
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, statusClass(e.Status), to)
		}
	}

	writeClasses(&sb, visible, overlay)
	return sb.String()
}

func writeClasses(sb *strings.Builder, visible []domain.Node, overlay *GraphOverlay) {
	byStatus := make(map[string][]string)
	for _, n := range visible {
		if n.Status == domain.StatusNone || n.Status == domain.StatusIdle {
			continue
		}
		class := statusClass(n.Status)
		byStatus[class] = append(byStatus[class], sanitizeMermaidID(n.ID))
	}

	var selected []string
	if overlay != nil {
		seen := make(map[string]bool)
		for _, id := range overlay.SelectedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				selected = append(selected, safeID)
			}
		}
	}
	if len(byStatus) == 0 && len(selected) == 0 {
		return
	}

	sb.WriteString("\n    %% Status Styles\n")
	// Force black text (color:#000) for contrast on light fills regardless of theme.
	sb.WriteString("    classDef running fill:#fff8e1,stroke:#f9a825,stroke-width:3px,color:#000;\n")
	sb.WriteString("    classDef pending fill:#eceff1,stroke:#90a4ae,stroke-dasharray:4,color:#000;\n")
	sb.WriteString("    classDef completed fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef skipped fill:#f5f5f5,stroke:#bdbdbd,color:#000;\n")
	sb.WriteString("    classDef selected stroke:#1e88e5,stroke-width:4px;\n")

	classes := make([]string, 0, len(byStatus))
	for c := range byStatus {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for _, c := range classes {
		fmt.Fprintf(sb, "    class %s %s;\n", strings.Join(byStatus[c], ","), c)
	}
	if len(selected) > 0 {
		fmt.Fprintf(sb, "    class %s selected;\n", strings.Join(selected, ","))
	}
}

func statusClass(s domain.ExecutionStatus) string {
	return strings.ToLower(string(s))
}

func label(n domain.Node) string {
	l := n.Name
	if l == "" {
		l = n.ID
	}
	// Escape double quotes for Mermaid labels
	return strings.ReplaceAll(l, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
