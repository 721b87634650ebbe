package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of nodes.
// It applies semantic styling:
// - Initial: ((Circle))
// - Final: ([Stadium])
// - Question: [/Parallelogram/]
// - Informational (NONE): [Rectangle]
// Rule edges are labeled with their condition and numbered in evaluation order.
func GenerateMermaid(nodes []domain.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.Key)

		opener, closer := "[", "]"
		switch {
		case node.Initial:
			opener, closer = "((", "))"
		case node.Final:
			opener, closer = "([", "])"
		case node.CollectsAnswer():
			opener, closer = "[/", "/]"
		}

		label := node.Key
		if node.CollectsAnswer() {
			label = fmt.Sprintf("%s <br/> %s", node.Key, node.Type)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for i, r := range node.Rules {
			safeTo := sanitizeMermaidID(r.To)
			if r.Kind == domain.RuleAlways {
				fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", safeID, i+1, safeTo)
				continue
			}
			// Escape double quotes in condition for Mermaid label
			cond := strings.ReplaceAll(r.String(), "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%d: %s\" --> %s\n", safeID, i+1, cond, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
