package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/weir/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a schema.
// It applies semantic styling:
// - inject: ((Circle))
// - trigger: [/Parallelogram/]
// - debug: [[Subroutine]]
// - Default: [Rectangle]
// Edges carry "sourcePort -> targetPort" labels.
func GenerateMermaid(schema *domain.GraphSchema) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range schema.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case "inject":
			opener, closer = "((", "))"
		case "trigger":
			opener, closer = "[/", "/]"
		case "debug":
			opener, closer = "[[", "]]"
		}

		label := node.ID
		if node.Type != "" {
			label = fmt.Sprintf("%s <br/> %s", node.ID, node.Type)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, e := range schema.Edges {
		safeFrom := sanitizeMermaidID(e.SourceNode)
		safeTo := sanitizeMermaidID(e.TargetNode)

		portLabel := fmt.Sprintf("%s → %s", e.SourcePort, e.TargetPort)
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeFrom, portLabel, safeTo))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
