// Package diagrams exports the in-memory diagram model as mermaid text
// for embedding in markdown.
package diagrams

import (
	"fmt"
	"strings"

	"constellation/internal/diagram"
)

// Mindmap renders the diagram tree as a mermaid mindmap: the root in the
// center, topics as first-level branches, details as leaves.
func Mindmap(d *diagram.Diagram) string {
	var b strings.Builder
	b.WriteString("mindmap\n")
	b.WriteString(fmt.Sprintf("  root((%s))\n", escapeMermaid(d.Root().Label)))

	for _, label := range d.TopicOrder {
		b.WriteString(fmt.Sprintf("    %s\n", escapeMermaid(label)))
		for _, id := range d.Details[label] {
			n := d.Node(id)
			b.WriteString(fmt.Sprintf("      %s\n", escapeMermaid(n.Label)))
		}
	}
	return b.String()
}

// TopicGraph renders the diagram as a mermaid graph TD with explicit
// edges, preserving topic and detail insertion order.
func TopicGraph(d *diagram.Diagram) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	rootID := sanitizeID(d.Root().Label)
	b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", rootID, escapeMermaid(d.Root().Label)))

	for _, label := range d.TopicOrder {
		topicID := sanitizeID(label)
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", topicID, escapeMermaid(label)))
		b.WriteString(fmt.Sprintf("    %s --> %s\n", rootID, topicID))

		for _, id := range d.Details[label] {
			n := d.Node(id)
			detailID := fmt.Sprintf("d%d_%s", n.ID, sanitizeID(n.Label))
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", detailID, escapeMermaid(n.Label)))
			b.WriteString(fmt.Sprintf("    %s --> %s\n", topicID, detailID))
		}
	}
	return b.String()
}

// sanitizeID converts a string into a safe mermaid node ID.
func sanitizeID(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		".", "_",
		"-", "_",
		" ", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
		":", "_",
	)
	return replacer.Replace(s)
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}
