package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/keytips/pkg/keytip"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is LR.
	Direction string
}

// FormatKeyMermaid renders a compiled sequence tree as a Mermaid flowchart.
// Node ids are derived from the key path so diagrams diff cleanly; edges
// carry the key symbol and nodes the caption.
func FormatKeyMermaid(root *keytip.Node, opts MermaidOptions) string {
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}
	lines := []string{"graph " + dir, fmt.Sprintf("    root[%q]", keytip.RootLabel)}
	keytip.Walk(root, func(path []string, n *keytip.Node) {
		id := SanitizeMermaidID(strings.Join(path, "_"))
		parent := "root"
		if len(path) > 1 {
			parent = SanitizeMermaidID(strings.Join(path[:len(path)-1], "_"))
		}
		shape := "[%q]"
		if n.IsTerminal() {
			shape = "([%q])"
		}
		lines = append(lines,
			fmt.Sprintf("    %s"+shape, id, escapeLabel(n.Caption())),
			fmt.Sprintf("    %s -->|%s| %s", parent, escapeLabel(n.Key()), id),
		)
	})
	return strings.Join(lines, "\n") + "\n"
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, `'`)
	s = strings.ReplaceAll(s, "|", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}

var mermaidIDInvalid = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeMermaidID turns s into a valid Mermaid node id. Characters that
// are not allowed are replaced with their code point so distinct keys stay
// distinct.
func SanitizeMermaidID(s string) string {
	s = mermaidIDInvalid.ReplaceAllStringFunc(s, func(m string) string {
		return fmt.Sprintf("x%X", []rune(m)[0])
	})
	return "k_" + s
}
