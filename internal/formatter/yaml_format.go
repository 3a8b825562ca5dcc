package formatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent int
	// LiteralBlockStrings emits multi-line strings such as long expressions
	// as literal blocks ("|"). Otherwise they are double-quoted on one line.
	LiteralBlockStrings bool
}

// FormatYAML renders v as YAML.
func FormatYAML(v any, opts YAMLFormatOptions) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", err
	}
	style := yaml.DoubleQuotedStyle
	if opts.LiteralBlockStrings {
		style = yaml.LiteralStyle
	}
	setMultilineStyle(&node, style)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func setMultilineStyle(n *yaml.Node, style yaml.Style) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = style
	}
	for _, c := range n.Content {
		setMultilineStyle(c, style)
	}
}
