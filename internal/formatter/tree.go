package formatter

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/keytips/pkg/keytip"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoCaptions shows key symbols only.
	NoCaptions bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
}

// FormatKeyTree renders a compiled sequence tree as an ASCII tree. Every
// line shows a key symbol and its caption; terminal nodes are marked with
// a trailing "*".
func FormatKeyTree(root *keytip.Node, opts TreeOptions) string {
	tree := treeprint.NewWithRoot(keytip.RootLabel)
	if root != nil {
		buildTree(tree, root, opts, 0)
	}
	return tree.String()
}

func buildTree(branch treeprint.Tree, n *keytip.Node, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode("...")
		return
	}
	for _, c := range n.Children() {
		label := nodeLabel(c, opts.NoCaptions)
		if len(c.Children()) == 0 {
			branch.AddNode(label)
			continue
		}
		buildTree(branch.AddBranch(label), c, opts, depth+1)
	}
}

func nodeLabel(n *keytip.Node, keyOnly bool) string {
	label := n.Key()
	if !keyOnly {
		label = fmt.Sprintf("%s  %s", n.Key(), n.Caption())
	}
	if n.IsTerminal() {
		label += " *"
	}
	return label
}
