package keytip

import (
	"sort"
	"strings"
)

// RootLabel is the label of the tree root.
const RootLabel = "Root"

// Node is one position in the sequence tree. Nodes are immutable once Build
// returns.
type Node struct {
	key         string
	label       string
	description string
	effect      Effect
	children    []*Node // sorted by key
}

// Key returns the normalized key symbol leading to n; empty for the root.
func (n *Node) Key() string { return n.key }

// Label returns the display label.
func (n *Node) Label() string { return n.label }

// Description returns the description of the command ending at n, if any.
func (n *Node) Description() string { return n.description }

// Effect returns the terminal effect attached to n, or nil.
func (n *Node) Effect() Effect { return n.effect }

// Caption is the text shown next to the key in an option list.
func (n *Node) Caption() string {
	if n.description != "" {
		return n.description
	}
	return n.label
}

// Children returns a copy of the sorted children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child looks up the child for key, normalizing it first.
func (n *Node) Child(key string) (*Node, bool) {
	key = NormalizeKey(key)
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].key >= key })
	if i < len(n.children) && n.children[i].key == key {
		return n.children[i], true
	}
	return nil, false
}

// IsTerminal reports whether selecting n runs its effect instead of
// descending. A node carrying both an effect and children is not terminal.
func (n *Node) IsTerminal() bool {
	return n.effect != nil && len(n.children) == 0
}

// NormalizeKey upper-cases and trims a key symbol.
func NormalizeKey(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}

// builderNode is the mutable form used while the tree is assembled.
type builderNode struct {
	key         string
	label       string
	description string
	effect      Effect
	children    map[string]*builderNode
}

func (b *builderNode) child(key, label string) *builderNode {
	c, ok := b.children[key]
	if !ok {
		if label == "" {
			label = key
		}
		c = &builderNode{key: key, label: label, children: map[string]*builderNode{}}
		b.children[key] = c
		return c
	}
	if label != "" {
		c.label = label
	}
	return c
}

func (b *builderNode) freeze() *Node {
	n := &Node{
		key:         b.key,
		label:       b.label,
		description: b.description,
		effect:      b.effect,
		children:    make([]*Node, 0, len(b.children)),
	}
	for _, c := range b.children {
		n.children = append(n.children, c.freeze())
	}
	sort.Slice(n.children, func(i, j int) bool { return n.children[i].key < n.children[j].key })
	return n
}

// Build assembles the sequence tree. Commands without keys are skipped. When
// two commands share a full sequence the later effect and description win;
// a later non-empty label overwrites an earlier one.
func Build(cmds []Command) *Node {
	root := &builderNode{label: RootLabel, children: map[string]*builderNode{}}
	for _, c := range cmds {
		if len(c.Keys) == 0 {
			continue
		}
		cur := root
		for i, k := range c.Keys {
			var label string
			if i < len(c.Labels) {
				label = c.Labels[i]
			}
			cur = cur.child(NormalizeKey(k), label)
		}
		cur.effect = c.Effect
		cur.description = c.Description
	}
	return root.freeze()
}

// Traverse walks keys from the given node. It fails as soon as one key has
// no matching child; there is no partial result.
func Traverse(from *Node, keys []string) (*Node, bool) {
	if from == nil {
		return nil, false
	}
	cur := from
	for _, k := range keys {
		next, ok := cur.Child(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// AvailableKeys returns the children of n sorted by key symbol.
func AvailableKeys(n *Node) []*Node {
	if n == nil {
		return nil
	}
	return n.Children()
}

// Walk visits every node below root depth-first in key order, passing the
// path that leads to it.
func Walk(root *Node, fn func(path []string, n *Node)) {
	var visit func(path []string, n *Node)
	visit = func(path []string, n *Node) {
		for _, c := range n.children {
			p := append(append([]string(nil), path...), c.key)
			fn(p, c)
			visit(p, c)
		}
	}
	if root != nil {
		visit(nil, root)
	}
}
