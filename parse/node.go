package parse

import (
	"fmt"

	"github.com/dhamidi/peg/grammar"
)

// Node is one node of a syntax tree. It borrows the parsed input: Text
// slices the original string between Start and End rather than holding a
// copy. Nodes are immutable once the parse that built them returns.
type Node struct {
	input    string
	name     string
	start    int
	end      int
	elements []*Node
	actions  grammar.Bundle
}

// Name returns the rule that produced the node, or "" for nodes produced
// by anonymous expressions.
func (n *Node) Name() string {
	return n.name
}

// Text returns the matched slice of the input.
func (n *Node) Text() string {
	return n.input[n.start:n.end]
}

// Start returns the byte offset where the match begins.
func (n *Node) Start() int {
	return n.start
}

// End returns the byte offset just past the match.
func (n *Node) End() int {
	return n.end
}

func (n *Node) NumElements() int {
	return len(n.elements)
}

// Element returns the i-th child as a grammar.Node, or nil if i is out
// of range.
func (n *Node) Element(i int) grammar.Node {
	if i < 0 || i >= len(n.elements) {
		return nil
	}
	return n.elements[i]
}

// Elements returns the child nodes in match order.
func (n *Node) Elements() []*Node {
	return n.elements
}

// Input returns the complete input the node was parsed from.
func (n *Node) Input() string {
	return n.input
}

// Eval runs the named accessor bound to the node's producing expression.
func (n *Node) Eval(accessor string) (any, error) {
	if acc, ok := n.actions[accessor]; ok {
		return acc(n)
	}
	if n.name != "" {
		return nil, fmt.Errorf("rule %s: no accessor %q", n.name, accessor)
	}
	return nil, fmt.Errorf("no accessor %q on node at offset %d", accessor, n.start)
}

// String renders the subtree, one node per line, children indented.
func (n *Node) String() string {
	return n.stringIndent(0)
}

func (n *Node) stringIndent(indent int) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	label := n.name
	if label == "" {
		label = "·"
	}
	result := fmt.Sprintf("%s%s [%d-%d)", prefix, label, n.start, n.end)
	if len(n.elements) == 0 {
		result += " " + fmt.Sprintf("%q", n.Text())
	}
	result += "\n"

	for _, child := range n.elements {
		result += child.stringIndent(indent + 1)
	}
	return result
}
