package grammar

// Node is the view of a syntax tree node that accessors work against.
// The parse package provides the implementation; the interface lives here
// so bundles can be written alongside the grammar they belong to.
//
// A node borrows the input it was parsed from: Text is a slice of the
// original input delimited by Start and End (byte offsets, half-open).
type Node interface {
	// Name returns the rule that produced the node, or "" for nodes
	// produced by anonymous expressions.
	Name() string

	// Text returns the matched portion of the input.
	Text() string

	Start() int
	End() int

	// NumElements returns the number of child nodes.
	NumElements() int

	// Element returns the i-th child, or nil if i is out of range.
	Element(i int) Node

	// Eval runs the named accessor bound to the node's producing
	// expression. Asking for an accessor the node does not carry is an
	// error.
	Eval(accessor string) (any, error)
}
