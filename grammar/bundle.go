package grammar

// Accessor computes a value from a syntax node on demand. Accessors take
// no arguments beyond the node they run on and typically combine the
// node's text or the results of evaluating accessors on its elements.
type Accessor func(Node) (any, error)

// Bundle is a named set of accessors. Bundles are the unit of reuse: a
// bundle defined once can be bound to any number of expressions, and
// bundles compose into larger ones.
type Bundle map[string]Accessor

// Compose merges bundles into a new one. Later bundles win on name
// collisions. Nil and empty bundles are skipped; composing nothing
// returns nil.
func Compose(bundles ...Bundle) Bundle {
	var out Bundle
	for _, b := range bundles {
		if len(b) == 0 {
			continue
		}
		if out == nil {
			out = make(Bundle, len(b))
		}
		for name, acc := range b {
			out[name] = acc
		}
	}
	return out
}

// Bind attaches bundles to an expression instance and returns that same
// instance, so a grammar can be built and annotated in one go. Every node
// the expression produces carries the merged bundle. Binding to an
// ordered choice has no effect on nodes, because a choice passes the
// winning alternative's node through untouched; bind to the alternatives
// instead.
func Bind[E Expression](expr E, bundles ...Bundle) E {
	expr.bind(bundles...)
	return expr
}
