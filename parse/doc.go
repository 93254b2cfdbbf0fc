// Package parse matches input against parsing expression grammars and
// produces syntax trees.
//
// # Overview
//
// A Parser binds a grammar to a start rule. Matching is scannerless:
// expressions consume the input string directly, byte offsets are the
// only positions. Choices are ordered and matching backtracks with
// unbounded lookahead, so alternatives never race: the first one that
// matches wins, deterministically.
//
//	g := grammar.New()
//	g.MustDeclare("greeting", grammar.Terminal("hello"))
//
//	p, err := parse.NewParser(g)
//	if err != nil { ... }
//
//	result, err := p.Parse("hello")
//	if err != nil { ... }
//	if result.IsSuccess() {
//		fmt.Println(result.Tree().Text())
//	}
//
// # Memoization
//
// The matcher is packrat: (expression, position) evaluations are cached
// for the duration of the call, failures included, keyed on expression
// identity. Re-visiting a position after backtracking replays the cached
// outcome instead of re-matching, which keeps heavily backtracking
// grammars from going exponential. The one exception is predicate
// lookahead: outcomes computed while a predicate looks ahead are not
// stored, so an expression first reached inside a predicate may be
// evaluated again after the predicate returns. Result.Stats reports the
// evaluation and cache-hit counts of a call.
//
// # Syntax trees
//
// Nodes borrow the parsed input: a node is a [start, end) span plus
// ordered child nodes, and Text slices the original string. A rule
// reference wraps the node its body produced in a node carrying the rule
// name, with the same span and the same children, so positional access
// is unaffected by how deeply rules delegate to each other.
//
// Accessor bundles bound to expressions (see the grammar package) travel
// on the nodes those expressions produce; Node.Eval runs them by name,
// lazily, typically recursing into child nodes the same way.
//
// # Failures and faults
//
// A parse that does not match is a normal, inspectable outcome, not an
// error: Parse returns a Result whose FailurePos and Expected describe
// the furthest position matching reached and what was expected there.
// An ordered choice that fails reports the furthest-reaching of its
// alternatives, and failures discarded on the way (inside repetitions,
// abandoned sequence tails) still count toward that position. Success
// additionally requires consuming the whole input; matching only a
// prefix fails at or past the end of the prefix.
//
// Faults in the grammar itself are a different class: an undeclared rule
// or a rule that re-enters itself at the same position (left recursion,
// which this engine rejects rather than supports) make Parse return a
// *grammar.DefinitionError. The two classes never mix: definition faults
// abort the parse, parse failures complete it.
//
// # Limits
//
// Matching is depth-first recursive descent, so recursion depth grows
// with grammar nesting and input depth. Deeply nested input can exhaust
// the goroutine stack; that is a hard limit of the approach, not a
// recoverable condition. There is no timeout or cancellation hook;
// WithMaxExpressions bounds the total work of a call, and callers
// needing wall-clock bounds must impose them outside Parse.
//
// # Concurrency
//
// Parsers keep no state between calls; everything mutable lives in the
// call frame of Parse. One Parser, or several Parsers sharing one frozen
// Grammar, may run in as many goroutines as needed.
package parse
