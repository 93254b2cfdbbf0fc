// Package grammar defines parsing expression grammars as plain data:
// expression variants (terminals, sequences, ordered choices,
// repetitions, predicates, character classes and rule references), a
// rule registry, and accessor bundles that attach computed values to the
// nodes an expression produces.
//
// Grammars are built programmatically:
//
//	g := grammar.New()
//	g.MustDeclare("greeting", grammar.Sequence(
//		grammar.Terminal("hello "),
//		g.Nonterminal("name"),
//	))
//	g.MustDeclare("name", grammar.OneOrMore(grammar.CharRange('a', 'z')))
//
// References created with Nonterminal resolve by name at match time, so
// rules can be declared in any order and may be mutually recursive.
//
// This package holds no matching logic. The parse package interprets
// these structures against input and produces the syntax nodes that
// accessors run on.
package grammar
