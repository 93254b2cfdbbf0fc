package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsing expression: a composable description of what to
// match, with no matching logic of its own. The parse package walks these
// structures by type.
//
// Expressions are compared by identity, not structure: two Terminal("a")
// calls yield distinct expressions that memoize and carry accessor bundles
// independently.
type Expression interface {
	fmt.Stringer

	// Actions returns the accessor bundle bound to this expression
	// instance, or nil.
	Actions() Bundle

	bind(bundles ...Bundle)
}

// ext carries the per-instance accessor bundle. Embedded by every variant.
type ext struct {
	actions Bundle
}

func (e *ext) Actions() Bundle { return e.actions }

func (e *ext) bind(bundles ...Bundle) {
	all := make([]Bundle, 0, len(bundles)+1)
	all = append(all, e.actions)
	all = append(all, bundles...)
	e.actions = Compose(all...)
}

// TerminalExpr matches a literal string.
type TerminalExpr struct {
	ext
	Text string
}

// RefExpr refers to a rule by name. Resolution happens at match time
// against the grammar the reference was created from, so rules can
// reference each other before they are declared.
type RefExpr struct {
	ext
	Name    string
	Grammar *Grammar
}

// SeqExpr matches its sub-expressions in order.
type SeqExpr struct {
	ext
	Exprs []Expression
}

// ChoiceExpr tries its alternatives in order and commits to the first
// that matches.
type ChoiceExpr struct {
	ext
	Alts []Expression
}

// RepExpr matches its sub-expression repeatedly, greedily. Min is the
// number of matches required: 0 for zero-or-more, 1 for one-or-more.
type RepExpr struct {
	ext
	Expr Expression
	Min  int
}

// OptExpr matches its sub-expression or the empty string.
type OptExpr struct {
	ext
	Expr Expression
}

// PredExpr is a syntactic predicate: it evaluates its sub-expression as
// lookahead, consuming no input. With Negate set it succeeds when the
// lookahead fails.
type PredExpr struct {
	ext
	Expr   Expression
	Negate bool
}

// ClassExpr matches a single rune against a set of characters and ranges.
// Ranges holds inclusive lo/hi pairs. With Inverted set, membership flips.
type ClassExpr struct {
	ext
	Chars    []rune
	Ranges   []rune
	Inverted bool
}

// AnyExpr matches any single rune.
type AnyExpr struct {
	ext
}

func Terminal(text string) *TerminalExpr {
	return &TerminalExpr{Text: text}
}

func Sequence(exprs ...Expression) *SeqExpr {
	return &SeqExpr{Exprs: exprs}
}

func OrderedChoice(alts ...Expression) *ChoiceExpr {
	return &ChoiceExpr{Alts: alts}
}

func ZeroOrMore(expr Expression) *RepExpr {
	return &RepExpr{Expr: expr}
}

func OneOrMore(expr Expression) *RepExpr {
	return &RepExpr{Expr: expr, Min: 1}
}

func Optional(expr Expression) *OptExpr {
	return &OptExpr{Expr: expr}
}

// And succeeds when expr matches at the current position, consuming nothing.
func And(expr Expression) *PredExpr {
	return &PredExpr{Expr: expr}
}

// Not succeeds when expr fails at the current position, consuming nothing.
func Not(expr Expression) *PredExpr {
	return &PredExpr{Expr: expr, Negate: true}
}

// CharRange matches one rune in the inclusive range lo through hi.
func CharRange(lo, hi rune) *ClassExpr {
	return &ClassExpr{Ranges: []rune{lo, hi}}
}

// CharSet matches one rune out of chars.
func CharSet(chars string) *ClassExpr {
	return &ClassExpr{Chars: []rune(chars)}
}

// Invert flips the class's membership and returns it.
func (e *ClassExpr) Invert() *ClassExpr {
	e.Inverted = !e.Inverted
	return e
}

// Matches reports whether r belongs to the class.
func (e *ClassExpr) Matches(r rune) bool {
	found := false
	for _, c := range e.Chars {
		if c == r {
			found = true
			break
		}
	}
	if !found {
		for i := 0; i+1 < len(e.Ranges); i += 2 {
			if e.Ranges[i] <= r && r <= e.Ranges[i+1] {
				found = true
				break
			}
		}
	}
	if e.Inverted {
		return !found
	}
	return found
}

func Any() *AnyExpr {
	return &AnyExpr{}
}

func (e *TerminalExpr) String() string {
	return strconv.Quote(e.Text)
}

func (e *RefExpr) String() string {
	return e.Name
}

func (e *SeqExpr) String() string {
	parts := make([]string, len(e.Exprs))
	for i, sub := range e.Exprs {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (e *ChoiceExpr) String() string {
	parts := make([]string, len(e.Alts))
	for i, alt := range e.Alts {
		parts[i] = alt.String()
	}
	return "(" + strings.Join(parts, " / ") + ")"
}

func (e *RepExpr) String() string {
	suffix := "*"
	if e.Min > 0 {
		suffix = "+"
	}
	return e.Expr.String() + suffix
}

func (e *OptExpr) String() string {
	return e.Expr.String() + "?"
}

func (e *PredExpr) String() string {
	prefix := "&"
	if e.Negate {
		prefix = "!"
	}
	return prefix + e.Expr.String()
}

func (e *ClassExpr) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	if e.Inverted {
		sb.WriteString("^")
	}
	for _, c := range e.Chars {
		writeClassRune(&sb, c)
	}
	for i := 0; i+1 < len(e.Ranges); i += 2 {
		writeClassRune(&sb, e.Ranges[i])
		sb.WriteString("-")
		writeClassRune(&sb, e.Ranges[i+1])
	}
	sb.WriteString("]")
	return sb.String()
}

func writeClassRune(sb *strings.Builder, r rune) {
	switch r {
	case ']', '\\', '^', '-':
		sb.WriteString("\\")
	}
	sb.WriteRune(r)
}

func (e *AnyExpr) String() string {
	return "."
}
