package grammar

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

// DefinitionError reports a fault in the grammar itself, as opposed to
// input that merely fails to parse: duplicate or missing rules, left
// recursion, declarations after the grammar was frozen. Pos is the input
// offset for faults detected during matching, -1 otherwise.
type DefinitionError struct {
	Rule   string
	Pos    int
	Reason string
}

func (e *DefinitionError) Error() string {
	switch {
	case e.Rule != "" && e.Pos >= 0:
		return fmt.Sprintf("grammar error in rule %q at offset %d: %s", e.Rule, e.Pos, e.Reason)
	case e.Rule != "":
		return fmt.Sprintf("grammar error in rule %q: %s", e.Rule, e.Reason)
	default:
		return fmt.Sprintf("grammar error: %s", e.Reason)
	}
}

func defErr(rule, reason string) *DefinitionError {
	return &DefinitionError{Rule: rule, Pos: -1, Reason: reason}
}

// Rule binds a name to an expression. Actions is the rule-level bundle:
// it is merged into every node the rule produces, under any bundle the
// matching alternative carries itself.
type Rule struct {
	Name    string
	Expr    Expression
	Actions Bundle
}

// Grammar is an ordered registry of rules. Rules may reference each other
// freely, in any order, including mutually; references resolve by name
// when the grammar is matched against input.
//
// Creating a parser freezes the grammar. A frozen grammar rejects further
// declarations and is safe to share between goroutines; declarations
// themselves are not synchronized, so build the grammar in one goroutine
// before sharing it.
type Grammar struct {
	rules  map[string]*Rule
	order  []string
	frozen atomic.Bool
}

func New() *Grammar {
	return &Grammar{rules: make(map[string]*Rule)}
}

// Declare binds name to expr. Optional bundles merge into the rule-level
// actions. Re-declaring a name, declaring on a frozen grammar, or
// declaring an empty name or nil expression is a definition fault.
func (g *Grammar) Declare(name string, expr Expression, bundles ...Bundle) error {
	if g.frozen.Load() {
		return defErr(name, "grammar is frozen")
	}
	if name == "" {
		return defErr(name, "rule name is empty")
	}
	if expr == nil {
		return defErr(name, "rule expression is nil")
	}
	if _, exists := g.rules[name]; exists {
		return defErr(name, "rule is already declared")
	}
	g.rules[name] = &Rule{Name: name, Expr: expr, Actions: Compose(bundles...)}
	g.order = append(g.order, name)
	return nil
}

// MustDeclare is Declare for statically known grammars: it panics on
// error, in the manner of regexp.MustCompile.
func (g *Grammar) MustDeclare(name string, expr Expression, bundles ...Bundle) {
	if err := g.Declare(name, expr, bundles...); err != nil {
		panic(err)
	}
}

// Nonterminal returns a reference to the named rule. The rule does not
// have to be declared yet; the reference resolves when matching runs.
func (g *Grammar) Nonterminal(name string) *RefExpr {
	return &RefExpr{Name: name, Grammar: g}
}

// Rule looks up a declared rule by name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Start returns the default start rule: the first one declared.
func (g *Grammar) Start() string {
	if len(g.order) == 0 {
		return ""
	}
	return g.order[0]
}

// Rules returns the rule names in declaration order.
func (g *Grammar) Rules() []string {
	return slices.Clone(g.order)
}

// Freeze marks the grammar immutable. Idempotent, and safe to call from
// concurrent parser constructions over the same grammar.
func (g *Grammar) Freeze() {
	g.frozen.CompareAndSwap(false, true)
}

func (g *Grammar) Frozen() bool {
	return g.frozen.Load()
}

// Validate checks that start is declared and that every reference
// reachable from it resolves to a declared rule of this grammar. The walk
// tolerates cycles.
func (g *Grammar) Validate(start string) error {
	seen := make(map[Expression]bool)
	done := make(map[string]bool)

	var walkRule func(name string) error
	var walk func(expr Expression) error

	walk = func(expr Expression) error {
		if expr == nil || seen[expr] {
			return nil
		}
		seen[expr] = true
		switch e := expr.(type) {
		case *RefExpr:
			if e.Grammar != nil && e.Grammar != g {
				return defErr(e.Name, "reference belongs to a different grammar")
			}
			return walkRule(e.Name)
		case *SeqExpr:
			for _, sub := range e.Exprs {
				if err := walk(sub); err != nil {
					return err
				}
			}
		case *ChoiceExpr:
			for _, alt := range e.Alts {
				if err := walk(alt); err != nil {
					return err
				}
			}
		case *RepExpr:
			return walk(e.Expr)
		case *OptExpr:
			return walk(e.Expr)
		case *PredExpr:
			return walk(e.Expr)
		}
		return nil
	}

	walkRule = func(name string) error {
		if done[name] {
			return nil
		}
		done[name] = true
		rule, ok := g.rules[name]
		if !ok {
			return defErr(name, "rule is not declared")
		}
		return walk(rule.Expr)
	}

	return walkRule(start)
}

// String renders the grammar in PEG notation, one rule per line, in
// declaration order.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, name := range g.order {
		fmt.Fprintf(&sb, "%s <- %s\n", name, g.rules[name].Expr.String())
	}
	return sb.String()
}
