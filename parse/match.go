package parse

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/peg/grammar"
)

var log = commonlog.GetLogger("peg.parse")

// outcome of matching one expression at one position.
type outcome struct {
	ok   bool
	node *Node
	next int
}

// matcher is the state of a single Parse call: the memo table keyed by
// (position, expression identity), the rule invocations currently in
// progress, and the furthest-failure tracker.
type matcher struct {
	p     *Parser
	input string

	memo   map[int]map[grammar.Expression]outcome
	active map[string]map[int]bool

	furthest int
	expected []string
	preds    int

	steps uint64
	hits  uint64
	depth int
}

func newMatcher(p *Parser, input string) *matcher {
	return &matcher{
		p:        p,
		input:    input,
		memo:     make(map[int]map[grammar.Expression]outcome),
		active:   make(map[string]map[int]bool),
		furthest: -1,
	}
}

// match evaluates expr at pos through the memo table. Repeat visits are
// answered from the table, cached failures included, so each (expression,
// position) pair is evaluated at most once per parse. Outcomes computed
// under a predicate are the exception: they are not stored and may be
// re-evaluated once the lookahead returns.
func (m *matcher) match(expr grammar.Expression, pos int) (outcome, error) {
	m.steps++
	if m.p.maxExpr > 0 && m.steps > m.p.maxExpr {
		return outcome{}, fmt.Errorf("parse aborted at offset %d: %w", pos, ErrMaxExpressions)
	}
	if out, ok := m.memo[pos][expr]; ok {
		m.hits++
		return out, nil
	}
	if m.p.debug {
		m.trace("try %s at %d", describe(expr), pos)
		m.depth++
	}
	out, err := m.eval(expr, pos)
	if m.p.debug {
		m.depth--
		switch {
		case err != nil:
			m.trace("%s at %d: %v", describe(expr), pos, err)
		case out.ok:
			m.trace("%s at %d: matched [%d-%d)", describe(expr), pos, pos, out.next)
		default:
			m.trace("%s at %d: no match", describe(expr), pos)
		}
	}
	if err != nil {
		return outcome{}, err
	}
	// failures seen during predicate lookahead went unrecorded; memoizing
	// those outcomes would hide the failures from later evaluations
	if m.preds == 0 {
		row, ok := m.memo[pos]
		if !ok {
			row = make(map[grammar.Expression]outcome)
			m.memo[pos] = row
		}
		row[expr] = out
	}
	return out, nil
}

func (m *matcher) eval(expr grammar.Expression, pos int) (outcome, error) {
	switch e := expr.(type) {
	case *grammar.TerminalExpr:
		return m.evalTerminal(e, pos), nil
	case *grammar.ClassExpr:
		return m.evalClass(e, pos), nil
	case *grammar.AnyExpr:
		return m.evalAny(e, pos), nil
	case *grammar.RefExpr:
		return m.evalRef(e, pos)
	case *grammar.SeqExpr:
		return m.evalSeq(e, pos)
	case *grammar.ChoiceExpr:
		return m.evalChoice(e, pos)
	case *grammar.RepExpr:
		return m.evalRep(e, pos)
	case *grammar.OptExpr:
		return m.evalOpt(e, pos)
	case *grammar.PredExpr:
		return m.evalPred(e, pos)
	}
	return outcome{}, fmt.Errorf("unknown expression type %T", expr)
}

func (m *matcher) evalTerminal(e *grammar.TerminalExpr, pos int) outcome {
	end := pos + len(e.Text)
	if end <= len(m.input) && m.input[pos:end] == e.Text {
		return m.node(e, pos, end, nil)
	}
	m.fail(pos, strconv.Quote(e.Text))
	return outcome{}
}

func (m *matcher) evalClass(e *grammar.ClassExpr, pos int) outcome {
	if pos < len(m.input) {
		r, w := utf8.DecodeRuneInString(m.input[pos:])
		if e.Matches(r) {
			return m.node(e, pos, pos+w, nil)
		}
	}
	m.fail(pos, e.String())
	return outcome{}
}

func (m *matcher) evalAny(e *grammar.AnyExpr, pos int) outcome {
	if pos < len(m.input) {
		_, w := utf8.DecodeRuneInString(m.input[pos:])
		return m.node(e, pos, pos+w, nil)
	}
	m.fail(pos, "any character")
	return outcome{}
}

// evalRef resolves a rule reference and wraps the matched node with the
// rule's name. The wrapper is transparent: same span, same elements, so
// positional accessors written against the rule body keep working. The
// wrapper's bundle merges, most specific last: rule-level actions, then
// the matched alternative's, then the reference site's.
func (m *matcher) evalRef(e *grammar.RefExpr, pos int) (outcome, error) {
	if e.Grammar != nil && e.Grammar != m.p.grammar {
		return outcome{}, &grammar.DefinitionError{Rule: e.Name, Pos: pos, Reason: "reference belongs to a different grammar"}
	}
	rule, ok := m.p.grammar.Rule(e.Name)
	if !ok {
		return outcome{}, &grammar.DefinitionError{Rule: e.Name, Pos: pos, Reason: "rule is not declared"}
	}
	if m.active[e.Name][pos] {
		return outcome{}, &grammar.DefinitionError{Rule: e.Name, Pos: pos, Reason: "left recursion: rule re-entered before making progress"}
	}
	m.enter(e.Name, pos)
	out, err := m.match(rule.Expr, pos)
	m.leave(e.Name, pos)
	if err != nil || !out.ok {
		return out, err
	}
	inner := out.node
	actions := inner.actions
	if rule.Actions != nil || e.Actions() != nil {
		actions = grammar.Compose(rule.Actions, inner.actions, e.Actions())
	}
	wrapper := &Node{
		input:    m.input,
		name:     e.Name,
		start:    inner.start,
		end:      inner.end,
		elements: inner.elements,
		actions:  actions,
	}
	return outcome{ok: true, node: wrapper, next: out.next}, nil
}

func (m *matcher) evalSeq(e *grammar.SeqExpr, pos int) (outcome, error) {
	var elements []*Node
	next := pos
	for _, sub := range e.Exprs {
		out, err := m.match(sub, next)
		if err != nil {
			return outcome{}, err
		}
		if !out.ok {
			return outcome{}, nil
		}
		elements = append(elements, out.node)
		next = out.next
	}
	return m.node(e, pos, next, elements), nil
}

func (m *matcher) evalChoice(e *grammar.ChoiceExpr, pos int) (outcome, error) {
	for _, alt := range e.Alts {
		out, err := m.match(alt, pos)
		if err != nil {
			return outcome{}, err
		}
		if out.ok {
			return out, nil
		}
	}
	return outcome{}, nil
}

func (m *matcher) evalRep(e *grammar.RepExpr, pos int) (outcome, error) {
	var elements []*Node
	next := pos
	for {
		out, err := m.match(e.Expr, next)
		if err != nil {
			return outcome{}, err
		}
		if !out.ok {
			break
		}
		elements = append(elements, out.node)
		stalled := out.next == next
		next = out.next
		if stalled {
			// a zero-width iteration is kept, but looping on it would
			// never terminate
			break
		}
	}
	if len(elements) < e.Min {
		return outcome{}, nil
	}
	return m.node(e, pos, next, elements), nil
}

func (m *matcher) evalOpt(e *grammar.OptExpr, pos int) (outcome, error) {
	out, err := m.match(e.Expr, pos)
	if err != nil {
		return outcome{}, err
	}
	if out.ok {
		return out, nil
	}
	return m.node(e, pos, pos, nil), nil
}

func (m *matcher) evalPred(e *grammar.PredExpr, pos int) (outcome, error) {
	m.preds++
	out, err := m.match(e.Expr, pos)
	m.preds--
	if err != nil {
		return outcome{}, err
	}
	matched := out.ok
	if e.Negate {
		matched = !matched
	}
	if !matched {
		return outcome{}, nil
	}
	return m.node(e, pos, pos, nil), nil
}

func (m *matcher) node(expr grammar.Expression, start, end int, elements []*Node) outcome {
	n := &Node{
		input:    m.input,
		start:    start,
		end:      end,
		elements: elements,
		actions:  expr.Actions(),
	}
	return outcome{ok: true, node: n, next: end}
}

// fail records a failure for furthest-position bookkeeping. Failures at
// the furthest position accumulate their expectations; evaluations running
// under a predicate are speculative and record nothing.
func (m *matcher) fail(pos int, expected string) {
	if m.preds > 0 {
		return
	}
	if pos > m.furthest {
		m.furthest = pos
		m.expected = m.expected[:0]
	}
	if pos == m.furthest {
		m.expected = append(m.expected, expected)
	}
}

func (m *matcher) enter(name string, pos int) {
	row := m.active[name]
	if row == nil {
		row = make(map[int]bool)
		m.active[name] = row
	}
	row[pos] = true
}

func (m *matcher) leave(name string, pos int) {
	delete(m.active[name], pos)
}

func (m *matcher) trace(format string, args ...any) {
	if !log.AllowLevel(commonlog.Debug) {
		return
	}
	log.Debugf("%*s"+format, append([]any{m.depth * 2, ""}, args...)...)
}

func describe(expr grammar.Expression) string {
	switch e := expr.(type) {
	case *grammar.TerminalExpr, *grammar.ClassExpr, *grammar.AnyExpr, *grammar.RefExpr:
		return expr.String()
	case *grammar.SeqExpr:
		return "sequence"
	case *grammar.ChoiceExpr:
		return "choice"
	case *grammar.RepExpr:
		if e.Min == 0 {
			return "zero-or-more"
		}
		return "one-or-more"
	case *grammar.OptExpr:
		return "optional"
	case *grammar.PredExpr:
		if e.Negate {
			return "not-predicate"
		}
		return "and-predicate"
	}
	return fmt.Sprintf("%T", expr)
}
