package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/peg/grammar"
)

// ErrMaxExpressions is returned, wrapped, when a parse exceeds the
// expression budget set with WithMaxExpressions.
var ErrMaxExpressions = errors.New("max expression evaluations exceeded")

type Option func(*Parser)

// WithStart selects the start rule. The default is the grammar's first
// declared rule.
func WithStart(name string) Option {
	return func(p *Parser) {
		p.start = name
	}
}

// WithDebug turns on per-expression trace logging at debug level.
func WithDebug(debug bool) Option {
	return func(p *Parser) {
		p.debug = debug
	}
}

// WithMaxExpressions bounds the number of expression evaluations a
// single Parse may perform. Zero means no bound.
func WithMaxExpressions(n uint64) Option {
	return func(p *Parser) {
		p.maxExpr = n
	}
}

// Parser matches input against one grammar, starting from a fixed rule.
// Creating a parser freezes the grammar and verifies that every rule
// reachable from the start rule is declared.
//
// A parser keeps no state between calls; all per-parse bookkeeping is
// allocated inside Parse, so one parser may serve many goroutines.
type Parser struct {
	grammar  *grammar.Grammar
	start    string
	startRef *grammar.RefExpr
	debug    bool
	maxExpr  uint64
}

func NewParser(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	if g == nil {
		return nil, fmt.Errorf("new parser: grammar is nil")
	}
	p := &Parser{grammar: g, start: g.Start()}
	for _, opt := range opts {
		opt(p)
	}
	if p.start == "" {
		return nil, fmt.Errorf("new parser: %w", &grammar.DefinitionError{Pos: -1, Reason: "grammar has no rules"})
	}
	if err := g.Validate(p.start); err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}
	g.Freeze()
	p.startRef = g.Nonterminal(p.start)
	return p, nil
}

// Grammar returns the grammar the parser was built from.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Start returns the start rule name.
func (p *Parser) Start() string {
	return p.start
}

// Parse matches input from offset 0. Success means the start rule
// matched and consumed the input completely; matching a proper prefix is
// a failure whose position is at least the end of that prefix.
//
// The returned error is nil for both successful and failed parses. A
// non-nil error means the parse could not be carried out at all: a
// grammar definition fault (undeclared rule, left recursion) or an
// exceeded expression budget.
func (p *Parser) Parse(input string) (*Result, error) {
	m := newMatcher(p, input)
	out, err := m.match(p.startRef, 0)
	if err != nil {
		return nil, err
	}
	res := &Result{failPos: -1}
	if out.ok && out.next == len(input) {
		res.tree = out.node
	} else {
		if out.ok {
			m.fail(out.next, "end of input")
		}
		res.failPos = max(m.furthest, 0)
		res.expected = dedup(m.expected)
	}
	res.stats = Stats{Expressions: m.steps, MemoHits: m.hits}
	return res, nil
}

// Stats counts work done by a single Parse call.
type Stats struct {
	Expressions uint64 // expression evaluations, memoized or not
	MemoHits    uint64 // evaluations answered from the memo table
}

// Result is the outcome of one Parse call: either a syntax tree, or a
// failure described by the furthest input position matching reached and
// what was expected there.
type Result struct {
	tree     *Node
	failPos  int
	expected []string
	stats    Stats
}

func (r *Result) IsSuccess() bool {
	return r.tree != nil
}

func (r *Result) IsFailure() bool {
	return r.tree == nil
}

// Tree returns the root node on success, nil on failure.
func (r *Result) Tree() *Node {
	return r.tree
}

// FailurePos returns the furthest offset matching reached before the
// parse failed, or -1 on success.
func (r *Result) FailurePos() int {
	if r.IsSuccess() {
		return -1
	}
	return r.failPos
}

// Expected describes what was expected at FailurePos, deduplicated, in
// the order matching tried it.
func (r *Result) Expected() []string {
	return r.expected
}

func (r *Result) Stats() Stats {
	return r.stats
}

// Err returns nil on success and a *ParseError on failure.
func (r *Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &ParseError{Pos: r.failPos, Expected: r.expected}
}

// ParseError reports a failed parse: ordinary, expected behavior for
// input that does not belong to the language, distinct from
// grammar.DefinitionError.
type ParseError struct {
	Pos      int
	Expected []string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse error at offset %d", e.Pos)
	}
	return fmt.Sprintf("parse error at offset %d: expected %s", e.Pos, strings.Join(e.Expected, " or "))
}

func dedup(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
