// Package calc evaluates integer arithmetic with a parsing expression
// grammar: right-recursive additive/multitive/primary/decimal rules, and
// accessor bundles that compute each node's value on demand. It doubles
// as the worked example for building grammars with accessors.
package calc

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dhamidi/peg/grammar"
	"github.com/dhamidi/peg/parse"
)

// digits evaluates a decimal node by converting its matched text.
var digits = grammar.Bundle{
	"value": func(n grammar.Node) (any, error) {
		return strconv.Atoi(n.Text())
	},
}

// operands reads the operand values of a binary "left op right" sequence.
// One bundle, composed into both operator bundles below.
var operands = grammar.Bundle{
	"left": func(n grammar.Node) (any, error) {
		return intValue(n, 0)
	},
	"right": func(n grammar.Node) (any, error) {
		return intValue(n, 2)
	},
}

// addition evaluates "multitive '+' additive" sequences.
var addition = grammar.Compose(operands, grammar.Bundle{
	"value": func(n grammar.Node) (any, error) {
		left, err := intEval(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := intEval(n, "right")
		if err != nil {
			return nil, err
		}
		return left + right, nil
	},
})

// multiplication evaluates "primary '*' multitive" sequences.
var multiplication = grammar.Compose(operands, grammar.Bundle{
	"value": func(n grammar.Node) (any, error) {
		left, err := intEval(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := intEval(n, "right")
		if err != nil {
			return nil, err
		}
		return left * right, nil
	},
})

// grouping evaluates "'(' additive ')'" sequences by delegating to the
// parenthesized expression.
var grouping = grammar.Bundle{
	"value": func(n grammar.Node) (any, error) {
		inner := n.Element(1)
		if inner == nil {
			return nil, fmt.Errorf("grouping node at offset %d has no inner expression", n.Start())
		}
		return inner.Eval("value")
	},
}

func intValue(n grammar.Node, i int) (int, error) {
	child := n.Element(i)
	if child == nil {
		return 0, fmt.Errorf("node at offset %d has no element %d", n.Start(), i)
	}
	v, err := child.Eval("value")
	if err != nil {
		return 0, err
	}
	value, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("element %d evaluated to %T, want int", i, v)
	}
	return value, nil
}

func intEval(n grammar.Node, accessor string) (int, error) {
	v, err := n.Eval(accessor)
	if err != nil {
		return 0, err
	}
	value, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("accessor %q evaluated to %T, want int", accessor, v)
	}
	return value, nil
}

var calcGrammar = build()

func build() *grammar.Grammar {
	g := grammar.New()

	g.MustDeclare("additive", grammar.OrderedChoice(
		grammar.Bind(grammar.Sequence(
			g.Nonterminal("multitive"),
			grammar.Terminal("+"),
			g.Nonterminal("additive"),
		), addition),
		g.Nonterminal("multitive"),
	))

	g.MustDeclare("multitive", grammar.OrderedChoice(
		grammar.Bind(grammar.Sequence(
			g.Nonterminal("primary"),
			grammar.Terminal("*"),
			g.Nonterminal("multitive"),
		), multiplication),
		g.Nonterminal("primary"),
	))

	g.MustDeclare("primary", grammar.OrderedChoice(
		grammar.Bind(grammar.Sequence(
			grammar.Terminal("("),
			g.Nonterminal("additive"),
			grammar.Terminal(")"),
		), grouping),
		g.Nonterminal("decimal"),
	))

	// no leading zeros: multi-digit numbers start with 1-9, zero stands
	// alone
	g.MustDeclare("decimal", grammar.OrderedChoice(
		grammar.Sequence(
			grammar.CharRange('1', '9'),
			grammar.ZeroOrMore(grammar.CharRange('0', '9')),
		),
		grammar.Terminal("0"),
	), digits)

	return g
}

// Grammar returns the arithmetic grammar. It is shared and frozen as
// soon as the first parser is created over it.
func Grammar() *grammar.Grammar {
	return calcGrammar
}

// New returns a parser for the arithmetic grammar, starting at
// "additive".
func New(opts ...parse.Option) (*parse.Parser, error) {
	return parse.NewParser(calcGrammar, opts...)
}

// defaultParser is built on first use and shared by all Eval calls.
var defaultParser = sync.OnceValues(func() (*parse.Parser, error) {
	return parse.NewParser(calcGrammar)
})

// Eval parses input as an arithmetic expression and computes its value.
// All calls share one parser and may run concurrently.
func Eval(input string) (int, error) {
	p, err := defaultParser()
	if err != nil {
		return 0, err
	}
	result, err := p.Parse(input)
	if err != nil {
		return 0, err
	}
	if result.IsFailure() {
		return 0, result.Err()
	}
	v, err := result.Tree().Eval("value")
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", input, err)
	}
	value, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: value is %T, want int", input, v)
	}
	return value, nil
}
