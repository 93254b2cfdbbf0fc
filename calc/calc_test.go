package calc

import (
	"errors"
	"sync"
	"testing"

	"github.com/dhamidi/peg/parse"
)

func TestEval(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"5", 5},
		{"0", 0},
		{"5346", 5346},
		{"45*4", 180},
		{"45+4", 49},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"2*3*4", 24},
		{"10+20+30", 60},
		{"(34+(44*(6*(67+(5)))))", 19042},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Eval(tt.input)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEval_Failures(t *testing.T) {
	tests := []struct {
		input  string
		minPos int
	}{
		{"", 0},
		{"05346", 1},
		{"53*", 2},
		{"4+", 2},
		{"()", 1},
		{"1++2", 1},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Eval(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			var parseErr *parse.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error is %T, want *parse.ParseError", err)
			}
			if parseErr.Pos < tt.minPos {
				t.Errorf("failure position = %d, want at least %d", parseErr.Pos, tt.minPos)
			}
		})
	}
}

func TestEval_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				got, err := Eval("45+4")
				if err != nil {
					t.Errorf("eval: %v", err)
					return
				}
				if got != 49 {
					t.Errorf("Eval(45+4) = %d, want 49", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestParse_TreeShape(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	result, err := p.Parse("45*4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.IsFailure() {
		t.Fatalf("parse failed: %v", result.Err())
	}

	root := result.Tree()
	if root.Name() != "additive" {
		t.Errorf("root name = %q, want %q", root.Name(), "additive")
	}
	if root.NumElements() != 3 {
		t.Fatalf("root has %d elements, want 3", root.NumElements())
	}
	if root.Element(0).Name() != "primary" || root.Element(0).Text() != "45" {
		t.Errorf("element 0 = %s %q, want primary %q",
			root.Element(0).Name(), root.Element(0).Text(), "45")
	}
	if root.Element(1).Text() != "*" {
		t.Errorf("element 1 text = %q, want *", root.Element(1).Text())
	}
	if root.Element(2).Name() != "multitive" || root.Element(2).Text() != "4" {
		t.Errorf("element 2 = %s %q, want multitive %q",
			root.Element(2).Name(), root.Element(2).Text(), "4")
	}

	v, err := root.Eval("value")
	if err != nil {
		t.Fatalf("eval value: %v", err)
	}
	if v != 180 {
		t.Errorf("value = %v, want 180", v)
	}
}

func TestParse_SharedOperandAccessors(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	// left and right come from one bundle composed into both operator
	// bundles, so both kinds of node answer them
	for _, tt := range []struct {
		input string
		left  int
		right int
	}{
		{"45*4", 45, 4},
		{"45+4", 45, 4},
	} {
		result, err := p.Parse(tt.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.input, err)
		}
		if result.IsFailure() {
			t.Fatalf("parse %q failed: %v", tt.input, result.Err())
		}
		root := result.Tree()

		left, err := root.Eval("left")
		if err != nil {
			t.Fatalf("eval left on %q: %v", tt.input, err)
		}
		if left != tt.left {
			t.Errorf("left of %q = %v, want %d", tt.input, left, tt.left)
		}
		right, err := root.Eval("right")
		if err != nil {
			t.Fatalf("eval right on %q: %v", tt.input, err)
		}
		if right != tt.right {
			t.Errorf("right of %q = %v, want %d", tt.input, right, tt.right)
		}
	}
}

func TestGrammar_Rules(t *testing.T) {
	g := Grammar()
	if g.Start() != "additive" {
		t.Errorf("start rule = %q, want %q", g.Start(), "additive")
	}

	want := []string{"additive", "multitive", "primary", "decimal"}
	got := g.Rules()
	if len(got) != len(want) {
		t.Fatalf("grammar has %d rules, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rule %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew_StartOverride(t *testing.T) {
	p, err := New(parse.WithStart("decimal"))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	result, err := p.Parse("700")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.IsFailure() {
		t.Fatalf("parse failed: %v", result.Err())
	}
	v, err := result.Tree().Eval("value")
	if err != nil {
		t.Fatalf("eval value: %v", err)
	}
	if v != 700 {
		t.Errorf("value = %v, want 700", v)
	}

	result, err = p.Parse("1+1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.IsSuccess() {
		t.Error("a decimal parser should reject operators")
	}
}
