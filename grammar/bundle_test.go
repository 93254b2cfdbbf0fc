package grammar

import (
	"errors"
	"testing"
)

// stubNode is just enough of a Node to run accessors against.
type stubNode struct {
	text string
}

func (s stubNode) Name() string { return "" }
func (s stubNode) Text() string { return s.text }
func (s stubNode) Start() int   { return 0 }
func (s stubNode) End() int     { return len(s.text) }

func (s stubNode) NumElements() int   { return 0 }
func (s stubNode) Element(i int) Node { return nil }

func (s stubNode) Eval(string) (any, error) { return nil, errors.New("stub has no accessors") }

func constant(v any) Accessor {
	return func(Node) (any, error) { return v, nil }
}

func TestCompose_LaterBundleWins(t *testing.T) {
	first := Bundle{"value": constant(1), "label": constant("first")}
	second := Bundle{"value": constant(2)}

	merged := Compose(first, second)
	if len(merged) != 2 {
		t.Fatalf("merged bundle has %d accessors, want 2", len(merged))
	}

	v, err := merged["value"](stubNode{})
	if err != nil {
		t.Fatalf("run value accessor: %v", err)
	}
	if v != 2 {
		t.Errorf("value = %v, want 2", v)
	}

	label, err := merged["label"](stubNode{})
	if err != nil {
		t.Fatalf("run label accessor: %v", err)
	}
	if label != "first" {
		t.Errorf("label = %v, want first", label)
	}
}

func TestCompose_Empty(t *testing.T) {
	if got := Compose(); got != nil {
		t.Errorf("Compose() = %v, want nil", got)
	}
	if got := Compose(nil, Bundle{}); got != nil {
		t.Errorf("Compose(nil, empty) = %v, want nil", got)
	}
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	original := Bundle{"value": constant(1)}
	merged := Compose(original, Bundle{"other": constant(2)})

	merged["extra"] = constant(3)
	if len(original) != 1 {
		t.Errorf("original bundle grew to %d accessors", len(original))
	}
}

func TestBind_ReturnsSameInstance(t *testing.T) {
	expr := Terminal("x")
	bound := Bind(expr, Bundle{"value": constant(1)})
	if bound != expr {
		t.Fatal("Bind should return the expression it was given")
	}
	if expr.Actions() == nil {
		t.Fatal("expected actions after binding")
	}
	if _, ok := expr.Actions()["value"]; !ok {
		t.Error("bound bundle is missing the value accessor")
	}
}

func TestBind_MergesAcrossCalls(t *testing.T) {
	expr := Terminal("x")
	Bind(expr, Bundle{"value": constant(1)})
	Bind(expr, Bundle{"value": constant(2), "label": constant("x")})

	actions := expr.Actions()
	if len(actions) != 2 {
		t.Fatalf("expression carries %d accessors, want 2", len(actions))
	}
	v, err := actions["value"](stubNode{})
	if err != nil {
		t.Fatalf("run value accessor: %v", err)
	}
	if v != 2 {
		t.Errorf("value = %v, want 2 (later bind wins)", v)
	}
}

func TestBind_InstancesStayDistinct(t *testing.T) {
	a := Bind(Terminal("a"), Bundle{"value": constant(1)})
	b := Bind(Terminal("a"), Bundle{"value": constant(2)})

	va, _ := a.Actions()["value"](stubNode{})
	vb, _ := b.Actions()["value"](stubNode{})
	if va == vb {
		t.Error("structurally equal expressions should carry independent bundles")
	}
}
