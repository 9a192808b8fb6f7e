package symbols

import "testing"

func TestDeclareAndShadow(t *testing.T) {
	table := NewTable()
	root := table.Enter(ScopeFunction)
	a, prev := table.Declare(Symbol{Name: "a", Kind: SymbolParam})
	if prev.IsValid() {
		t.Fatalf("first declaration must not report prev")
	}

	table.Enter(ScopeBlock)
	inner, prev := table.Declare(Symbol{Name: "a", Kind: SymbolValue})
	if prev.IsValid() {
		t.Fatalf("shadowing in a nested block is not a redeclaration")
	}
	if got, _ := table.Lookup("a"); got != inner {
		t.Fatalf("expected inner binding, got %d", got)
	}
	table.Leave()

	if got, _ := table.Lookup("a"); got != a {
		t.Fatalf("expected outer binding after leaving block, got %d", got)
	}
	if table.Current() != root {
		t.Fatalf("expected to be back at root scope")
	}

	again, prev := table.Declare(Symbol{Name: "a", Kind: SymbolShared, JSName: "a$1"})
	if prev != a {
		t.Fatalf("expected redeclaration to report %d, got %d", a, prev)
	}
	if got, _ := table.Lookup("a"); got != again {
		t.Fatalf("last declaration must win")
	}
	if table.Symbol(again).Shadowed != a {
		t.Fatalf("shadowed link missing")
	}
}

func TestCrossesFunction(t *testing.T) {
	table := NewTable()
	table.Enter(ScopeFunction)
	x, _ := table.Declare(Symbol{Name: "x", Kind: SymbolValue})
	table.Enter(ScopeBlock)
	if table.CrossesFunction(x) {
		t.Fatalf("block does not start a function")
	}
	table.Enter(ScopeClosure)
	if !table.CrossesFunction(x) {
		t.Fatalf("closure scope captures outer bindings")
	}
	y, _ := table.Declare(Symbol{Name: "y", Kind: SymbolValue})
	if table.CrossesFunction(y) {
		t.Fatalf("own binding is not captured")
	}
}

func TestVisible(t *testing.T) {
	table := NewTable()
	table.Enter(ScopeFunction)
	table.Declare(Symbol{Name: "a"})
	table.Declare(Symbol{Name: "b", JSName: "b$1"})
	table.Enter(ScopeArm)
	table.Declare(Symbol{Name: "c"})
	got := table.Visible()
	want := []string{"c", "a", "b$1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
