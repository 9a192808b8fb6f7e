package naming

import (
	"testing"

	"mojes/internal/hostapi"
	"mojes/internal/symbols"
)

func TestResolveOrder(t *testing.T) {
	p := NewPolicy(hostapi.Default(), []string{"factorial"}, []string{"later_fn"})
	table := symbols.NewTable()
	table.Enter(symbols.ScopeFunction)
	table.Declare(symbols.Symbol{Name: "el", Kind: symbols.SymbolHostHandle, Handle: hostapi.RecvElement})
	table.Declare(symbols.Symbol{Name: "document", JSName: "document$1", Kind: symbols.SymbolValue})

	tests := []struct {
		name    string
		pos     Position
		outcome Outcome
		js      string
		handle  string
	}{
		{"el", PosReceiver, UserSymbol, "el", hostapi.RecvElement},
		{"document", PosReceiver, UserSymbol, "document$1", ""},
		{"factorial", PosCallee, UserSymbol, "factorial", ""},
		{"window", PosReceiver, PassThrough, "window", hostapi.RecvWindow},
		{"println", PosCallee, PassThrough, "console.log", ""},
		{"setTimeout", PosCallee, PassThrough, "setTimeout", ""},
		{"getElementByID", PosCallee, Unresolved, "getElementByID", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Resolve(table, tt.name, tt.pos)
			if res.Outcome != tt.outcome || res.JS != tt.js || res.Handle != tt.handle {
				t.Errorf("expected %s %q [%s], got %s %q [%s]", tt.outcome, tt.js, tt.handle, res.Outcome, res.JS, res.Handle)
			}
		})
	}
	if res := p.Resolve(table, "later_fn", PosCallee); res.Outcome != Unresolved || !res.Later {
		t.Errorf("expected forward reference to be flagged, got %+v", res)
	}
}

func TestMemberPassThrough(t *testing.T) {
	p := NewPolicy(nil, nil, nil)
	e, ok := p.Member(hostapi.RecvElement, "someUnknownMethod")
	if !ok || e.Emit() != "someUnknownMethod" || e.Kind != hostapi.KindMethod {
		t.Fatalf("unknown member of a host handle must pass through: %+v", e)
	}
	e, _ = p.Member(hostapi.RecvWindow, "innerHeight")
	if e.Kind != hostapi.KindProperty {
		t.Errorf("innerHeight should be a property")
	}
	if _, ok := p.Member("", "push"); ok {
		t.Errorf("members of plain values are not host members")
	}
}

func TestManglerAssign(t *testing.T) {
	p := NewPolicy(hostapi.Default(), []string{"add"}, nil)

	m := NewMangler(p, false)
	cases := []struct {
		name    string
		visible []string
		want    string
	}{
		{"total", nil, "total"},
		{"class", nil, "class$1"},
		{"document", nil, "document$1"},
		{"add", nil, "add$1"},
		{"x", []string{"x"}, "x$1"},
		{"x", []string{"x", "x$1"}, "x$2"},
		{"r#type", nil, "type"},
		{"x", nil, "x"},
	}
	for _, c := range cases {
		got, _ := m.Assign(c.name, c.visible)
		if got != c.want {
			t.Errorf("%s: expected %q, got %q", c.name, c.want, got)
		}
	}
}

func TestManglerVarScoped(t *testing.T) {
	m := NewMangler(NewPolicy(nil, nil, nil), true)
	if got, _ := m.Assign("x", nil); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
	// a disjoint block redeclaring x still shares the function's var scope
	if got, _ := m.Assign("x", nil); got != "x$1" {
		t.Fatalf("expected x$1, got %q", got)
	}
	m.EnterFunction()
	if got, _ := m.Assign("x", nil); got != "x" {
		t.Fatalf("a closure has its own var scope, got %q", got)
	}
	m.LeaveFunction()
	if got := m.Temp("m"); got != "$m0" {
		t.Fatalf("expected $m0, got %q", got)
	}
	if got := m.Temp("m"); got != "$m1" {
		t.Fatalf("expected $m1, got %q", got)
	}
}

func TestManglerReserve(t *testing.T) {
	m := NewMangler(NewPolicy(nil, nil, nil), false)
	m.Reserve("x")
	m.Reserve("x")
	if got, _ := m.Assign("x", nil); got != "x$1" {
		t.Fatalf("a held name must not be reused, got %q", got)
	}
	m.Release("x")
	if got, _ := m.Assign("x", nil); got != "x$2" {
		t.Fatalf("still held once, got %q", got)
	}
	m.Release("x")
	if got, _ := m.Assign("x", nil); got != "x" {
		t.Fatalf("released name should be free, got %q", got)
	}
}

func TestIdentifierHelpers(t *testing.T) {
	if !IsIdentifier("newElement") || !IsIdentifier("_x1") || !IsIdentifier("позиция") {
		t.Errorf("valid identifiers rejected")
	}
	if IsIdentifier("1x") || IsIdentifier("a-b") || IsIdentifier("") {
		t.Errorf("invalid identifiers accepted")
	}
	// e + combining acute, normalised to a single code point
	if got := Normalize("cafe\u0301"); got != "caf\u00e9" {
		t.Errorf("expected NFC form, got %q", got)
	}
}
