package shim

import (
	"strings"
	"testing"
)

func TestLookupMethodArity(t *testing.T) {
	if m, ok := LookupMethod("unwrap", 0); !ok || m.Rewrite != RewriteErase {
		t.Fatalf("unwrap(): %+v %v", m, ok)
	}
	if _, ok := LookupMethod("unwrap", 1); ok {
		t.Errorf("unwrap with an argument is not the option method")
	}
	if m, ok := LookupMethod("contains", 1); !ok || m.JS != "includes" {
		t.Errorf("contains(x): %+v %v", m, ok)
	}
	if _, ok := LookupMethod("addEventListener", 2); ok {
		t.Errorf("host methods are not compatibility methods")
	}
}

func TestPreludeDialects(t *testing.T) {
	es5 := Prelude("es5")
	if strings.Contains(es5, "class ") || strings.Contains(es5, "=>") {
		t.Errorf("es5 prelude must not use es2015 syntax")
	}
	for _, want := range []string{"function Mutex(inner)", "Mutex.prototype.acquire", "seq: function", "clone: function"} {
		if !strings.Contains(es5, want) {
			t.Errorf("es5 prelude lacks %q", want)
		}
	}
	if !strings.Contains(Prelude("es2015"), "class Mutex") {
		t.Errorf("es2015 prelude should declare the Mutex class")
	}
	if !strings.Contains(Prelude("es2015"), "clone(x)") {
		t.Errorf("es2015 prelude lacks the clone helper")
	}
	if m, ok := LookupMethod("clone", 0); !ok || m.Rewrite != RewriteAlias {
		t.Errorf("clone(): %+v %v", m, ok)
	}
}
