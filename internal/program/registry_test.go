package program

import (
	"errors"
	"strings"
	"testing"

	"mojes/internal/diag"
	"mojes/internal/emit"
	"mojes/internal/hostapi"
	"mojes/internal/lower"
	"mojes/internal/source"
)

func frag(name, text string, params ...string) emit.Fragment {
	return emit.Fragment{Name: name, Text: text, Params: params}
}

func TestRenderOrderAndSeparator(t *testing.T) {
	r := NewRegistry(lower.DupWarn)
	if got := r.Render(); got != "" {
		t.Fatalf("empty registry must render empty, got %q", got)
	}
	for _, f := range []emit.Fragment{
		frag("b", "function b() {\n}"),
		frag("a", "function a() {\n}"),
	} {
		if err := r.Register(f, source.Pos{}, nil); err != nil {
			t.Fatalf("register %s: %v", f.Name, err)
		}
	}
	want := "function b() {\n}\n\nfunction a() {\n}\n"
	if got := r.Render(); got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
	if r.Render() != r.Render() {
		t.Fatalf("render must be deterministic")
	}
	if names := r.Names(); len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("names = %v", names)
	}
}

func TestRegisterDuplicateWarnKeepsSlot(t *testing.T) {
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	r := NewRegistry(lower.DupWarn)
	_ = r.Register(frag("f", "function f() {\n    return 1;\n}"), source.Pos{}, rep)
	_ = r.Register(frag("g", "function g() {\n}"), source.Pos{}, rep)
	if err := r.Register(frag("f", "function f() {\n    return 2;\n}"), source.Pos{Line: 9, Col: 1}, rep); err != nil {
		t.Fatalf("warn policy must accept the redefinition: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 fragments, got %d", r.Len())
	}
	out := r.Render()
	if !strings.HasPrefix(out, "function f() {\n    return 2;\n}") {
		t.Fatalf("later definition must replace the original slot:\n%s", out)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.DupFunction || items[0].Severity != diag.SevWarning {
		t.Fatalf("expected one DupFunction warning, got %s", diag.FormatShortDiagnostics(items, false))
	}
}

func TestRegisterDuplicateError(t *testing.T) {
	bag := diag.NewBag(0)
	r := NewRegistry(lower.DupError)
	_ = r.Register(frag("f", "function f() {\n}"), source.Pos{}, nil)
	err := r.Register(frag("f", "function f() {\n    return 2;\n}"), source.Pos{}, diag.BagReporter{Bag: bag})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if r.Render() != "function f() {\n}\n" {
		t.Fatalf("rejected registration must not change the registry")
	}
	if !bag.HasErrors() {
		t.Fatalf("expected an error diagnostic")
	}
}

func TestRenderScriptPrelude(t *testing.T) {
	r := NewRegistry(lower.DupWarn)
	_ = r.Register(frag("f", "function f() {\n}"), source.Pos{}, nil)
	out := r.RenderScript(ScriptOptions{Dialect: lower.ES5, Prelude: true})
	if !strings.HasPrefix(out, "function Mutex(inner) {") {
		t.Fatalf("es5 prelude expected first:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n\nfunction f() {\n}\n") {
		t.Fatalf("program expected after the prelude:\n%s", out)
	}
	if got := r.RenderScript(ScriptOptions{}); got != r.Render() {
		t.Fatalf("without prelude the script is the rendered program")
	}
}

func TestRenderPage(t *testing.T) {
	r := NewRegistry(lower.DupWarn)
	_ = r.Register(frag("testFunc", "function testFunc() {\n}"), source.Pos{}, nil)
	_ = r.Register(frag("add", "function add(a, b) {\n    return a + b;\n}", "a", "b"), source.Pos{}, nil)

	var b strings.Builder
	err := r.RenderPage(&b, PageOptions{
		Title:    "demo",
		Fixtures: []hostapi.Fixture{{Tag: "div", ID: "test", Text: "Test <Element>"}},
		Extra:    []Button{CallButton("add(5, 3)", "console.log(add(5, 3))")},
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	page := b.String()
	for _, want := range []string{
		`<button onclick="testFunc()">testFunc</button>`,
		`<div id="test">Test &lt;Element&gt;</div>`,
		"function add(a, b) {\n    return a + b;\n}",
		"class Mutex {",
		`console.log(add(5, 3))`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page is missing %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, `onclick="add()"`) {
		t.Fatalf("functions with parameters get no generated button")
	}
}

func TestDefaultRegistryIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default must return the same registry")
	}
}
