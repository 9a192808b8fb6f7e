package hir_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"mojes/internal/hir"
)

func factorial() *hir.Func {
	return hir.Fn("factorial", []hir.Param{hir.P("n", "i32")}, "i32", hir.Value(
		hir.Ident("result"),
		hir.LetMut("result", hir.Int(1)),
		hir.LetMut("i", hir.Int(1)),
		hir.While(hir.Binary("<=", hir.Ident("i"), hir.Ident("n")), hir.Body(
			hir.Do(hir.Assign("*=", hir.Ident("result"), hir.Ident("i"))),
			hir.Do(hir.Assign("+=", hir.Ident("i"), hir.Int(1))),
		)),
	))
}

func TestDumpFunction(t *testing.T) {
	var buf bytes.Buffer
	if err := hir.Dump(&buf, []*hir.Func{factorial()}); err != nil {
		t.Fatalf("failed to dump: %v", err)
	}
	want := `fn factorial(n: i32) -> i32 {
    let mut result = 1;
    let mut i = 1;
    while i <= n {
        result *= i;
        i += 1;
    }
    result
}
`
	if got := buf.String(); got != want {
		t.Errorf("unexpected dump:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestFmtPlaceholders(t *testing.T) {
	e := hir.Fmt("Element {}: {{{}}} {name:?}", hir.Ident("i"), hir.Ident("tag"))
	data, ok := e.Data.(hir.FormatData)
	if !ok {
		t.Fatalf("expected FormatData, got %T", e.Data)
	}
	wantParts := []string{"Element ", ": {", "} ", ""}
	if len(data.Parts) != len(wantParts) {
		t.Fatalf("expected %d parts, got %q", len(wantParts), data.Parts)
	}
	for i := range wantParts {
		if data.Parts[i] != wantParts[i] {
			t.Errorf("part %d: expected %q, got %q", i, wantParts[i], data.Parts[i])
		}
	}
	if len(data.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(data.Args))
	}
	if got := hir.ExprString(data.Args[2]); got != "name" {
		t.Errorf("expected inline capture name, got %q", got)
	}
}

func TestHasReturnIgnoresClosures(t *testing.T) {
	inClosure := hir.Value(hir.Closure(nil, hir.Body(hir.Return(hir.Int(1)))))
	if inClosure.HasReturn() {
		t.Errorf("return inside closure must not count")
	}
	nested := hir.Body(hir.If(hir.Bool(true), hir.Body(hir.Return(nil)), nil))
	if !nested.HasReturn() {
		t.Errorf("expected nested return to be found")
	}
}

func TestCodecPreservesStructure(t *testing.T) {
	fn := hir.Fn("testFunc", nil, "", hir.Body(
		hir.Let("element", hir.Method(hir.Ident("document"), "getElementById", hir.Str("test"))),
		hir.MatchOption(hir.Ident("element"), "el",
			hir.Body(hir.Do(hir.Method(hir.Ident("console"), "log", hir.Fmt("found {}", hir.Field(hir.Ident("el"), "id"))))),
			hir.Body(hir.Do(hir.CallName("alert", hir.Str("missing")))),
		),
		hir.Let("cb", hir.MoveClosure([]string{"element"}, []string{"e"}, hir.Value(hir.NewShared(hir.Int(0))))),
		hir.For("x", hir.Range(hir.Int(0), hir.Number("3"), false), hir.Body()),
		hir.ForMut("y", hir.Ident("items"), hir.Body()),
		hir.MatchOptionMut(hir.Ident("element"), "node", hir.Body(), hir.Body()),
	))
	var want bytes.Buffer
	if err := hir.Dump(&want, []*hir.Func{fn}); err != nil {
		t.Fatal(err)
	}
	for _, mark := range []string{"for mut y in items", "Some(mut node)"} {
		if !strings.Contains(want.String(), mark) {
			t.Fatalf("dump lacks %q:\n%s", mark, want.String())
		}
	}
	for _, format := range []hir.WireFormat{hir.WireJSON, hir.WireYAML, hir.WireMsgpack} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := hir.Encode([]*hir.Func{fn}, format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			funcs, err := hir.Decode(data, format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			var got bytes.Buffer
			if err := hir.Dump(&got, funcs); err != nil {
				t.Fatal(err)
			}
			if got.String() != want.String() {
				t.Errorf("structure changed:\nwant:\n%s\ngot:\n%s", want.String(), got.String())
			}
		})
	}
}

func TestDecodeSingleFunctionYAML(t *testing.T) {
	doc := `
name: add
params:
  - {name: a, type: i32}
  - {name: b, type: i32}
result: i32
body:
  tail:
    kind: binary
    op: "+"
    left: {kind: ident, name: a}
    right: {kind: ident, name: b}
`
	funcs, err := hir.Decode([]byte(doc), hir.WireYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(funcs) != 1 || funcs[0].Name != "add" || len(funcs[0].Params) != 2 {
		t.Fatalf("unexpected functions: %+v", funcs)
	}
	if got := hir.ExprString(funcs[0].Body.Tail); got != "a + b" {
		t.Errorf("expected tail a + b, got %q", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown expr kind", `{"name":"f","body":{"tail":{"kind":"lambda"}}}`, `functions[0].body.tail: unknown expression kind "lambda"`},
		{"missing operand", `{"functions":[{"name":"f","body":{"stmts":[{"kind":"expr","value":{"kind":"binary","op":"+","left":{"kind":"ident","name":"a"}}}]}}]}`, "functions[0].body.stmts[0].value.right: missing expression"},
		{"bad scrutinee", `{"name":"f","body":{"stmts":[{"kind":"if_match","scrutinee":"enum","value":{"kind":"ident","name":"x"}}]}}`, `unknown scrutinee kind "enum"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hir.Decode([]byte(tt.doc), hir.WireJSON)
			var de *hir.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
	if _, err := hir.Decode([]byte(`{}`), hir.WireJSON); !errors.Is(err, hir.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestWireFormatFromPath(t *testing.T) {
	for path, want := range map[string]hir.WireFormat{
		"a.json":     hir.WireJSON,
		"dir/b.YAML": hir.WireYAML,
		"c.yml":      hir.WireYAML,
		"d.msgpack":  hir.WireMsgpack,
	} {
		got, err := hir.WireFormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("%s: expected %s, got %s (%v)", path, want, got, err)
		}
	}
	if _, err := hir.WireFormatFromPath("x.rs"); err == nil {
		t.Errorf("expected error for unknown extension")
	}
}
