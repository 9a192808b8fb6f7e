package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mojes/internal/corpus"
	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/jsrt"
	"mojes/internal/lower"
)

func add() *hir.Func {
	return hir.Fn("add", []hir.Param{hir.P("a", "i32"), hir.P("b", "i32")}, "i32",
		hir.Value(hir.Binary("+", hir.Ident("a"), hir.Ident("b"))))
}

func caller(name, callee string) *hir.Func {
	return hir.Fn(name, nil, "", hir.Body(hir.Do(hir.CallName(callee))))
}

func codes(bag *diag.Bag) map[diag.Code]int {
	out := make(map[diag.Code]int)
	for _, d := range bag.Items() {
		out[d.Code]++
	}
	return out
}

type sinkFunc func(Event)

func (f sinkFunc) OnEvent(e Event) { f(e) }

func TestBuildCorpus(t *testing.T) {
	res, err := Build(context.Background(), corpus.Functions(), Options{Dialect: lower.ES5, Check: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		t.Fatalf("corpus must build:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
	}
	if res.Registry.Len() != len(corpus.Functions()) || res.Stats.Lowered != res.Registry.Len() {
		t.Fatalf("registered %d, stats %+v", res.Registry.Len(), res.Stats)
	}
	if err := jsrt.Check("demo.js", res.Script(true)); err != nil {
		t.Fatalf("script must parse: %v", err)
	}
}

func TestBuildForwardReferenceWarns(t *testing.T) {
	res, err := Build(context.Background(), []*hir.Func{caller("first", "second"), caller("second", "first")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := codes(res.Bag)
	if res.HasErrors() || got[diag.UnresForwardRef] != 1 || got[diag.UnresIdentifier] != 0 {
		t.Fatalf("diagnostics:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
	}
	if names := res.Registry.Names(); len(names) != 2 || names[0] != "first" {
		t.Fatalf("names = %v", names)
	}
}

func TestBuildDuplicateFunction(t *testing.T) {
	second := hir.Fn("add", nil, "i32", hir.Value(hir.Int(0)))
	res, _ := Build(context.Background(), []*hir.Func{add(), caller("other", "add"), second}, Options{})
	if got := codes(res.Bag); got[diag.DupFunction] != 1 || res.HasErrors() {
		t.Fatalf("warn policy:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
	}
	if names := res.Registry.Names(); len(names) != 2 || names[0] != "add" {
		t.Fatalf("the original slot must be kept: %v", names)
	}
	if !strings.HasPrefix(res.Registry.Render(), "function add() {\n    return 0;\n}") {
		t.Fatalf("later definition must win:\n%s", res.Registry.Render())
	}

	res, _ = Build(context.Background(), []*hir.Func{add(), second}, Options{Duplicates: lower.DupError})
	if !res.HasErrors() || res.Stats.Failed != 1 {
		t.Fatalf("error policy must reject, stats %+v", res.Stats)
	}
	if !strings.Contains(res.Registry.Render(), "return a + b;") {
		t.Fatalf("first definition must stay:\n%s", res.Registry.Render())
	}
}

func TestBuildStructuralErrorOmitsFunction(t *testing.T) {
	res, _ := Build(context.Background(), []*hir.Func{hir.Fn("class", nil, "", hir.Body()), add()}, Options{})
	if !res.Bag.HasStructural() || res.Registry.Len() != 1 || res.Stats.Failed != 1 {
		t.Fatalf("registered %v, stats %+v", res.Registry.Names(), res.Stats)
	}
}

func TestBuildEventsAndPhases(t *testing.T) {
	var events []Event
	var phases []string
	opts := Options{
		Dialect: lower.ES5,
		Check:   true,
		Sink:    sinkFunc(func(e Event) { events = append(events, e) }),
		Observer: func(e PhaseEvent) {
			if e.Status == PhaseEnd {
				phases = append(phases, e.Name)
			}
		},
	}
	if _, err := Build(context.Background(), []*hir.Func{add(), hir.Fn("1st", nil, "", hir.Body())}, opts); err != nil {
		t.Fatal(err)
	}
	if strings.Join(phases, ",") != "lower,check" {
		t.Fatalf("phases = %v", phases)
	}
	final := map[string]Status{}
	for _, e := range events {
		if e.Item != "" {
			final[e.Item] = e.Status
		}
	}
	if final["add"] != StatusDone || final["1st"] != StatusError {
		t.Fatalf("final statuses = %v", final)
	}
	if last := events[len(events)-1]; last.Stage != StageCheck || last.Status != StatusDone {
		t.Fatalf("last event = %+v", last)
	}
}

func TestBuildCheckSkipsES2015(t *testing.T) {
	res, _ := Build(context.Background(), []*hir.Func{add()}, Options{Check: true})
	if got := codes(res.Bag); got[diag.RunDialectSkipped] != 1 || res.HasErrors() {
		t.Fatalf("diagnostics:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
	}
}

func TestBuildTimingsDiagnostic(t *testing.T) {
	res, _ := Build(context.Background(), []*hir.Func{add()}, Options{Timings: true, MaxDiagnostics: 1})
	items := res.Bag.Items()
	last := items[len(items)-1]
	if last.Code != diag.ObsTimings || len(last.Notes) != 1 || !strings.Contains(last.Notes[0].Msg, `"phases"`) {
		t.Fatalf("timings diagnostic = %+v", last)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, []*hir.Func{add()}, Options{}); err == nil {
		t.Fatalf("cancelled build must fail")
	}
}

func TestBuildUsesCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	funcs := func() []*hir.Func {
		return []*hir.Func{add(), caller("uses", "helper"), hir.Fn("class", nil, "", hir.Body())}
	}
	opts := Options{Cache: cache}
	first, _ := Build(context.Background(), funcs(), opts)
	second, _ := Build(context.Background(), funcs(), opts)
	if first.Stats.Cached != 0 || second.Stats.Cached != 3 || second.Stats.Lowered != 0 {
		t.Fatalf("stats %+v then %+v", first.Stats, second.Stats)
	}
	if first.Registry.Render() != second.Registry.Render() {
		t.Fatalf("cached render differs:\n%s\n---\n%s", first.Registry.Render(), second.Registry.Render())
	}
	a, b := diag.FormatShortDiagnostics(first.Bag.Items(), true), diag.FormatShortDiagnostics(second.Bag.Items(), true)
	if a != b {
		t.Fatalf("diagnostics must replay:\n%s\n---\n%s", a, b)
	}

	other, _ := Build(context.Background(), funcs(), Options{Cache: cache, Dialect: lower.ES5})
	if other.Stats.Cached != 0 {
		t.Fatalf("dialect must be part of the key, stats %+v", other.Stats)
	}
}

func writeDoc(t *testing.T, dir, name string, format hir.WireFormat, funcs ...*hir.Func) string {
	t.Helper()
	data, err := hir.Encode(funcs, format)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.json", hir.WireJSON, caller("second", "first"))
	writeDoc(t, dir, "a.yaml", hir.WireYAML, hir.Fn("first", nil, "", hir.Body()))
	writeDoc(t, dir, "sub/c.msgpack", hir.WireMsgpack, add())
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"functions": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := BuildFiles(context.Background(), []string{dir}, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(res.Registry.Names(), ","); got != "first,second,add" {
		t.Fatalf("names = %s", got)
	}
	if len(res.Inputs) != 4 || !res.Inputs[2].Failed() {
		t.Fatalf("inputs = %+v", res.Inputs)
	}
	got := codes(res.Bag)
	if got[diag.IODecodeError] != 1 || got[diag.UnresForwardRef] != 0 {
		t.Fatalf("diagnostics:\n%s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
	}
	for _, in := range res.Inputs {
		for _, fn := range in.Funcs {
			if fn.Pos.File == "" {
				t.Errorf("%s: position must point at its document", fn.Name)
			}
		}
	}
}

func TestListInputs(t *testing.T) {
	dir := t.TempDir()
	b := writeDoc(t, dir, "b.json", hir.WireJSON, add())
	writeDoc(t, dir, "a.yml", hir.WireYAML, add())
	if err := os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ListInputs([]string{b, dir, b})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{b, filepath.Join(dir, "a.yml")}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := ListInputs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("missing input must fail")
	}
}

func TestLoadInputUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fn.txt")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	inputs, err := LoadInputs(context.Background(), []string{path}, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !inputs[0].Failed() || inputs[0].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("input = %+v", inputs[0])
	}
}
