package lower

import (
	"strings"
	"testing"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/naming"
)

func lowerBody(t *testing.T, fn *hir.Func, opts Options, registered ...string) (string, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	l := New(fn.Name, naming.NewPolicy(nil, registered, nil), diag.BagReporter{Bag: bag}, opts)
	for _, p := range fn.Params {
		if _, ok := l.DeclareParam(p); !ok {
			t.Fatalf("duplicate param %q", p.Name)
		}
	}
	w := NewWriter()
	w.IndentPush()
	l.FunctionBody(w, fn.Body, fn.ReturnsValue())
	return w.String(), bag
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func expectJS(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected output\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func expectCode(t *testing.T, bag *diag.Bag, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("expected %s, got %s", code.ID(), diag.FormatShortDiagnostics(bag.Items(), false))
	return diag.Diagnostic{}
}

func TestLowerTailReturn(t *testing.T) {
	fn := hir.Fn("add", []hir.Param{hir.P("a", "i32"), hir.P("b", "i32")}, "i32",
		hir.Value(hir.Binary("+", hir.Ident("a"), hir.Ident("b"))))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines("    return a + b;"))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerIfAsValue(t *testing.T) {
	n := hir.Ident("n")
	fn := hir.Fn("factorial", []hir.Param{hir.P("n", "u32")}, "u32", hir.Body(
		hir.If(hir.Binary("<=", n, hir.Int(1)),
			hir.Value(hir.Int(1)),
			hir.Value(hir.Binary("*", n, hir.CallName("factorial", hir.Binary("-", n, hir.Int(1))))),
		),
	))
	got, bag := lowerBody(t, fn, Options{}, "factorial")
	expectJS(t, got, lines(
		"    if (n <= 1) {",
		"        return 1;",
		"    } else {",
		"        return n * factorial(n - 1);",
		"    }",
	))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerNestedBinaryParenthesized(t *testing.T) {
	fn := hir.Fn("calc", []hir.Param{hir.P("a", "i32"), hir.P("b", "i32")}, "i32",
		hir.Value(hir.Binary("*", hir.Binary("+", hir.Ident("a"), hir.Ident("b")), hir.Number("2_000i64"))))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines("    return (a + b) * 2000;"))
}

func TestLowerElseIfChain(t *testing.T) {
	x := hir.Ident("x")
	say := func(s string) *hir.Block { return hir.Body(hir.Do(hir.CallName("alert", hir.Str(s)))) }
	fn := hir.Fn("sign", []hir.Param{hir.P("x", "i32")}, "", hir.Body(
		hir.If(hir.Binary("<", x, hir.Int(0)), say("neg"),
			hir.Body(hir.If(hir.Binary("==", x, hir.Int(0)), say("zero"), say("pos")))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    if (x < 0) {",
		`        alert("neg");`,
		"    } else if (x == 0) {",
		`        alert("zero");`,
		"    } else {",
		`        alert("pos");`,
		"    }",
	))
}

func TestLowerConditionalBinding(t *testing.T) {
	fn := hir.Fn("inc", []hir.Param{hir.P("opt", "Option<i32>")}, "i32", hir.Value(
		hir.Ident("v"),
		hir.LetMatch("v", hir.OptionMatch(hir.Ident("opt"), "x",
			hir.Value(hir.Binary("+", hir.Ident("x"), hir.Int(1))),
			hir.Value(hir.Int(0)))),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    let v;",
		"    if (opt != null) {",
		"        const x = opt;",
		"        v = x + 1;",
		"    } else {",
		"        v = 0;",
		"    }",
		"    return v;",
	))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerOptionMatchAsValue(t *testing.T) {
	fn := hir.Fn("next", []hir.Param{hir.P("o", "Option<i32>")}, "i32", hir.Value(
		hir.Ident("y"),
		hir.Let("y", hir.Binary("+",
			hir.OptionMatch(hir.Ident("o"), "v", hir.Value(hir.Ident("v")), hir.Value(hir.Int(0))),
			hir.Int(1))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const y = (() => {",
		"        if (o != null) {",
		"            const v = o;",
		"            return v;",
		"        } else {",
		"            return 0;",
		"        }",
		"    })() + 1;",
		"    return y;",
	))
}

func TestLowerReturnInsideValueMatch(t *testing.T) {
	fn := hir.Fn("bad", []hir.Param{hir.P("o", "Option<i32>")}, "i32", hir.Value(
		hir.Ident("y"),
		hir.Let("y", hir.OptionMatch(hir.Ident("o"), "v",
			hir.Value(hir.Ident("v")),
			hir.Body(hir.Return(hir.Int(0))))),
	))
	_, bag := lowerBody(t, fn, Options{})
	expectCode(t, bag, diag.StructReturnInValue)
}

func TestLowerMoveClosureSnapshot(t *testing.T) {
	count := hir.Ident("count")
	fn := hir.Fn("counter", nil, "", hir.Body(
		hir.LetMut("count", hir.Int(0)),
		hir.Let("inc", hir.MoveClosure([]string{"count"}, nil, hir.Value(count,
			hir.Do(hir.Assign("+=", count, hir.Int(1)))))),
	))

	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    let count = 0;",
		"    const inc = ((count) => () => {",
		"        count += 1;",
		"        return count;",
		"    })(count);",
	))

	got, _ = lowerBody(t, fn, Options{Dialect: ES5})
	expectJS(t, got, lines(
		"    var count = 0;",
		"    var inc = (function (count) {",
		"        return function () {",
		"            count += 1;",
		"            return count;",
		"        };",
		"    })(count);",
	))
}

func TestLowerUndeclaredCapture(t *testing.T) {
	fn := hir.Fn("f", nil, "", hir.Body(
		hir.Let("g", hir.MoveClosure([]string{"ghost"}, nil, hir.Body())),
	))
	_, bag := lowerBody(t, fn, Options{})
	expectCode(t, bag, diag.StructUndeclaredCapture)
}

func TestLowerDuplicateBinding(t *testing.T) {
	fn := hir.Fn("dup", nil, "", hir.Body(
		hir.Let("a", hir.Int(1)),
		hir.Let("a", hir.Int(2)),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const a = 1;",
		"    const a$1 = 2;",
	))
	d := expectCode(t, bag, diag.DupBinding)
	if d.Severity != diag.SevWarning {
		t.Fatalf("expected a warning, got %s", d.Severity)
	}
	if bag.HasErrors() {
		t.Fatalf("warn policy must not produce errors")
	}

	_, bag = lowerBody(t, fn, Options{Duplicates: DupError})
	expectCode(t, bag, diag.StructDuplicateBinding)

	_, bag = lowerBody(t, fn, Options{Duplicates: DupAllow})
	if bag.Len() != 0 {
		t.Fatalf("allow policy must be silent, got %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerShadowingInNestedBlockMangles(t *testing.T) {
	fn := hir.Fn("shadow", []hir.Param{hir.P("x", "i32")}, "", hir.Body(
		hir.If(hir.Bool(true), hir.Body(
			hir.Let("x", hir.Binary("+", hir.Ident("x"), hir.Int(1))),
			hir.Do(hir.CallName("alert", hir.Ident("x"))),
		), nil),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    if (true) {",
		"        const x$1 = x + 1;",
		"        alert(x$1);",
		"    }",
	))
	if bag.Len() != 0 {
		t.Fatalf("shadowing in a nested block is not a duplicate: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerForEach(t *testing.T) {
	fn := hir.Fn("show", []hir.Param{hir.P("items", "Vec<i32>")}, "", hir.Body(
		hir.For("el", hir.Method(hir.Ident("items"), "iter"), hir.Body(
			hir.Do(hir.CallName("println", hir.Fmt("{}", hir.Ident("el")))),
		)),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const $s0 = __mojes.seq(items);",
		"    for (let $i0 = 0; $i0 < $s0.length; $i0++) {",
		"        const el = $s0[$i0];",
		"        console.log(`${el}`);",
		"    }",
	))
}

func TestLowerForEnumerateES5(t *testing.T) {
	fn := hir.Fn("show", []hir.Param{hir.P("items", "Vec<i32>")}, "", hir.Body(
		hir.ForEnumerate("i", "el", hir.Ident("items"), hir.Body(
			hir.Do(hir.CallName("println", hir.Fmt("Element {}: {}", hir.Ident("i"), hir.Ident("el")))),
		)),
	))
	got, _ := lowerBody(t, fn, Options{Dialect: ES5})
	expectJS(t, got, lines(
		"    var $s0 = __mojes.seq(items);",
		"    for (var i = 0; i < $s0.length; i++) {",
		"        var el = $s0[i];",
		`        console.log("Element " + i + ": " + el);`,
		"    }",
	))
}

func TestLowerRangeLoop(t *testing.T) {
	fn := hir.Fn("count", []hir.Param{hir.P("n", "i32")}, "", hir.Body(
		hir.For("i", hir.Range(hir.Int(0), hir.Binary("+", hir.Ident("n"), hir.Int(1)), false), hir.Body(
			hir.Do(hir.CallName("alert", hir.Ident("i"))),
		)),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const $e0 = n + 1;",
		"    for (let i = 0; i < $e0; i++) {",
		"        alert(i);",
		"    }",
	))
}

func TestLowerSharedCell(t *testing.T) {
	fn := hir.Fn("alias", nil, "i32", hir.Value(
		hir.Method(hir.Method(hir.Ident("a"), "lock"), "unwrap"),
		hir.Let("a", hir.NewShared(hir.Int(0))),
		hir.Let("b", hir.Method(hir.Ident("a"), "clone")),
		hir.Do(hir.Assign("+=", hir.Unary("*", hir.Method(hir.Method(hir.Ident("b"), "lock"), "unwrap")), hir.Int(5))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const a = new Mutex(0);",
		"    const b = a;",
		"    b.inner += 5;",
		"    return a.lock();",
	))
}

func TestLowerGuardDeref(t *testing.T) {
	fn := hir.Fn("bump", nil, "i32", hir.Value(
		hir.Unary("*", hir.Ident("g")),
		hir.Let("cell", hir.NewShared(hir.Int(1))),
		hir.LetMut("g", hir.Method(hir.Method(hir.Ident("cell"), "lock"), "unwrap")),
		hir.Do(hir.Assign("=", hir.Unary("*", hir.Ident("g")), hir.Int(7))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const cell = new Mutex(1);",
		"    let g = cell.lock();",
		"    cell.inner = 7;",
		"    return cell.lock();",
	))
}

func TestLowerHostCatalog(t *testing.T) {
	fn := hir.Fn("page", nil, "", hir.Body(
		hir.Let("body", hir.Method(hir.Ident("document"), "body")),
		hir.IfLet(hir.Method(hir.Ident("document"), "getElementById", hir.Str("out")), "el", hir.Body(
			hir.Do(hir.Assign("=", hir.Field(hir.Ident("el"), "textContent"), hir.Str("hi"))),
		), nil),
		hir.Let("xhr", hir.Call(hir.Path("XMLHttpRequest", "new"))),
		hir.Do(hir.Method(hir.Ident("xhr"), "send_with_body", hir.Str("x"))),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const body = document.body;",
		`    const $m0 = document.getElementById("out");`,
		"    if ($m0 != null) {",
		"        const el = $m0;",
		`        el.textContent = "hi";`,
		"    }",
		"    const xhr = new XMLHttpRequest();",
		`    xhr.send("x");`,
	))
	if bag.Len() != 0 {
		t.Fatalf("host names must pass through silently: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
}

func TestLowerUnresolvedWarnsOnce(t *testing.T) {
	fn := hir.Fn("f", nil, "", hir.Body(
		hir.Do(hir.CallName("helper")),
		hir.Do(hir.CallName("helper")),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines("    helper();", "    helper();"))
	if bag.Len() != 1 {
		t.Fatalf("expected one warning, got %d", bag.Len())
	}
	d := expectCode(t, bag, diag.UnresIdentifier)
	if d.Severity != diag.SevWarning {
		t.Fatalf("unresolved names are warnings")
	}
}

func TestLowerValueMatch(t *testing.T) {
	fn := hir.Fn("state", []hir.Param{hir.P("xhr", "XmlHttpRequest")}, "", hir.Body(
		hir.MatchValue(hir.Field(hir.Ident("xhr"), "readyState"),
			hir.Case(hir.Path("xhr_ready_state", "DONE"), hir.Body(hir.Do(hir.CallName("alert", hir.Str("done"))))),
			hir.Default(hir.Body()),
		),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const $m0 = xhr.readyState;",
		"    if ($m0 === XMLHttpRequest.DONE) {",
		`        alert("done");`,
		"    } else {",
		"    }",
	))

	missing := hir.Fn("state", []hir.Param{hir.P("x", "i32")}, "", hir.Body(
		hir.MatchValue(hir.Ident("x"), hir.Case(hir.Int(1), hir.Body())),
	))
	_, bag := lowerBody(t, missing, Options{})
	expectCode(t, bag, diag.StructMissingArm)
}

func TestLowerRangeOutsideLoop(t *testing.T) {
	fn := hir.Fn("r", nil, "", hir.Body(hir.Let("r", hir.Range(hir.Int(0), hir.Int(3), false))))
	_, bag := lowerBody(t, fn, Options{})
	expectCode(t, bag, diag.StructRangeOutsideLoop)
}

func TestLowerConditionalBindingReusesName(t *testing.T) {
	x := hir.Ident("x")
	fn := hir.Fn("inc", []hir.Param{hir.P("opt", "Option<i32>")}, "i32", hir.Value(x,
		hir.LetMatch("x", hir.OptionMatch(hir.Ident("opt"), "x",
			hir.Value(hir.Binary("+", x, hir.Int(1))),
			hir.Value(hir.Int(0)))),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    let x;",
		"    if (opt != null) {",
		"        const x$1 = opt;",
		"        x = x$1 + 1;",
		"    } else {",
		"        x = 0;",
		"    }",
		"    return x;",
	))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}

	got, _ = lowerBody(t, fn, Options{Dialect: ES5})
	expectJS(t, got, lines(
		"    var x;",
		"    if (opt != null) {",
		"        var x$1 = opt;",
		"        x = x$1 + 1;",
		"    } else {",
		"        x = 0;",
		"    }",
		"    return x;",
	))
}

func TestLowerNestedNegation(t *testing.T) {
	x := hir.Ident("x")
	cases := []struct {
		body *hir.Expr
		want string
	}{
		{hir.Unary("-", hir.Unary("-", x)), "    return -(-x);"},
		{hir.Unary("-", hir.Int(-5)), "    return -(-5);"},
		{hir.Unary("-", x), "    return -x;"},
		{hir.Not(hir.Not(x)), "    return !!x;"},
		{hir.Binary("-", x, hir.Unary("-", x)), "    return x - -x;"},
	}
	for _, c := range cases {
		fn := hir.Fn("neg", []hir.Param{hir.P("x", "i32")}, "i32", hir.Value(c.body))
		got, _ := lowerBody(t, fn, Options{})
		expectJS(t, got, lines(c.want))
	}
}

func TestLowerRangeBoundReadOnce(t *testing.T) {
	m, c := hir.Ident("m"), hir.Ident("c")
	fn := hir.Fn("grow", []hir.Param{hir.P("n", "i32")}, "i32", hir.Value(c,
		hir.LetMut("m", hir.Ident("n")),
		hir.LetMut("c", hir.Int(0)),
		hir.For("i", hir.Range(hir.Int(0), m, false), hir.Body(
			hir.Do(hir.Assign("+=", m, hir.Int(1))),
			hir.Do(hir.Assign("+=", c, hir.Int(1))),
			hir.If(hir.Binary(">", c, hir.Int(100)), hir.Body(hir.Return(c)), nil),
		)),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    let m = n;",
		"    let c = 0;",
		"    const $e0 = m;",
		"    for (let i = 0; i < $e0; i++) {",
		"        m += 1;",
		"        c += 1;",
		"        if (c > 100) {",
		"            return c;",
		"        }",
		"    }",
		"    return c;",
	))

	fixed := hir.Fn("count", nil, "", hir.Body(
		hir.Let("k", hir.Int(3)),
		hir.For("i", hir.Range(hir.Int(0), hir.Ident("k"), true), hir.Body(
			hir.Do(hir.CallName("alert", hir.Ident("i"))),
		)),
	))
	got, _ = lowerBody(t, fixed, Options{})
	expectJS(t, got, lines(
		"    const k = 3;",
		"    for (let i = 0; i <= k; i++) {",
		"        alert(i);",
		"    }",
	))
}

func TestLowerEnumeratedRange(t *testing.T) {
	i, x := hir.Ident("i"), hir.Ident("x")
	fn := hir.Fn("walk", nil, "", hir.Body(
		hir.ForEnumerate("i", "x", hir.Method(hir.Range(hir.Int(10), hir.Int(13), false), "into_iter"), hir.Body(
			hir.Do(hir.CallName("alert", hir.Binary("*", i, x))),
		)),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    for (let x = 10, i = 0; x < 13; x++, i++) {",
		"        alert(i * x);",
		"    }",
	))
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}

	got, _ = lowerBody(t, fn, Options{Dialect: ES5})
	expectJS(t, got, lines(
		"    for (var x = 10, i = 0; x < 13; x++, i++) {",
		"        alert(i * x);",
		"    }",
	))
}

func TestLowerMutableLoopAndArmBindings(t *testing.T) {
	x, v := hir.Ident("x"), hir.Ident("v")
	fn := hir.Fn("bump", []hir.Param{hir.P("items", "Vec<i32>"), hir.P("opt", "Option<i32>")}, "", hir.Body(
		hir.ForMut("x", hir.Ident("items"), hir.Body(
			hir.Do(hir.Assign("+=", x, hir.Int(1))),
			hir.Do(hir.CallName("alert", x)),
		)),
		hir.MatchOptionMut(hir.Ident("opt"), "v",
			hir.Body(hir.Do(hir.Assign("*=", v, hir.Int(2))), hir.Do(hir.CallName("alert", v))),
			hir.Body(hir.Do(hir.CallName("alert", hir.Int(0)))),
		),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const $s0 = __mojes.seq(items);",
		"    for (let $i0 = 0; $i0 < $s0.length; $i0++) {",
		"        let x = $s0[$i0];",
		"        x += 1;",
		"        alert(x);",
		"    }",
		"    if (opt != null) {",
		"        let v = opt;",
		"        v *= 2;",
		"        alert(v);",
		"    } else {",
		"        alert(0);",
		"    }",
	))

	i := hir.Ident("i")
	counted := hir.Fn("skip", nil, "", hir.Body(
		hir.ForMut("i", hir.Range(hir.Int(0), hir.Int(2), false), hir.Body(
			hir.Do(hir.Assign("+=", i, hir.Int(10))),
			hir.Do(hir.CallName("alert", i)),
		)),
	))
	got, _ = lowerBody(t, counted, Options{})
	expectJS(t, got, lines(
		"    for (let $i0 = 0; $i0 < 2; $i0++) {",
		"        let i = $i0;",
		"        i += 10;",
		"        alert(i);",
		"    }",
	))
}

func TestLowerCloneCopiesPlainValues(t *testing.T) {
	v, w := hir.Ident("v"), hir.Ident("w")
	fn := hir.Fn("copied", []hir.Param{hir.P("v", "Vec<i32>")}, "usize", hir.Value(
		hir.Method(v, "len"),
		hir.LetMut("w", hir.Method(v, "clone")),
		hir.Do(hir.Method(w, "push", hir.Int(9))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    let w = __mojes.clone(v);",
		"    w.push(9);",
		"    return v.length;",
	))
}

func TestLowerConstAndLetES2015(t *testing.T) {
	total, late := hir.Ident("total"), hir.Ident("late")
	fn := hir.Fn("tally", nil, "i32", hir.Value(hir.Binary("+", total, late),
		hir.Let("step", hir.Int(2)),
		hir.LetMut("total", hir.Int(0)),
		hir.Do(hir.Assign("+=", total, hir.Ident("step"))),
		hir.Let("late", nil),
		hir.Do(hir.Assign("=", late, hir.Int(1))),
	))
	got, _ := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    const step = 2;",
		"    let total = 0;",
		"    total += step;",
		"    let late;",
		"    late = 1;",
		"    return total + late;",
	))
}

func TestLowerSiblingBlocksReuseNamesES2015(t *testing.T) {
	tv := hir.Ident("t")
	fn := hir.Fn("twice", nil, "", hir.Body(
		hir.If(hir.Bool(true), hir.Body(hir.Let("t", hir.Int(1)), hir.Do(hir.CallName("alert", tv))), nil),
		hir.If(hir.Bool(false), hir.Body(hir.Let("t", hir.Int(2)), hir.Do(hir.CallName("alert", tv))), nil),
	))
	got, bag := lowerBody(t, fn, Options{})
	expectJS(t, got, lines(
		"    if (true) {",
		"        const t = 1;",
		"        alert(t);",
		"    }",
		"    if (false) {",
		"        const t = 2;",
		"        alert(t);",
		"    }",
	))
	if bag.Len() != 0 {
		t.Fatalf("sibling blocks are not duplicates: %s", diag.FormatShortDiagnostics(bag.Items(), false))
	}

	// var is function scoped, the second block needs its own name
	got, _ = lowerBody(t, fn, Options{Dialect: ES5})
	expectJS(t, got, lines(
		"    if (true) {",
		"        var t = 1;",
		"        alert(t);",
		"    }",
		"    if (false) {",
		"        var t$1 = 2;",
		"        alert(t$1);",
		"    }",
	))
}

func TestNumberLiteral(t *testing.T) {
	cases := map[string]string{
		"1_000u32": "1000",
		"0xffu8":   "0xff",
		"2.5f64":   "2.5",
		"0b101":    "5",
		"0o17":     "15",
		"1.":       "1.0",
		"42":       "42",
	}
	for in, want := range cases {
		if got := numberLiteral(in); got != want {
			t.Errorf("numberLiteral(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteJS(t *testing.T) {
	got := quoteJS("a\"b\n</script>")
	want := `"a\"b\n<\/script>"`
	if got != want {
		t.Fatalf("quoteJS = %s, want %s", got, want)
	}
	if got := escapeTemplate("cost ${x} `q`"); got != "cost \\${x} \\`q\\`" {
		t.Fatalf("escapeTemplate = %s", got)
	}
}

func TestParseOptions(t *testing.T) {
	if d, err := ParseDialect("ES5"); err != nil || d != ES5 {
		t.Fatalf("ParseDialect(ES5) = %v, %v", d, err)
	}
	if _, err := ParseDialect("es2099"); err == nil {
		t.Fatalf("expected an error for an unknown dialect")
	}
	if p, err := ParseDuplicatePolicy(""); err != nil || p != DupWarn {
		t.Fatalf("default policy must be warn")
	}
}
