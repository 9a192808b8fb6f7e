package lower

import (
	"strings"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/naming"
	"mojes/internal/symbols"
)

// captures validates the capture list of a closure and returns the emitted
// names of the captured bindings.
func (l *Lowerer) captures(e *hir.Expr, data hir.ClosureData) []string {
	out := make([]string, 0, len(data.Captures))
	seen := make(map[string]bool, len(data.Captures))
	for _, name := range data.Captures {
		name = naming.Normalize(name)
		if id, ok := l.table.Lookup(name); ok {
			sym := l.table.Symbol(id)
			sym.Flags |= symbols.SymbolFlagCaptured
			if !seen[sym.JSName] {
				seen[sym.JSName] = true
				out = append(out, sym.JSName)
			}
			continue
		}
		if res := l.policy.Resolve(nil, name, naming.PosIdent); res.Outcome != naming.Unresolved {
			// host globals and registered functions are not bindings
			continue
		}
		l.errorf(diag.StructUndeclaredCapture, e.Pos, "closure captures %q, which is not declared in an enclosing block", name).Emit()
	}
	return out
}

// enterFunction switches lowering into a nested JS function written to a
// sub-writer; the returned func restores the outer state.
func (l *Lowerer) enterFunction(kind symbols.ScopeKind, inValue int) (*Writer, func()) {
	outer, outerValue := l.w, l.inValue
	sub := outer.Sub()
	l.w, l.inValue = sub, inValue
	l.mangler.EnterFunction()
	l.table.Enter(kind)
	return sub, func() {
		l.table.Leave()
		l.mangler.LeaveFunction()
		l.w, l.inValue = outer, outerValue
	}
}

func (l *Lowerer) closure(e *hir.Expr, data hir.ClosureData) string {
	captured := l.captures(e, data)
	snapshot := data.Move && len(captured) > 0
	es5 := l.opts.Dialect == ES5
	caps := strings.Join(captured, ", ")

	w, leave := l.enterFunction(symbols.ScopeClosure, 0)
	defer leave()

	params := make([]string, 0, len(data.Params))
	seen := make(map[string]bool, len(data.Params))
	for _, p := range data.Params {
		name := naming.Normalize(p)
		if seen[name] && name != "_" {
			l.errorf(diag.StructDuplicateParam, e.Pos, "closure parameter %q is declared twice", name).Emit()
		}
		seen[name] = true
		js, mangled := l.mangler.Assign(name, l.table.Visible())
		l.table.Declare(symbols.Symbol{Name: name, JSName: js, Kind: symbols.SymbolParam, Flags: mangledFlag(mangled), Pos: e.Pos})
		params = append(params, js)
	}
	list := strings.Join(params, ", ")

	if snapshot {
		if es5 {
			w.Line("(function (" + caps + ") {")
			w.IndentPush()
			w.WriteString("return ")
		} else {
			w.WriteString("((" + caps + ") => ")
		}
	}
	if es5 {
		w.WriteString("function (" + list + ") {")
	} else {
		w.WriteString("(" + list + ") => {")
	}
	if data.Body.Empty() {
		w.WriteString("}")
	} else {
		w.Newline()
		w.IndentPush()
		l.block(data.Body, tail{kind: tailReturn})
		w.IndentPop()
		w.WriteString("}")
	}
	if snapshot {
		if es5 {
			w.Line(";")
			w.IndentPop()
			w.WriteString("})(" + caps + ")")
		} else {
			w.WriteString(")(" + caps + ")")
		}
	}
	return w.String()
}

// optionValue lowers an option match used as a value to an immediately
// invoked function whose arms return their values.
func (l *Lowerer) optionValue(e *hir.Expr, data hir.OptionMatchData) string {
	w, leave := l.enterFunction(symbols.ScopeClosure, l.inValue+1)
	defer leave()
	if l.opts.Dialect == ES5 {
		w.Line("(function () {")
	} else {
		w.Line("(() => {")
	}
	w.IndentPush()
	l.optionMatch(e, data, tail{kind: tailReturn})
	w.IndentPop()
	w.WriteString("})()")
	return w.String()
}
