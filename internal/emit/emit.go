// Package emit turns one annotated function into a JS function declaration.
package emit

import (
	"strings"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/lower"
	"mojes/internal/naming"
	"mojes/internal/source"
)

// Fragment is the emitted text of one annotated function.
type Fragment struct {
	Name string `msgpack:"name"`
	Text string `msgpack:"text"`
	// Params are the emitted parameter names; the page renderer adds a
	// button for functions without parameters.
	Params []string `msgpack:"params"`
}

// Function lowers fn. Unresolved names only produce warnings and the
// fragment is still returned; any structural error omits the fragment and
// ok is false.
func Function(fn *hir.Func, policy *naming.Policy, opts lower.Options, rep diag.Reporter) (frag Fragment, ok bool) {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if fn == nil {
		diag.ReportError(rep, diag.StructMalformed, "", source.Pos{}, "nil function").Emit()
		return Fragment{}, false
	}
	if policy == nil {
		policy = naming.NewPolicy(nil, nil, nil)
	}
	name := naming.Normalize(fn.Name)
	if !checkName(name, fn, policy, rep) {
		return Fragment{}, false
	}

	l := lower.New(name, policy.WithFunction(name), rep, opts)
	params := make([]string, 0, len(fn.Params))
	failed := false
	for _, p := range fn.Params {
		js, ok := l.DeclareParam(p)
		if !ok {
			failed = true
			pos := p.Pos
			if !pos.IsValid() {
				pos = fn.Pos
			}
			diag.ReportError(rep, diag.StructDuplicateParam, name, pos, "parameter \""+p.Name+"\" is declared twice").Emit()
			continue
		}
		params = append(params, js)
	}

	w := lower.NewWriter()
	w.Line("function " + name + "(" + strings.Join(params, ", ") + ") {")
	w.IndentPush()
	l.FunctionBody(w, fn.Body, fn.ReturnsValue())
	w.IndentPop()
	w.WriteString("}")

	if failed || l.Failed() {
		return Fragment{}, false
	}
	return Fragment{Name: name, Text: w.String(), Params: params}, true
}

func checkName(name string, fn *hir.Func, policy *naming.Policy, rep diag.Reporter) bool {
	var msg string
	switch {
	case !naming.IsIdentifier(name):
		msg = "function name \"" + fn.Name + "\" is not a valid identifier"
	case naming.IsReserved(name):
		msg = "function name \"" + name + "\" is a reserved word"
	default:
		if _, host := policy.Catalog().Global(name); host {
			msg = "function name \"" + name + "\" shadows a host API global"
		}
	}
	if msg == "" {
		return true
	}
	diag.ReportError(rep, diag.StructBadFunctionName, fn.Name, fn.Pos, msg).Emit()
	return false
}
