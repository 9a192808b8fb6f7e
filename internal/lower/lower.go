// Package lower turns the IR of one annotated function into JavaScript
// statements. Expressions lower to strings; statements write lines into a
// Writer. Multi-line expressions (closures, matches used as values) are built
// in a sub-writer positioned at the current indentation and embedded as is.
package lower

import (
	"fmt"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/hostapi"
	"mojes/internal/naming"
	"mojes/internal/source"
	"mojes/internal/symbols"
)

type tailKind uint8

const (
	tailDiscard tailKind = iota
	tailReturn
	tailAssign
)

// tail says what happens to the value of a block.
type tail struct {
	kind   tailKind
	target string // tailAssign only
}

var discard = tail{kind: tailDiscard}

// valueInfo is what the lowering knows about the runtime value of an expression.
type valueInfo struct {
	kind   symbols.SymbolKind
	handle string
	cell   symbols.SymbolID
}

func plainValue() valueInfo { return valueInfo{kind: symbols.SymbolValue} }

func hostValue(handle string) valueInfo {
	if handle == "" {
		return plainValue()
	}
	return valueInfo{kind: symbols.SymbolHostHandle, handle: handle}
}

// Lowerer lowers the body of one annotated function.
type Lowerer struct {
	opts    Options
	fn      string
	policy  *naming.Policy
	catalog *hostapi.Catalog
	table   *symbols.Table
	mangler *naming.Mangler
	rep     diag.Reporter
	w       *Writer

	failed   bool
	inValue  int // depth of option matches lowered as values
	lastPos  source.Pos
	reported map[string]bool
}

// New creates a lowerer for function fn. The function scope is open and
// ready for DeclareParam.
func New(fn string, policy *naming.Policy, rep diag.Reporter, opts Options) *Lowerer {
	if policy == nil {
		policy = naming.NewPolicy(nil, nil, nil)
	}
	if rep == nil {
		rep = diag.NopReporter{}
	}
	l := &Lowerer{
		opts:     opts,
		fn:       fn,
		policy:   policy,
		catalog:  policy.Catalog(),
		table:    symbols.NewTable(),
		mangler:  naming.NewMangler(policy, opts.Dialect == ES5),
		rep:      rep,
		w:        NewWriter(),
		reported: make(map[string]bool),
	}
	l.table.Enter(symbols.ScopeFunction)
	return l
}

// Failed reports whether a structural error was reported.
func (l *Lowerer) Failed() bool { return l.failed }

// Table exposes the symbol table, mostly for tests and dumps.
func (l *Lowerer) Table() *symbols.Table { return l.table }

// DeclareParam binds a function parameter and returns its emitted name.
// ok is false when the name is already a parameter of the function.
func (l *Lowerer) DeclareParam(p hir.Param) (js string, ok bool) {
	name := naming.Normalize(p.Name)
	if name != "_" {
		if _, dup := l.table.LookupLocal(name); dup {
			return "", false
		}
	}
	js, mangled := l.mangler.Assign(name, l.table.Visible())
	l.table.Declare(symbols.Symbol{
		Name:   name,
		JSName: js,
		Kind:   symbols.SymbolParam,
		Flags:  mangledFlag(mangled),
		Pos:    p.Pos,
	})
	return js, true
}

// FunctionBody writes the statements of body into w, one indentation level
// is expected to be pushed by the caller. With returnsValue the block value
// is returned.
func (l *Lowerer) FunctionBody(w *Writer, body *hir.Block, returnsValue bool) {
	l.w = w
	mode := discard
	if returnsValue {
		mode = tail{kind: tailReturn}
	}
	l.block(body, mode)
}

func mangledFlag(mangled bool) symbols.SymbolFlags {
	if mangled {
		return symbols.SymbolFlagMangled
	}
	return 0
}

func (l *Lowerer) at(pos source.Pos) source.Pos {
	if pos.IsValid() {
		return pos
	}
	return l.lastPos
}

func (l *Lowerer) errorf(code diag.Code, pos source.Pos, format string, args ...interface{}) *diag.ReportBuilder {
	l.failed = true
	return diag.ReportError(l.rep, code, l.fn, l.at(pos), fmt.Sprintf(format, args...))
}

func (l *Lowerer) warnf(code diag.Code, pos source.Pos, format string, args ...interface{}) *diag.ReportBuilder {
	return diag.ReportWarning(l.rep, code, l.fn, l.at(pos), fmt.Sprintf(format, args...))
}

// unresolved warns once per name and function.
func (l *Lowerer) unresolved(pos source.Pos, name string, later bool) {
	if l.reported[name] {
		return
	}
	l.reported[name] = true
	if later {
		l.warnf(diag.UnresForwardRef, pos, "%q is registered later in the batch; the call resolves at run time", name).Emit()
		return
	}
	l.warnf(diag.UnresIdentifier, pos, "%q is not a local binding, a registered function or a host API name; emitted verbatim", name).Emit()
}

// reserve checks a new binding against the duplicate policy and picks its
// emitted name without declaring it.
func (l *Lowerer) reserve(name string, pos source.Pos) (string, bool) {
	name = naming.Normalize(name)
	if prevID, live := l.table.LookupLocal(name); live && name != "_" {
		prev := l.table.Symbol(prevID)
		switch l.opts.Duplicates {
		case DupWarn:
			l.warnf(diag.DupBinding, pos, "binding %q is redeclared while live in the same block; the later declaration wins", name).
				WithNote(prev.Pos, "previous declaration").
				Emit()
		case DupError:
			l.errorf(diag.StructDuplicateBinding, pos, "binding %q is redeclared while live in the same block", name).
				WithNote(prev.Pos, "previous declaration").
				Emit()
		}
	}
	return l.mangler.Assign(name, l.table.Visible())
}

// declare records a binding whose emitted name was chosen by reserve.
func (l *Lowerer) declare(name, js string, mangled bool, info valueInfo, mutable bool, pos source.Pos) symbols.SymbolID {
	kind := info.kind
	if kind == symbols.SymbolInvalid || kind == symbols.SymbolParam {
		kind = symbols.SymbolValue
	}
	flags := mangledFlag(mangled)
	if mutable {
		flags |= symbols.SymbolFlagMutable
	}
	id, _ := l.table.Declare(symbols.Symbol{
		Name:   naming.Normalize(name),
		JSName: js,
		Kind:   kind,
		Flags:  flags,
		Handle: info.handle,
		Pos:    pos,
		Cell:   info.cell,
	})
	return id
}

func (l *Lowerer) bind(name string, info valueInfo, mutable bool, pos source.Pos) string {
	js, mangled := l.reserve(name, pos)
	l.declare(name, js, mangled, info, mutable, pos)
	return js
}

func (l *Lowerer) constKeyword() string {
	return l.opts.declKeyword(false, true)
}

func (l *Lowerer) letKeyword() string {
	return l.opts.declKeyword(true, false)
}
