package lower

import (
	"strings"

	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/hostapi"
	"mojes/internal/naming"
	"mojes/internal/shim"
	"mojes/internal/symbols"
)

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true, "&": true, "|": true, "^": true, "<<": true, ">>": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// Expr lowers one expression; exported for the dump command and tests.
func (l *Lowerer) Expr(e *hir.Expr) string {
	return l.expr(e)
}

func (l *Lowerer) expr(e *hir.Expr) string {
	if e == nil {
		return "undefined"
	}
	if e.Pos.IsValid() {
		l.lastPos = e.Pos
	}
	switch data := e.Data.(type) {
	case hir.LiteralData:
		return literal(data)
	case hir.IdentData:
		return l.ident(e, data.Name, naming.PosIdent)
	case hir.PathData:
		return l.path(e, data.Segments)
	case hir.UnaryData:
		return l.unary(e, data)
	case hir.BinaryData:
		if assignOps[data.Op] {
			return l.assign(e, data)
		}
		if !binaryOps[data.Op] {
			l.errorf(diag.StructMalformed, e.Pos, "unsupported binary operator %q", data.Op).Emit()
			return "undefined"
		}
		return l.operand(data.Left) + " " + data.Op + " " + l.operand(data.Right)
	case hir.CallData:
		return l.call(e, data)
	case hir.MethodCallData:
		return l.methodCall(e, data)
	case hir.FieldData:
		return l.field(data)
	case hir.IndexData:
		_, recv := l.receiver(data.Receiver)
		return recv + "[" + l.expr(data.Index) + "]"
	case hir.FormatData:
		return l.format(e, data)
	case hir.ClosureData:
		return l.closure(e, data)
	case hir.OptionMatchData:
		return l.optionValue(e, data)
	case hir.NewSharedData:
		return "new " + shim.CellConstructor + "(" + l.expr(data.Inner) + ")"
	case hir.RangeData:
		l.errorf(diag.StructRangeOutsideLoop, e.Pos, "range expression outside of a for loop").Emit()
		return "undefined"
	case hir.CastData:
		return l.expr(data.Value)
	}
	l.errorf(diag.StructMalformed, e.Pos, "unsupported expression %s", e.Kind).Emit()
	return "undefined"
}

// stripErased removes wrappers that lower to their operand.
func stripErased(e *hir.Expr) *hir.Expr {
	for e != nil {
		switch data := e.Data.(type) {
		case hir.CastData:
			e = data.Value
		case hir.UnaryData:
			if data.Op != "&" && data.Op != "&mut" && data.Op != "*" {
				return e
			}
			e = data.Operand
		default:
			return e
		}
	}
	return e
}

// compound reports whether the lowered form of e needs parentheses as a
// binary operand or, with receiver set, before a member access.
func (l *Lowerer) compound(e *hir.Expr, receiver bool) bool {
	e = stripErased(e)
	if e == nil {
		return false
	}
	switch data := e.Data.(type) {
	case hir.BinaryData, hir.ClosureData:
		return true
	case hir.FormatData:
		return l.opts.Dialect == ES5 && len(data.Args) > 0
	case hir.UnaryData:
		return receiver
	case hir.LiteralData:
		return receiver && (data.Kind == hir.LiteralInt || data.Kind == hir.LiteralFloat)
	}
	return false
}

func (l *Lowerer) operand(e *hir.Expr) string {
	s := l.expr(e)
	if l.compound(e, false) {
		return "(" + s + ")"
	}
	return s
}

// receiver lowers e as the receiver of a member access; it returns the
// plain form and the form safe to put before a dot.
func (l *Lowerer) receiver(e *hir.Expr) (raw, wrapped string) {
	if e != nil {
		if data, ok := e.Data.(hir.IdentData); ok {
			raw = l.ident(e, data.Name, naming.PosReceiver)
			return raw, raw
		}
	}
	raw = l.expr(e)
	if l.compound(e, true) {
		return raw, "(" + raw + ")"
	}
	return raw, raw
}

func (l *Lowerer) args(args []*hir.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = l.expr(a)
	}
	return strings.Join(parts, ", ")
}

func (l *Lowerer) ident(e *hir.Expr, name string, pos naming.Position) string {
	res := l.policy.Resolve(l.table, name, pos)
	if res.Outcome != naming.Unresolved {
		return res.JS
	}
	if res.JS == shim.OptionNone {
		return "null"
	}
	l.unresolved(e.Pos, res.JS, res.Later)
	return res.JS
}

func (l *Lowerer) path(e *hir.Expr, segments []string) string {
	if entry, ok := l.catalog.Path(segments); ok {
		return entry.Emit()
	}
	if len(segments) == 1 {
		return l.ident(e, segments[0], naming.PosIdent)
	}
	js := strings.Join(segments, ".")
	l.unresolved(e.Pos, strings.Join(segments, "::"), false)
	return js
}

// guardCell returns the emitted name of the cell a guard binding was
// acquired from.
func (l *Lowerer) guardCell(e *hir.Expr) (string, bool) {
	if e == nil {
		return "", false
	}
	data, ok := e.Data.(hir.IdentData)
	if !ok {
		return "", false
	}
	id, ok := l.table.Lookup(naming.Normalize(data.Name))
	if !ok {
		return "", false
	}
	sym := l.table.Symbol(id)
	if !sym.Cell.IsValid() {
		return "", false
	}
	return l.table.Symbol(sym.Cell).JSName, true
}

// acquiredCell matches cell.lock() followed by erased calls such as unwrap
// and returns the cell expression.
func acquiredCell(e *hir.Expr) (*hir.Expr, bool) {
	for e != nil {
		data, ok := e.Data.(hir.MethodCallData)
		if !ok {
			return nil, false
		}
		if data.Method == shim.CellAcquire || data.Method == shim.CellAcquireAlias {
			return data.Receiver, len(data.Args) == 0
		}
		m, ok := shim.LookupMethod(data.Method, len(data.Args))
		if !ok || m.Rewrite != shim.RewriteErase {
			return nil, false
		}
		e = data.Receiver
	}
	return nil, false
}

func (l *Lowerer) unary(e *hir.Expr, data hir.UnaryData) string {
	switch data.Op {
	case "*":
		if cell, ok := l.guardCell(data.Operand); ok {
			return cell + "." + shim.CellAcquire + "()"
		}
		return l.expr(data.Operand)
	case "&", "&mut":
		return l.expr(data.Operand)
	case "!", "-":
		operand := l.operand(data.Operand)
		// -(-x) must not become the decrement --x
		if data.Op == "-" && (strings.HasPrefix(operand, "-") || strings.HasPrefix(operand, "+")) {
			operand = "(" + operand + ")"
		}
		return data.Op + operand
	}
	l.errorf(diag.StructMalformed, e.Pos, "unsupported unary operator %q", data.Op).Emit()
	return "undefined"
}

func (l *Lowerer) assign(e *hir.Expr, data hir.BinaryData) string {
	target, ok := l.assignTarget(data.Left)
	if !ok {
		l.errorf(diag.StructBadAssignTarget, e.Pos, "cannot assign to %s", hir.ExprString(data.Left)).Emit()
		return "undefined"
	}
	return target + " " + data.Op + " " + l.expr(data.Right)
}

func (l *Lowerer) assignTarget(t *hir.Expr) (string, bool) {
	if t == nil {
		return "", false
	}
	switch data := t.Data.(type) {
	case hir.IdentData:
		return l.ident(t, data.Name, naming.PosIdent), true
	case hir.FieldData, hir.IndexData:
		return l.expr(t), true
	case hir.UnaryData:
		if data.Op != "*" && data.Op != "&mut" {
			return "", false
		}
		if cell, ok := l.guardCell(data.Operand); ok {
			return cell + "." + shim.CellField, true
		}
		if inner, ok := acquiredCell(data.Operand); ok {
			_, recv := l.receiver(inner)
			return recv + "." + shim.CellField, true
		}
		return l.assignTarget(data.Operand)
	case hir.MethodCallData:
		if inner, ok := acquiredCell(t); ok {
			_, recv := l.receiver(inner)
			return recv + "." + shim.CellField, true
		}
	}
	return "", false
}

func (l *Lowerer) isLocal(name string) bool {
	_, ok := l.table.Lookup(naming.Normalize(name))
	return ok
}

func (l *Lowerer) call(e *hir.Expr, data hir.CallData) string {
	switch callee := data.Callee.Data.(type) {
	case hir.IdentData:
		if naming.Normalize(callee.Name) == shim.OptionSome && !l.isLocal(callee.Name) {
			if len(data.Args) != 1 {
				l.errorf(diag.StructMalformed, e.Pos, "Some takes one argument, got %d", len(data.Args)).Emit()
				return "undefined"
			}
			return l.expr(data.Args[0])
		}
		fn := l.ident(data.Callee, callee.Name, naming.PosCallee)
		return fn + "(" + l.args(data.Args) + ")"
	case hir.PathData:
		if entry, ok := l.catalog.Path(callee.Segments); ok {
			if entry.Kind == hostapi.KindConstructor {
				return "new " + entry.Emit() + "(" + l.args(data.Args) + ")"
			}
			return entry.Emit() + "(" + l.args(data.Args) + ")"
		}
		fn := l.path(data.Callee, callee.Segments)
		return fn + "(" + l.args(data.Args) + ")"
	}
	_, fn := l.receiver(data.Callee)
	return fn + "(" + l.args(data.Args) + ")"
}

func (l *Lowerer) methodCall(e *hir.Expr, data hir.MethodCallData) string {
	info := l.infoOf(data.Receiver)
	raw, recv := l.receiver(data.Receiver)
	if info.kind == symbols.SymbolHostHandle {
		if entry, ok := l.catalog.Member(info.handle, data.Method); ok {
			return l.member(recv, entry, data.Args)
		}
	}
	if m, ok := shim.LookupMethod(data.Method, len(data.Args)); ok {
		switch m.Rewrite {
		case shim.RewriteErase:
			return recv
		case shim.RewriteAlias:
			if info.kind == symbols.SymbolShared || info.kind == symbols.SymbolHostHandle {
				return recv
			}
			return shim.CloneHelper + "(" + raw + ")"
		case shim.RewriteAcquire:
			return recv + "." + shim.CellAcquire + "()"
		case shim.RewriteWrap:
			return m.JS + "(" + raw + ")"
		case shim.RewriteProperty:
			return recv + "." + m.JS
		case shim.RewriteRename:
			return recv + "." + m.JS + "(" + l.args(data.Args) + ")"
		case shim.RewriteNullTest:
			return "(" + raw + " " + m.JS + " null)"
		case shim.RewriteEmptyTest:
			return "(" + recv + ".length === 0)"
		}
	}
	if info.kind == symbols.SymbolHostHandle {
		entry, _ := l.policy.Member(info.handle, data.Method)
		return l.member(recv, entry, data.Args)
	}
	if data.Method == "" {
		l.errorf(diag.StructMalformed, e.Pos, "method call without a method name").Emit()
		return "undefined"
	}
	return recv + "." + data.Method + "(" + l.args(data.Args) + ")"
}

func (l *Lowerer) member(recv string, entry hostapi.Entry, args []*hir.Expr) string {
	if entry.Kind == hostapi.KindProperty && len(args) == 0 {
		return recv + "." + entry.Emit()
	}
	return recv + "." + entry.Emit() + "(" + l.args(args) + ")"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (l *Lowerer) field(data hir.FieldData) string {
	info := l.infoOf(data.Receiver)
	_, recv := l.receiver(data.Receiver)
	if isDigits(data.Field) {
		return recv + "[" + data.Field + "]"
	}
	if info.kind == symbols.SymbolHostHandle {
		if entry, ok := l.catalog.Member(info.handle, data.Field); ok {
			return recv + "." + entry.Emit()
		}
	}
	return recv + "." + data.Field
}

func (l *Lowerer) format(e *hir.Expr, data hir.FormatData) string {
	if len(data.Parts) != len(data.Args)+1 {
		l.errorf(diag.StructBadTemplate, e.Pos, "template has %d literal parts for %d arguments", len(data.Parts), len(data.Args)).Emit()
		return `""`
	}
	if len(data.Args) == 0 {
		return quoteJS(data.Parts[0])
	}
	if l.opts.Dialect == ES5 {
		pieces := make([]string, 0, 2*len(data.Args)+1)
		if data.Parts[0] == "" {
			pieces = append(pieces, `""`)
		} else {
			pieces = append(pieces, quoteJS(data.Parts[0]))
		}
		for i, a := range data.Args {
			pieces = append(pieces, l.operand(a))
			if part := data.Parts[i+1]; part != "" {
				pieces = append(pieces, quoteJS(part))
			}
		}
		return strings.Join(pieces, " + ")
	}
	var b strings.Builder
	b.WriteByte('`')
	b.WriteString(escapeTemplate(data.Parts[0]))
	for i, a := range data.Args {
		b.WriteString("${")
		b.WriteString(l.expr(a))
		b.WriteByte('}')
		b.WriteString(escapeTemplate(data.Parts[i+1]))
	}
	b.WriteByte('`')
	return b.String()
}

// infoOf classifies the value of e without emitting anything.
func (l *Lowerer) infoOf(e *hir.Expr) valueInfo {
	if e == nil {
		return plainValue()
	}
	switch data := e.Data.(type) {
	case hir.IdentData:
		name := naming.Normalize(data.Name)
		if id, ok := l.table.Lookup(name); ok {
			sym := l.table.Symbol(id)
			return valueInfo{kind: sym.Kind, handle: sym.Handle, cell: sym.Cell}
		}
		if entry, ok := l.catalog.Global(name); ok && entry.Kind == hostapi.KindObject {
			return hostValue(entry.Returns)
		}
	case hir.NewSharedData:
		inner := l.infoOf(data.Inner)
		return valueInfo{kind: symbols.SymbolShared, handle: inner.handle}
	case hir.ClosureData:
		return valueInfo{kind: symbols.SymbolClosure}
	case hir.CastData:
		return l.infoOf(data.Value)
	case hir.UnaryData:
		if data.Op == "&" || data.Op == "&mut" || data.Op == "*" {
			return l.infoOf(data.Operand)
		}
	case hir.MethodCallData:
		return l.methodInfo(data)
	case hir.CallData:
		switch callee := data.Callee.Data.(type) {
		case hir.IdentData:
			if callee.Name == shim.OptionSome && len(data.Args) == 1 && !l.isLocal(callee.Name) {
				return l.infoOf(data.Args[0])
			}
			if entry, ok := l.catalog.Global(callee.Name); ok && !l.isLocal(callee.Name) {
				return hostValue(entry.Returns)
			}
		case hir.PathData:
			if entry, ok := l.catalog.Path(callee.Segments); ok {
				return hostValue(entry.Returns)
			}
		}
	case hir.FieldData:
		recv := l.infoOf(data.Receiver)
		if recv.kind == symbols.SymbolHostHandle {
			if entry, ok := l.catalog.Member(recv.handle, data.Field); ok {
				return hostValue(entry.Returns)
			}
		}
	}
	return plainValue()
}

func (l *Lowerer) methodInfo(data hir.MethodCallData) valueInfo {
	recv := l.infoOf(data.Receiver)
	if recv.kind == symbols.SymbolHostHandle {
		if entry, ok := l.catalog.Member(recv.handle, data.Method); ok {
			return hostValue(entry.Returns)
		}
	}
	m, ok := shim.LookupMethod(data.Method, len(data.Args))
	if !ok {
		return plainValue()
	}
	switch m.Rewrite {
	case shim.RewriteErase, shim.RewriteAlias:
		return recv
	case shim.RewriteAcquire:
		if recv.kind != symbols.SymbolShared {
			return plainValue()
		}
		out := hostValue(recv.handle)
		if id, ok := data.Receiver.Data.(hir.IdentData); ok {
			out.cell, _ = l.table.Lookup(naming.Normalize(id.Name))
		}
		return out
	}
	return plainValue()
}
