package lower

import (
	"mojes/internal/diag"
	"mojes/internal/hir"
	"mojes/internal/hostapi"
	"mojes/internal/naming"
	"mojes/internal/shim"
	"mojes/internal/source"
	"mojes/internal/symbols"
)

func isUnit(e *hir.Expr) bool {
	if e == nil {
		return true
	}
	data, ok := e.Data.(hir.LiteralData)
	return ok && data.Kind == hir.LiteralUnit
}

func isIdent(e *hir.Expr) bool {
	if e == nil {
		return false
	}
	_, ok := stripErased(e).Data.(hir.IdentData)
	return ok
}

func isSimple(e *hir.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Data.(type) {
	case hir.IdentData, hir.LiteralData:
		return true
	}
	return false
}

// block lowers b in a fresh block scope.
func (l *Lowerer) block(b *hir.Block, mode tail) {
	l.table.Enter(symbols.ScopeBlock)
	l.blockContents(b, mode)
	l.table.Leave()
}

func (l *Lowerer) blockContents(b *hir.Block, mode tail) {
	if b == nil {
		l.tail(nil, mode)
		return
	}
	for i, s := range b.Stmts {
		last := i == len(b.Stmts)-1 && b.Tail == nil
		if last && mode.kind != tailDiscard && s != nil && s.Kind == hir.StmtIfMatch {
			// a trailing if or match is the value of the block
			l.stmtIn(s, mode)
			return
		}
		l.stmtIn(s, discard)
		if last && s != nil && s.Kind == hir.StmtReturn {
			return
		}
	}
	l.tail(b.Tail, mode)
}

func (l *Lowerer) tail(e *hir.Expr, mode tail) {
	if e == nil {
		if mode.kind == tailAssign {
			l.w.Line(mode.target + " = undefined;")
		}
		return
	}
	if data, ok := e.Data.(hir.OptionMatchData); ok {
		l.optionMatch(e, data, mode)
		return
	}
	switch mode.kind {
	case tailReturn:
		if isUnit(e) {
			return
		}
		l.w.Line("return " + l.expr(e) + ";")
	case tailAssign:
		l.w.Line(mode.target + " = " + l.expr(e) + ";")
	default:
		if !isUnit(e) {
			l.w.Line(l.expr(e) + ";")
		}
	}
}

func (l *Lowerer) stmtIn(s *hir.Stmt, mode tail) {
	if s == nil {
		return
	}
	if s.Pos.IsValid() {
		l.lastPos = s.Pos
	}
	switch data := s.Data.(type) {
	case hir.LetData:
		l.let(s, data)
	case hir.ExprStmtData:
		if om, ok := exprOptionMatch(data.Expr); ok {
			l.optionMatch(data.Expr, om, mode)
			return
		}
		if !isUnit(data.Expr) {
			l.w.Line(l.expr(data.Expr) + ";")
		}
	case hir.WhileData:
		l.w.Line("while (" + l.expr(data.Cond) + ") {")
		l.w.IndentPush()
		l.block(data.Body, discard)
		l.w.IndentPop()
		l.w.Line("}")
	case hir.ForEachData:
		l.forEach(s, data)
	case hir.IfMatchData:
		l.ifMatch(s, data, mode)
	case hir.ReturnData:
		l.ret(s, data)
	default:
		l.errorf(diag.StructMalformed, s.Pos, "unsupported statement %s", s.Kind).Emit()
	}
}

func exprOptionMatch(e *hir.Expr) (hir.OptionMatchData, bool) {
	if e == nil {
		return hir.OptionMatchData{}, false
	}
	data, ok := e.Data.(hir.OptionMatchData)
	return data, ok
}

func (l *Lowerer) let(s *hir.Stmt, data hir.LetData) {
	if data.IsConditionalValue {
		om, ok := exprOptionMatch(data.Value)
		if !ok {
			l.errorf(diag.StructMalformed, s.Pos, "conditional binding %q has no option match", data.Name).Emit()
			return
		}
		// the name is taken before the arms so they cannot reuse it
		js, mangled := l.reserve(data.Name, s.Pos)
		l.w.Line(l.letKeyword() + " " + js + ";")
		l.mangler.Reserve(js)
		l.optionMatch(data.Value, om, tail{kind: tailAssign, target: js})
		l.mangler.Release(js)
		l.declare(data.Name, js, mangled, plainValue(), data.Mutable, s.Pos)
		return
	}
	if naming.Normalize(data.Name) == "_" {
		if !isUnit(data.Value) {
			l.w.Line(l.expr(data.Value) + ";")
		}
		return
	}
	var value string
	if data.Value != nil {
		value = l.expr(data.Value)
	}
	info := l.infoOf(data.Value)
	js := l.bind(data.Name, info, data.Mutable, s.Pos)
	kw := l.opts.declKeyword(data.Mutable, data.Value != nil)
	if data.Value == nil {
		l.w.Line(kw + " " + js + ";")
		return
	}
	l.w.Line(kw + " " + js + " = " + value + ";")
}

func (l *Lowerer) ret(s *hir.Stmt, data hir.ReturnData) {
	if l.inValue > 0 {
		l.errorf(diag.StructReturnInValue, s.Pos, "return inside a match used as a value").
			WithNote(s.Pos, "the value would only leave the match, not the function").
			Emit()
		return
	}
	if om, ok := exprOptionMatch(data.Value); ok {
		l.optionMatch(data.Value, om, tail{kind: tailReturn})
		return
	}
	if isUnit(data.Value) {
		l.w.Line("return;")
		return
	}
	l.w.Line("return " + l.expr(data.Value) + ";")
}

// rangeOf finds a range under erased adapters such as (a..b).into_iter().
func rangeOf(e *hir.Expr) (hir.RangeData, bool) {
	for e != nil {
		switch data := e.Data.(type) {
		case hir.RangeData:
			return data, true
		case hir.MethodCallData:
			m, ok := shim.LookupMethod(data.Method, len(data.Args))
			if !ok || m.Rewrite != shim.RewriteErase {
				return hir.RangeData{}, false
			}
			e = data.Receiver
		default:
			return hir.RangeData{}, false
		}
	}
	return hir.RangeData{}, false
}

func (l *Lowerer) forEach(s *hir.Stmt, data hir.ForEachData) {
	if r, ok := rangeOf(data.Iterable); ok {
		l.forRange(s, data, r)
		return
	}
	iter := l.expr(data.Iterable)
	seq := l.mangler.Temp("s")
	l.w.Line(l.constKeyword() + " " + seq + " = " + shim.SeqHelper + "(" + iter + ");")

	elem := plainValue()
	if info := l.infoOf(data.Iterable); info.kind == symbols.SymbolHostHandle && info.handle == hostapi.RecvNodeList {
		elem = hostValue(hostapi.RecvElement)
	}

	l.table.Enter(symbols.ScopeBlock)
	var counter string
	if data.Enumerate && !blank(data.Index) {
		counter = l.bind(data.Index, plainValue(), false, s.Pos)
	} else {
		counter = l.mangler.Temp("i")
	}
	l.w.Line("for (" + l.letKeyword() + " " + counter + " = 0; " + counter + " < " + seq + ".length; " + counter + "++) {")
	l.w.IndentPush()
	if !blank(data.Binding) {
		binding := l.bind(data.Binding, elem, data.Mutable, s.Pos)
		l.w.Line(l.opts.declKeyword(data.Mutable, true) + " " + binding + " = " + seq + "[" + counter + "];")
	}
	l.block(data.Body, discard)
	l.w.IndentPop()
	l.w.Line("}")
	l.table.Leave()
}

func blank(name string) bool {
	name = naming.Normalize(name)
	return name == "" || name == "_"
}

func (l *Lowerer) forRange(s *hir.Stmt, data hir.ForEachData, r hir.RangeData) {
	start := "0"
	if r.Start != nil {
		start = l.expr(r.Start)
	}
	end := ""
	if r.End != nil {
		end = l.expr(r.End)
		// the bound is read once, before the first iteration
		if !l.fixed(r.End) {
			if !isSimple(r.Start) {
				// start still comes first
				tmp := l.mangler.Temp("b")
				l.w.Line(l.constKeyword() + " " + tmp + " = " + start + ";")
				start = tmp
			}
			tmp := l.mangler.Temp("e")
			l.w.Line(l.constKeyword() + " " + tmp + " = " + end + ";")
			end = tmp
		}
	}

	l.table.Enter(symbols.ScopeBlock)
	// a mut binding is a copy of a hidden counter, writes to it do not
	// change the iteration
	var counter, binding string
	if blank(data.Binding) || data.Mutable {
		counter = l.mangler.Temp("i")
	} else {
		counter = l.bind(data.Binding, plainValue(), false, s.Pos)
	}
	index := ""
	if data.Enumerate && !blank(data.Index) {
		index = l.bind(data.Index, plainValue(), false, s.Pos)
	}
	if data.Mutable && !blank(data.Binding) {
		binding = l.bind(data.Binding, plainValue(), true, s.Pos)
	}
	cond := ""
	if end != "" {
		cmp := " < "
		if r.Inclusive {
			cmp = " <= "
		}
		cond = counter + cmp + end
	}
	init, step := counter+" = "+start, counter+"++"
	if index != "" {
		init += ", " + index + " = 0"
		step += ", " + index + "++"
	}
	l.w.Line("for (" + l.letKeyword() + " " + init + "; " + cond + "; " + step + ") {")
	l.w.IndentPush()
	if binding != "" {
		l.w.Line(l.letKeyword() + " " + binding + " = " + counter + ";")
	}
	l.block(data.Body, discard)
	l.w.IndentPop()
	l.w.Line("}")
	l.table.Leave()
}

// fixed reports whether e reads the same value for the whole loop: a literal
// or a binding that is not mut.
func (l *Lowerer) fixed(e *hir.Expr) bool {
	switch data := e.Data.(type) {
	case hir.LiteralData:
		return true
	case hir.IdentData:
		id, ok := l.table.Lookup(naming.Normalize(data.Name))
		if !ok {
			return false
		}
		sym := l.table.Symbol(id)
		return sym.Kind == symbols.SymbolValue && !sym.Has(symbols.SymbolFlagMutable)
	}
	return false
}

func (l *Lowerer) ifMatch(s *hir.Stmt, data hir.IfMatchData, mode tail) {
	switch data.Scrutinee {
	case hir.ScrutineeBool:
		l.ifBool(s, data, mode, "")
	case hir.ScrutineeOption:
		l.ifOption(s, data, mode)
	case hir.ScrutineeValue:
		l.ifValue(s, data, mode)
	default:
		l.errorf(diag.StructMalformed, s.Pos, "unknown scrutinee kind %s", data.Scrutinee).Emit()
	}
}

type boolArms struct {
	then, els       *hir.Block
	hasThen, hasEls bool
}

func (l *Lowerer) splitBoolArms(s *hir.Stmt, data hir.IfMatchData) (boolArms, bool) {
	var arms boolArms
	for _, arm := range data.Arms {
		switch arm.Pattern.Kind {
		case hir.PatTrue:
			if arms.hasThen {
				l.errorf(diag.StructMalformed, s.Pos, "duplicate true arm").Emit()
				return arms, false
			}
			arms.then, arms.hasThen = arm.Body, true
		case hir.PatFalse:
			if arms.hasEls {
				l.errorf(diag.StructMalformed, s.Pos, "duplicate false arm").Emit()
				return arms, false
			}
			arms.els, arms.hasEls = arm.Body, true
		case hir.PatWildcard:
			if !arms.hasThen {
				arms.then, arms.hasThen = arm.Body, true
			}
			if !arms.hasEls {
				arms.els, arms.hasEls = arm.Body, true
			}
		default:
			l.errorf(diag.StructMalformed, s.Pos, "pattern %s in a boolean match", arm.Pattern.Kind).Emit()
			return arms, false
		}
	}
	if !data.IfLet && (!arms.hasThen || !arms.hasEls) {
		missing := "true"
		if arms.hasThen {
			missing = "false"
		}
		l.errorf(diag.StructMissingArm, s.Pos, "boolean match is missing the %s arm", missing).Emit()
		return arms, false
	}
	return arms, true
}

// elseIf returns the boolean if that is the only content of b.
func elseIf(b *hir.Block) (*hir.Stmt, hir.IfMatchData, bool) {
	if b == nil || b.Tail != nil || len(b.Stmts) != 1 || b.Stmts[0] == nil {
		return nil, hir.IfMatchData{}, false
	}
	data, ok := b.Stmts[0].Data.(hir.IfMatchData)
	if !ok || data.Scrutinee != hir.ScrutineeBool {
		return nil, hir.IfMatchData{}, false
	}
	return b.Stmts[0], data, true
}

func (l *Lowerer) ifBool(s *hir.Stmt, data hir.IfMatchData, mode tail, prefix string) {
	arms, ok := l.splitBoolArms(s, data)
	if !ok {
		if prefix != "" {
			l.w.Line("}")
		}
		return
	}
	cond := l.expr(data.Value)
	thenBody, elseBody, hasElse := arms.then, arms.els, arms.hasEls
	if !arms.hasThen {
		cond = "!" + l.wrapNot(data.Value, cond)
		thenBody, elseBody, hasElse = arms.els, nil, false
	}
	l.w.Line(prefix + "if (" + cond + ") {")
	l.w.IndentPush()
	l.block(thenBody, mode)
	l.w.IndentPop()
	if !hasElse && mode.kind != tailAssign {
		l.w.Line("}")
		return
	}
	if hasElse {
		if inner, innerData, ok := elseIf(elseBody); ok {
			l.ifBool(inner, innerData, mode, "} else ")
			return
		}
	}
	l.w.Line("} else {")
	l.w.IndentPush()
	l.block(elseBody, mode)
	l.w.IndentPop()
	l.w.Line("}")
}

func (l *Lowerer) wrapNot(e *hir.Expr, lowered string) string {
	if isSimple(stripErased(e)) {
		return lowered
	}
	if _, ok := stripErased(e).Data.(hir.MethodCallData); ok {
		return lowered
	}
	return "(" + lowered + ")"
}

func (l *Lowerer) ifOption(s *hir.Stmt, data hir.IfMatchData, mode tail) {
	var (
		some, none       *hir.Block
		hasSome, hasNone bool
		binding          string
		mutable          bool
	)
	for _, arm := range data.Arms {
		switch arm.Pattern.Kind {
		case hir.PatSome:
			if hasSome {
				l.errorf(diag.StructMalformed, s.Pos, "duplicate Some arm").Emit()
				return
			}
			some, hasSome = arm.Body, true
			binding, mutable = arm.Pattern.Binding, arm.Pattern.Mutable
		case hir.PatNone:
			if hasNone {
				l.errorf(diag.StructMalformed, s.Pos, "duplicate None arm").Emit()
				return
			}
			none, hasNone = arm.Body, true
		case hir.PatWildcard:
			if !hasSome {
				some, hasSome = arm.Body, true
			}
			if !hasNone {
				none, hasNone = arm.Body, true
			}
		default:
			l.errorf(diag.StructMalformed, s.Pos, "pattern %s in an option match", arm.Pattern.Kind).Emit()
			return
		}
	}
	if !data.IfLet && (!hasSome || !hasNone) {
		missing := "Some"
		if hasSome {
			missing = "None"
		}
		l.errorf(diag.StructMissingArm, s.Pos, "option match is missing the %s arm", missing).Emit()
		return
	}
	if !hasSome && !hasNone {
		l.errorf(diag.StructMissingArm, s.Pos, "option match without arms").Emit()
		return
	}
	l.optionBranches(s.Pos, data.Value, binding, mutable, some, none, hasSome, hasNone, mode)
}

// optionMatch lowers an option match in statement position.
func (l *Lowerer) optionMatch(e *hir.Expr, data hir.OptionMatchData, mode tail) {
	if data.Some == nil {
		l.errorf(diag.StructMissingArm, e.Pos, "option match without a Some arm").Emit()
		return
	}
	l.optionBranches(e.Pos, data.Scrutinee, data.Binding, data.Mutable, data.Some, data.None, true, data.None != nil, mode)
}

func (l *Lowerer) optionBranches(pos source.Pos, scrutinee *hir.Expr, binding string, mutable bool, some, none *hir.Block, hasSome, hasNone bool, mode tail) {
	binds := hasSome && !blank(binding)
	info := l.infoOf(scrutinee)
	subject := l.operand(scrutinee)
	if binds && !isIdent(scrutinee) {
		tmp := l.mangler.Temp("m")
		l.w.Line(l.constKeyword() + " " + tmp + " = " + subject + ";")
		subject = tmp
	}
	if !hasSome {
		l.w.Line("if (" + subject + " == null) {")
		l.w.IndentPush()
		l.block(none, mode)
		l.w.IndentPop()
		if mode.kind == tailAssign {
			l.w.Line("} else {")
			l.w.IndentPush()
			l.w.Line(mode.target + " = undefined;")
			l.w.IndentPop()
		}
		l.w.Line("}")
		return
	}

	l.w.Line("if (" + subject + " != null) {")
	l.w.IndentPush()
	l.table.Enter(symbols.ScopeArm)
	if binds {
		js := l.bind(binding, info, mutable, pos)
		l.w.Line(l.opts.declKeyword(mutable, true) + " " + js + " = " + subject + ";")
	}
	l.block(some, mode)
	l.table.Leave()
	l.w.IndentPop()
	if hasNone || mode.kind == tailAssign {
		l.w.Line("} else {")
		l.w.IndentPush()
		l.block(none, mode)
		l.w.IndentPop()
	}
	l.w.Line("}")
}

func (l *Lowerer) ifValue(s *hir.Stmt, data hir.IfMatchData, mode tail) {
	subject := l.operand(data.Value)
	if !isIdent(data.Value) {
		tmp := l.mangler.Temp("m")
		l.w.Line(l.constKeyword() + " " + tmp + " = " + subject + ";")
		subject = tmp
	}
	var (
		fallback    *hir.Block
		hasFallback bool
		first       = true
	)
	for _, arm := range data.Arms {
		var lit string
		switch arm.Pattern.Kind {
		case hir.PatLiteral:
			if arm.Pattern.Literal == nil {
				l.errorf(diag.StructMalformed, s.Pos, "literal pattern without a value").Emit()
				return
			}
			lit = l.expr(arm.Pattern.Literal)
		case hir.PatTrue:
			lit = "true"
		case hir.PatFalse:
			lit = "false"
		case hir.PatWildcard:
			if !hasFallback {
				fallback, hasFallback = arm.Body, true
			}
			continue
		default:
			l.errorf(diag.StructMalformed, s.Pos, "pattern %s in a value match", arm.Pattern.Kind).Emit()
			return
		}
		if hasFallback {
			// unreachable after a wildcard
			continue
		}
		head := "} else if ("
		if first {
			head = "if ("
		}
		l.w.Line(head + subject + " === " + lit + ") {")
		l.w.IndentPush()
		l.block(arm.Body, mode)
		l.w.IndentPop()
		first = false
	}
	if !hasFallback && !data.IfLet {
		l.errorf(diag.StructMissingArm, s.Pos, "value match has no wildcard arm").Emit()
		return
	}
	if first {
		l.w.Line("{")
		l.w.IndentPush()
		l.block(fallback, mode)
		l.w.IndentPop()
		l.w.Line("}")
		return
	}
	if hasFallback || mode.kind == tailAssign {
		l.w.Line("} else {")
		l.w.IndentPush()
		l.block(fallback, mode)
		l.w.IndentPop()
	}
	l.w.Line("}")
}
