package hir

import (
	"strconv"
	"strings"
)

// Constructors for building IR by hand. The corpus and tests use them; the
// front end normally delivers IR through the wire codec.

func newExpr(kind ExprKind, data ExprData) *Expr {
	return &Expr{Kind: kind, Data: data}
}

func newStmt(kind StmtKind, data StmtData) *Stmt {
	return &Stmt{Kind: kind, Data: data}
}

// Int builds an integer literal.
func Int(v int64) *Expr {
	return newExpr(ExprLiteral, LiteralData{Kind: LiteralInt, Text: strconv.FormatInt(v, 10)})
}

// Number builds a numeric literal from its source spelling.
func Number(text string) *Expr {
	kind := LiteralInt
	if strings.ContainsAny(text, ".eE") || strings.HasSuffix(text, "f32") || strings.HasSuffix(text, "f64") {
		kind = LiteralFloat
	}
	return newExpr(ExprLiteral, LiteralData{Kind: kind, Text: text})
}

// Str builds a string literal.
func Str(s string) *Expr {
	return newExpr(ExprLiteral, LiteralData{Kind: LiteralString, Text: s})
}

// Bool builds a boolean literal.
func Bool(v bool) *Expr {
	return newExpr(ExprLiteral, LiteralData{Kind: LiteralBool, Text: strconv.FormatBool(v)})
}

// Unit builds the unit value ().
func Unit() *Expr {
	return newExpr(ExprLiteral, LiteralData{Kind: LiteralUnit})
}

// Ident builds a name reference.
func Ident(name string) *Expr {
	return newExpr(ExprIdent, IdentData{Name: name})
}

// Path builds a::b::c.
func Path(segments ...string) *Expr {
	return newExpr(ExprPath, PathData{Segments: segments})
}

// Unary builds a prefix operator application.
func Unary(op string, operand *Expr) *Expr {
	return newExpr(ExprUnary, UnaryData{Op: op, Operand: operand})
}

// Not builds !x.
func Not(x *Expr) *Expr { return Unary("!", x) }

// Ref builds &x.
func Ref(x *Expr) *Expr { return Unary("&", x) }

// Binary builds left op right.
func Binary(op string, left, right *Expr) *Expr {
	return newExpr(ExprBinary, BinaryData{Op: op, Left: left, Right: right})
}

// Assign builds target = value (or a compound form such as "+=").
func Assign(op string, target, value *Expr) *Expr {
	return Binary(op, target, value)
}

// Call builds callee(args...).
func Call(callee *Expr, args ...*Expr) *Expr {
	return newExpr(ExprCall, CallData{Callee: callee, Args: args})
}

// CallName builds name(args...).
func CallName(name string, args ...*Expr) *Expr {
	return Call(Ident(name), args...)
}

// Method builds receiver.method(args...).
func Method(receiver *Expr, method string, args ...*Expr) *Expr {
	return newExpr(ExprMethodCall, MethodCallData{Receiver: receiver, Method: method, Args: args})
}

// Field builds receiver.field.
func Field(receiver *Expr, field string) *Expr {
	return newExpr(ExprField, FieldData{Receiver: receiver, Field: field})
}

// Index builds receiver[index].
func Index(receiver, index *Expr) *Expr {
	return newExpr(ExprIndex, IndexData{Receiver: receiver, Index: index})
}

// Format builds a template from explicit parts and arguments.
func Format(parts []string, args ...*Expr) *Expr {
	return newExpr(ExprFormat, FormatData{Parts: parts, Args: args})
}

// Fmt builds a template from a format string in the `{}` placeholder style.
// `{}` and `{:?}` consume the next positional argument, `{name}` refers to a
// binding by name, `{{` and `}}` are literal braces.
func Fmt(template string, args ...*Expr) *Expr {
	parts, used := splitTemplate(template, args)
	return Format(parts, used...)
}

func splitTemplate(template string, args []*Expr) ([]string, []*Expr) {
	var (
		parts []string
		used  []*Expr
		cur   strings.Builder
		next  int
	)
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			cur.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			cur.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				cur.WriteString(template[i:])
				i = len(template)
				continue
			}
			spec := template[i+1 : i+end]
			name, _, _ := strings.Cut(spec, ":")
			parts = append(parts, cur.String())
			cur.Reset()
			if name == "" {
				if next < len(args) {
					used = append(used, args[next])
				}
				next++
			} else {
				used = append(used, Ident(name))
			}
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts, used
}

// Closure builds a by-reference closure.
func Closure(params []string, body *Block) *Expr {
	return newExpr(ExprClosure, ClosureData{Params: params, Body: body})
}

// MoveClosure builds a by-move closure that captures the given bindings.
func MoveClosure(captures []string, params []string, body *Block) *Expr {
	return newExpr(ExprClosure, ClosureData{Params: params, Captures: captures, Move: true, Body: body})
}

// OptionMatch builds a Some/None match used as a value.
func OptionMatch(scrutinee *Expr, binding string, some, none *Block) *Expr {
	return newExpr(ExprOptionMatch, OptionMatchData{Scrutinee: scrutinee, Binding: binding, Some: some, None: none})
}

// NewShared builds Arc::new(Mutex::new(inner)).
func NewShared(inner *Expr) *Expr {
	return newExpr(ExprNewShared, NewSharedData{Inner: inner})
}

// Range builds start..end or start..=end.
func Range(start, end *Expr, inclusive bool) *Expr {
	return newExpr(ExprRange, RangeData{Start: start, End: end, Inclusive: inclusive})
}

// Cast builds value as typ.
func Cast(value *Expr, typ string) *Expr {
	return newExpr(ExprCast, CastData{Value: value, Type: typ})
}

// Body builds a block from statements.
func Body(stmts ...*Stmt) *Block {
	return &Block{Stmts: stmts}
}

// Value builds a block whose value is tail.
func Value(tail *Expr, stmts ...*Stmt) *Block {
	return &Block{Stmts: stmts, Tail: tail}
}

// Let builds an immutable binding.
func Let(name string, value *Expr) *Stmt {
	return newStmt(StmtLet, LetData{Name: name, Value: value})
}

// LetMut builds a mutable binding.
func LetMut(name string, value *Expr) *Stmt {
	return newStmt(StmtLet, LetData{Name: name, Mutable: true, Value: value})
}

// LetMatch builds a binding initialised by an OptionMatch.
func LetMatch(name string, match *Expr) *Stmt {
	return newStmt(StmtLet, LetData{Name: name, Value: match, IsConditionalValue: true})
}

// Do builds an expression statement.
func Do(e *Expr) *Stmt {
	return newStmt(StmtExpr, ExprStmtData{Expr: e})
}

// While builds a while loop.
func While(cond *Expr, body *Block) *Stmt {
	return newStmt(StmtWhile, WhileData{Cond: cond, Body: body})
}

// For builds for binding in iterable.
func For(binding string, iterable *Expr, body *Block) *Stmt {
	return newStmt(StmtForEach, ForEachData{Binding: binding, Iterable: iterable, Body: body})
}

// ForMut builds for mut binding in iterable.
func ForMut(binding string, iterable *Expr, body *Block) *Stmt {
	return newStmt(StmtForEach, ForEachData{Binding: binding, Mutable: true, Iterable: iterable, Body: body})
}

// ForEnumerate builds for (index, binding) in iterable.iter().enumerate().
func ForEnumerate(index, binding string, iterable *Expr, body *Block) *Stmt {
	return newStmt(StmtForEach, ForEachData{Index: index, Binding: binding, Enumerate: true, Iterable: iterable, Body: body})
}

// If builds if cond { then } else { els }; els may be nil.
func If(cond *Expr, then, els *Block) *Stmt {
	arms := []Arm{{Pattern: Pattern{Kind: PatTrue}, Body: then}}
	if els != nil {
		arms = append(arms, Arm{Pattern: Pattern{Kind: PatFalse}, Body: els})
	}
	return newStmt(StmtIfMatch, IfMatchData{Scrutinee: ScrutineeBool, Value: cond, IfLet: true, Arms: arms})
}

// IfLet builds if let Some(binding) = scrutinee { some } else { none }; none may be nil.
func IfLet(scrutinee *Expr, binding string, some, none *Block) *Stmt {
	arms := []Arm{{Pattern: Pattern{Kind: PatSome, Binding: binding}, Body: some}}
	if none != nil {
		arms = append(arms, Arm{Pattern: Pattern{Kind: PatNone}, Body: none})
	}
	return newStmt(StmtIfMatch, IfMatchData{Scrutinee: ScrutineeOption, Value: scrutinee, IfLet: true, Arms: arms})
}

// MatchOption builds match scrutinee { Some(binding) => some, None => none }.
func MatchOption(scrutinee *Expr, binding string, some, none *Block) *Stmt {
	return newStmt(StmtIfMatch, IfMatchData{
		Scrutinee: ScrutineeOption,
		Value:     scrutinee,
		Arms: []Arm{
			{Pattern: Pattern{Kind: PatSome, Binding: binding}, Body: some},
			{Pattern: Pattern{Kind: PatNone}, Body: none},
		},
	})
}

// MatchOptionMut is MatchOption with a Some(mut binding) arm.
func MatchOptionMut(scrutinee *Expr, binding string, some, none *Block) *Stmt {
	s := MatchOption(scrutinee, binding, some, none)
	data := s.Data.(IfMatchData)
	data.Arms[0].Pattern.Mutable = true
	s.Data = data
	return s
}

// Case builds a literal arm for MatchValue.
func Case(lit *Expr, body *Block) Arm {
	return Arm{Pattern: Pattern{Kind: PatLiteral, Literal: lit}, Body: body}
}

// Default builds the wildcard arm for MatchValue.
func Default(body *Block) Arm {
	return Arm{Pattern: Pattern{Kind: PatWildcard}, Body: body}
}

// MatchValue builds match scrutinee { lit => .., _ => .. }.
func MatchValue(scrutinee *Expr, arms ...Arm) *Stmt {
	return newStmt(StmtIfMatch, IfMatchData{Scrutinee: ScrutineeValue, Value: scrutinee, Arms: arms})
}

// Return builds return value; value may be nil.
func Return(value *Expr) *Stmt {
	return newStmt(StmtReturn, ReturnData{Value: value})
}

// P builds a parameter.
func P(name, typ string) Param {
	return Param{Name: name, Type: typ}
}

// Fn builds an annotated function.
func Fn(name string, params []Param, result string, body *Block) *Func {
	return &Func{Name: name, Params: params, Result: result, Body: body}
}
