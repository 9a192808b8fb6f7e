package hir

import (
	"mojes/internal/source"
)

// ExprKind enumerates IR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, bool, string, unit).
	ExprLiteral ExprKind = iota
	// ExprIdent represents a bare name.
	ExprIdent
	// ExprPath represents a qualified path (a::b::C).
	ExprPath
	// ExprUnary represents unary operators (!, -, and the erased &, &mut, *).
	ExprUnary
	// ExprBinary represents binary operators, including assignment forms.
	ExprBinary
	// ExprCall represents a call of a function value or path.
	ExprCall
	// ExprMethodCall represents receiver.method(args).
	ExprMethodCall
	// ExprField represents receiver.field.
	ExprField
	// ExprIndex represents receiver[index].
	ExprIndex
	// ExprFormat represents a format template (format!, println! payload).
	ExprFormat
	// ExprClosure represents an anonymous function.
	ExprClosure
	// ExprOptionMatch represents a two-armed match over a present/absent value.
	ExprOptionMatch
	// ExprNewShared constructs a shared-mutable handle around a value.
	ExprNewShared
	// ExprRange represents a..b / a..=b; only valid as a for-each iterable.
	ExprRange
	// ExprCast represents `expr as Type`; erased on lowering.
	ExprCast
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdent:
		return "Ident"
	case ExprPath:
		return "Path"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprField:
		return "Field"
	case ExprIndex:
		return "Index"
	case ExprFormat:
		return "Format"
	case ExprClosure:
		return "Closure"
	case ExprOptionMatch:
		return "OptionMatch"
	case ExprNewShared:
		return "NewShared"
	case ExprRange:
		return "Range"
	case ExprCast:
		return "Cast"
	default:
		return "Unknown"
	}
}

// Expr represents an IR expression.
type Expr struct {
	Kind ExprKind
	Pos  source.Pos // Source location for diagnostics
	Data ExprData   // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralUnit
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInt:
		return "int"
	case LiteralFloat:
		return "float"
	case LiteralBool:
		return "bool"
	case LiteralString:
		return "string"
	case LiteralUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// LiteralData holds data for ExprLiteral.
// Text is the source spelling for numbers ("1_000u32"), the decoded value for
// strings, and "true"/"false" for booleans.
type LiteralData struct {
	Kind LiteralKind
	Text string
}

func (LiteralData) exprData() {}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// PathData holds data for ExprPath.
type PathData struct {
	Segments []string
}

func (PathData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      string
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// MethodCallData holds data for ExprMethodCall.
type MethodCallData struct {
	Receiver *Expr
	Method   string
	Args     []*Expr
}

func (MethodCallData) exprData() {}

// FieldData holds data for ExprField.
type FieldData struct {
	Receiver *Expr
	Field    string
}

func (FieldData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Receiver *Expr
	Index    *Expr
}

func (IndexData) exprData() {}

// FormatData holds data for ExprFormat. len(Parts) == len(Args)+1; Parts[i]
// precedes Args[i].
type FormatData struct {
	Parts []string
	Args  []*Expr
}

func (FormatData) exprData() {}

// ClosureData holds data for ExprClosure.
type ClosureData struct {
	Params   []string
	Captures []string // bindings of the enclosing blocks used by Body
	Move     bool     // by-move capture; by-reference otherwise
	Body     *Block
}

func (ClosureData) exprData() {}

// OptionMatchData holds data for ExprOptionMatch.
type OptionMatchData struct {
	Scrutinee *Expr
	Binding   string // name bound to the unwrapped value in Some; "" or "_" binds nothing
	Mutable   bool
	Some      *Block
	None      *Block
}

func (OptionMatchData) exprData() {}

// NewSharedData holds data for ExprNewShared.
type NewSharedData struct {
	Inner *Expr
}

func (NewSharedData) exprData() {}

// RangeData holds data for ExprRange.
type RangeData struct {
	Start     *Expr
	End       *Expr
	Inclusive bool
}

func (RangeData) exprData() {}

// CastData holds data for ExprCast.
type CastData struct {
	Value *Expr
	Type  string
}

func (CastData) exprData() {}
