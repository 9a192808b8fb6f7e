package hir

import (
	"mojes/internal/source"
)

// StmtKind enumerates IR statement kinds.
type StmtKind uint8

const (
	// StmtLet represents a binding (let x = ...).
	StmtLet StmtKind = iota
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtWhile represents a while loop.
	StmtWhile
	// StmtForEach represents for x in xs / for (i, x) in xs.iter().enumerate().
	StmtForEach
	// StmtIfMatch represents if / if let / match used as a statement.
	StmtIfMatch
	// StmtReturn represents an explicit return.
	StmtReturn
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtExpr:
		return "Expr"
	case StmtWhile:
		return "While"
	case StmtForEach:
		return "ForEach"
	case StmtIfMatch:
		return "IfMatch"
	case StmtReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Stmt represents an IR statement.
type Stmt struct {
	Kind StmtKind
	Pos  source.Pos
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	Name    string
	Mutable bool
	Value   *Expr // nil for a deferred initialisation
	// IsConditionalValue marks `let x = if let Some(v) = e { .. } else { .. };`,
	// Value is then an ExprOptionMatch whose arms produce the bound value.
	IsConditionalValue bool
}

func (LetData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) stmtData() {}

// ForEachData holds data for StmtForEach.
type ForEachData struct {
	Index     string // index binding, used when Enumerate is set
	Binding   string
	Mutable   bool // for mut x in ..
	Enumerate bool
	Iterable  *Expr
	Body      *Block
}

func (ForEachData) stmtData() {}

// ScrutineeKind describes what an IfMatch branches on.
type ScrutineeKind uint8

const (
	// ScrutineeOption matches Some(x) / None.
	ScrutineeOption ScrutineeKind = iota
	// ScrutineeBool is a plain if / else.
	ScrutineeBool
	// ScrutineeValue matches literal patterns with an optional wildcard.
	ScrutineeValue
)

func (k ScrutineeKind) String() string {
	switch k {
	case ScrutineeOption:
		return "option"
	case ScrutineeBool:
		return "bool"
	case ScrutineeValue:
		return "value"
	default:
		return "unknown"
	}
}

// PatternKind enumerates match arm patterns.
type PatternKind uint8

const (
	PatSome PatternKind = iota
	PatNone
	PatTrue
	PatFalse
	PatLiteral
	PatWildcard
)

func (k PatternKind) String() string {
	switch k {
	case PatSome:
		return "some"
	case PatNone:
		return "none"
	case PatTrue:
		return "true"
	case PatFalse:
		return "false"
	case PatLiteral:
		return "literal"
	case PatWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Pattern is the left-hand side of a match arm.
type Pattern struct {
	Kind    PatternKind
	Binding string // PatSome only
	Mutable bool   // Some(mut x)
	Literal *Expr  // PatLiteral only
}

// Arm is one branch of an IfMatch.
type Arm struct {
	Pattern Pattern
	Body    *Block
}

// IfMatchData holds data for StmtIfMatch.
type IfMatchData struct {
	Scrutinee ScrutineeKind
	Value     *Expr
	// IfLet marks `if let` / plain `if` forms where the else arm may be omitted.
	IfLet bool
	Arms  []Arm
}

func (IfMatchData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}
