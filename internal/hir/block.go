package hir

// Block is an ordered statement list with an optional trailing expression.
// Each Block owns its bindings.
type Block struct {
	Stmts []*Stmt
	Tail  *Expr // value of the block, nil when the block ends with a statement
}

// Empty reports whether the block has neither statements nor a tail.
func (b *Block) Empty() bool {
	return b == nil || (len(b.Stmts) == 0 && b.Tail == nil)
}

// HasReturn reports whether b, or any block nested in it outside of closures,
// contains an explicit return statement.
func (b *Block) HasReturn() bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		if stmtHasReturn(s) {
			return true
		}
	}
	return exprHasReturn(b.Tail)
}

func stmtHasReturn(s *Stmt) bool {
	if s == nil {
		return false
	}
	switch data := s.Data.(type) {
	case ReturnData:
		return true
	case LetData:
		return exprHasReturn(data.Value)
	case ExprStmtData:
		return exprHasReturn(data.Expr)
	case WhileData:
		return data.Body.HasReturn()
	case ForEachData:
		return data.Body.HasReturn()
	case IfMatchData:
		for _, arm := range data.Arms {
			if arm.Body.HasReturn() {
				return true
			}
		}
	}
	return false
}

// closures are their own functions: a return inside one does not count.
func exprHasReturn(e *Expr) bool {
	if e == nil {
		return false
	}
	if data, ok := e.Data.(OptionMatchData); ok {
		return data.Some.HasReturn() || data.None.HasReturn()
	}
	return false
}
