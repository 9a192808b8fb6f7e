package symbols

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFunction           // function body, seeded with parameters
	ScopeBlock              // nested block (loop body, if branch)
	ScopeClosure            // closure body; starts a new JS function
	ScopeArm                // match arm, holds the arm binding
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClosure:
		return "closure"
	case ScopeArm:
		return "arm"
	default:
		return "invalid"
	}
}

// IsFunctionLike reports whether the scope starts a new JS function.
func (k ScopeKind) IsFunctionLike() bool {
	return k == ScopeFunction || k == ScopeClosure
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	NameIndex map[string]SymbolID // live binding per source name
	Symbols   []SymbolID          // declaration order
	Children  []ScopeID
}
