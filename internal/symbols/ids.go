package symbols

// ScopeID indexes a scope inside a Table.
type ScopeID uint32

// SymbolID indexes a symbol inside a Table.
type SymbolID uint32

const (
	// NoScopeID marks the absence of a scope.
	NoScopeID ScopeID = 0
	// NoSymbolID marks the absence of a symbol.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// IsValid reports whether the id refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }
