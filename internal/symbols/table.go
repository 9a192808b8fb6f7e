package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Table holds the scopes and symbols of one annotated function.
type Table struct {
	scopes  []Scope
	symbols []Symbol
	current ScopeID
}

// NewTable builds a fresh table; slot 0 of both arenas is reserved.
func NewTable() *Table {
	return &Table{
		scopes:  make([]Scope, 1, 16),
		symbols: make([]Symbol, 1, 32),
	}
}

func (t *Table) nextScopeID() ScopeID {
	id, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	return ScopeID(id)
}

func (t *Table) nextSymbolID() SymbolID {
	id, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	return SymbolID(id)
}

// Enter opens a child scope of the current one and makes it current.
func (t *Table) Enter(kind ScopeKind) ScopeID {
	id := t.nextScopeID()
	t.scopes = append(t.scopes, Scope{
		Kind:      kind,
		Parent:    t.current,
		NameIndex: make(map[string]SymbolID),
	})
	if t.current.IsValid() {
		parent := &t.scopes[t.current]
		parent.Children = append(parent.Children, id)
	}
	t.current = id
	return id
}

// Leave closes the current scope.
func (t *Table) Leave() {
	if !t.current.IsValid() {
		panic("symbols: Leave without Enter")
	}
	t.current = t.scopes[t.current].Parent
}

// Current returns the innermost open scope.
func (t *Table) Current() ScopeID { return t.current }

// Scope returns the scope by id.
func (t *Table) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// Symbol returns the symbol by id.
func (t *Table) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// Declare adds sym to the current scope. When the name is already live in
// the same scope, the previous symbol is returned as prev and the new one
// replaces it for later lookups.
func (t *Table) Declare(sym Symbol) (id, prev SymbolID) {
	if !t.current.IsValid() {
		panic("symbols: Declare outside of a scope")
	}
	if sym.JSName == "" {
		sym.JSName = sym.Name
	}
	scope := &t.scopes[t.current]
	prev = scope.NameIndex[sym.Name]
	sym.Scope = t.current
	sym.Shadowed = prev
	id = t.nextSymbolID()
	t.symbols = append(t.symbols, sym)
	scope.NameIndex[sym.Name] = id
	scope.Symbols = append(scope.Symbols, id)
	return id, prev
}

// LookupLocal finds a name in the current scope only.
func (t *Table) LookupLocal(name string) (SymbolID, bool) {
	if !t.current.IsValid() {
		return NoSymbolID, false
	}
	id, ok := t.scopes[t.current].NameIndex[name]
	return id, ok
}

// Lookup walks the scope chain outwards.
func (t *Table) Lookup(name string) (SymbolID, bool) {
	for sc := t.current; sc.IsValid(); sc = t.scopes[sc].Parent {
		if id, ok := t.scopes[sc].NameIndex[name]; ok {
			return id, true
		}
	}
	return NoSymbolID, false
}

// CrossesFunction reports whether resolving id from the current scope leaves
// the innermost function or closure, i.e. the binding is captured.
func (t *Table) CrossesFunction(id SymbolID) bool {
	sym := t.Symbol(id)
	if sym == nil {
		return false
	}
	for sc := t.current; sc.IsValid(); sc = t.scopes[sc].Parent {
		if sc == sym.Scope {
			return false
		}
		if t.scopes[sc].Kind.IsFunctionLike() {
			return true
		}
	}
	return false
}

// Visible returns the emitted names of all bindings visible from the current
// scope, innermost first.
func (t *Table) Visible() []string {
	var out []string
	seen := make(map[string]bool)
	for sc := t.current; sc.IsValid(); sc = t.scopes[sc].Parent {
		for _, id := range t.scopes[sc].Symbols {
			js := t.symbols[id].JSName
			if !seen[js] {
				seen[js] = true
				out = append(out, js)
			}
		}
	}
	return out
}

// Len returns the number of declared symbols.
func (t *Table) Len() int { return len(t.symbols) - 1 }
