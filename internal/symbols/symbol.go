package symbols

import "mojes/internal/source"

// SymbolKind classifies what a binding holds.
type SymbolKind uint8

const (
	SymbolInvalid    SymbolKind = iota
	SymbolValue                 // plain value
	SymbolParam                 // function or closure parameter
	SymbolShared                // shared-mutable handle (Arc<Mutex<T>>)
	SymbolClosure               // closure value
	SymbolHostHandle            // handle returned by the host API (element, request, ...)
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolValue:
		return "value"
	case SymbolParam:
		return "param"
	case SymbolShared:
		return "shared"
	case SymbolClosure:
		return "closure"
	case SymbolHostHandle:
		return "host-handle"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagMutable SymbolFlags = 1 << iota
	SymbolFlagMangled
	SymbolFlagCaptured
)

// Symbol is one binding.
type Symbol struct {
	Name   string // source name
	JSName string // emitted name, differs from Name when mangled
	Kind   SymbolKind
	Flags  SymbolFlags
	// Handle is the host receiver kind for SymbolHostHandle, and the receiver
	// kind of the inner value for SymbolShared.
	Handle   string
	Scope    ScopeID
	Pos      source.Pos
	Shadowed SymbolID // binding replaced by this one in the same scope
	// Cell links a guard binding (let g = cell.lock()) to the shared cell it
	// was acquired from.
	Cell SymbolID
}

// Has reports whether flag is set.
func (s *Symbol) Has(flag SymbolFlags) bool {
	return s.Flags&flag != 0
}
