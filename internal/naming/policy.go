package naming

import (
	"sort"

	"mojes/internal/hostapi"
	"mojes/internal/symbols"
)

// Position is the syntactic slot a name is referenced from.
type Position uint8

const (
	PosIdent    Position = iota // plain identifier
	PosCallee                   // bare call f(...)
	PosReceiver                 // receiver of a method call
)

func (p Position) String() string {
	switch p {
	case PosCallee:
		return "callee"
	case PosReceiver:
		return "receiver"
	default:
		return "identifier"
	}
}

// Outcome is the decision of the policy.
type Outcome uint8

const (
	PassThrough Outcome = iota
	UserSymbol
	Unresolved
)

func (o Outcome) String() string {
	switch o {
	case PassThrough:
		return "pass-through"
	case UserSymbol:
		return "user-symbol"
	default:
		return "unresolved"
	}
}

// Resolution describes how a name is emitted.
type Resolution struct {
	Outcome Outcome
	JS      string
	// Symbol is the local binding for UserSymbol outcomes that are not
	// registered functions.
	Symbol   symbols.SymbolID
	Function bool
	Entry    hostapi.Entry
	// Handle is the host receiver kind of the value, "" when unknown.
	Handle string
	// Later marks an unresolved name that is registered further down the batch.
	Later bool
}

// Policy resolves names against local bindings, registered functions and the
// host API catalog, in that order.
type Policy struct {
	catalog   *hostapi.Catalog
	functions map[string]bool
	later     map[string]bool
}

// NewPolicy creates a policy. registered are function names already in the
// program registry; later are names the batch will register afterwards.
func NewPolicy(catalog *hostapi.Catalog, registered, later []string) *Policy {
	if catalog == nil {
		catalog = hostapi.Default()
	}
	return &Policy{
		catalog:   catalog,
		functions: toSet(registered...),
		later:     toSet(later...),
	}
}

// Catalog returns the host API catalog in use.
func (p *Policy) Catalog() *hostapi.Catalog { return p.catalog }

// IsFunction reports whether name is a previously registered function.
func (p *Policy) IsFunction(name string) bool { return p.functions[name] }

// WithFunction returns a policy that also knows name as a registered
// function; the emitter uses it so a function can call itself.
func (p *Policy) WithFunction(name string) *Policy {
	if p.functions[name] {
		return p
	}
	functions := make(map[string]bool, len(p.functions)+1)
	for fn := range p.functions {
		functions[fn] = true
	}
	functions[name] = true
	out := *p
	out.functions = functions
	return &out
}

// Functions returns the registered function names, sorted.
func (p *Policy) Functions() []string {
	out := make([]string, 0, len(p.functions))
	for fn := range p.functions {
		out = append(out, fn)
	}
	sort.Strings(out)
	return out
}

// Resolve decides how a referenced name is emitted.
func (p *Policy) Resolve(table *symbols.Table, name string, pos Position) Resolution {
	name = Normalize(name)
	if table != nil {
		if id, ok := table.Lookup(name); ok {
			sym := table.Symbol(id)
			res := Resolution{Outcome: UserSymbol, JS: sym.JSName, Symbol: id}
			if sym.Kind == symbols.SymbolHostHandle {
				res.Handle = sym.Handle
			}
			return res
		}
	}
	if p.functions[name] {
		return Resolution{Outcome: UserSymbol, JS: name, Function: true}
	}
	if e, ok := p.catalog.Global(name); ok {
		res := Resolution{Outcome: PassThrough, JS: e.Emit(), Entry: e}
		if e.Kind == hostapi.KindObject {
			res.Handle = e.Returns
		}
		return res
	}
	return Resolution{Outcome: Unresolved, JS: name, Later: p.later[name]}
}

// Member resolves a method or property name on a receiver. Members of host
// values are always pass-through; a catalog row may change the spelling or
// mark the member as a property.
func (p *Policy) Member(handle, name string) (hostapi.Entry, bool) {
	if handle == "" {
		return hostapi.Entry{}, false
	}
	if e, ok := p.catalog.Member(handle, name); ok {
		return e, true
	}
	return hostapi.Entry{Receiver: handle, Name: name, Kind: hostapi.KindMethod}, true
}
