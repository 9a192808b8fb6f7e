package naming

import (
	"strconv"

	"mojes/internal/hostapi"
)

// Mangler assigns emitted names to the bindings of one annotated function.
// A binding keeps its source name unless that name is reserved, names a host
// global or a registered function, is still visible from the declaration
// site, or (es5, function-scoped var) was already used in the same JS
// function. Suffixes are $1, $2, ... so they never collide with source names.
type Mangler struct {
	blocked map[string]bool
	// one set per open JS function; used[0] is the annotated function
	used []map[string]bool
	// names picked for a binding whose declaration is still being lowered
	held map[string]int
	// VarScoped selects es5 semantics where every declaration is function scoped.
	VarScoped bool
}

// NewMangler builds a mangler for one function.
func NewMangler(p *Policy, varScoped bool) *Mangler {
	blocked := make(map[string]bool, len(reservedWords))
	for w := range reservedWords {
		blocked[w] = true
	}
	var cat *hostapi.Catalog
	if p != nil {
		cat = p.catalog
		for fn := range p.functions {
			blocked[fn] = true
		}
	}
	if cat != nil {
		for _, g := range cat.GlobalNames() {
			blocked[g] = true
		}
	}
	return &Mangler{
		blocked:   blocked,
		used:      []map[string]bool{make(map[string]bool)},
		held:      make(map[string]int),
		VarScoped: varScoped,
	}
}

// EnterFunction starts a nested JS function (closure or immediately invoked function).
func (m *Mangler) EnterFunction() {
	m.used = append(m.used, make(map[string]bool))
}

// LeaveFunction closes the innermost JS function.
func (m *Mangler) LeaveFunction() {
	if len(m.used) > 1 {
		m.used = m.used[:len(m.used)-1]
	}
}

func (m *Mangler) top() map[string]bool {
	return m.used[len(m.used)-1]
}

// Assign picks the emitted name for a new binding. visible lists the emitted
// names of bindings live at the declaration site.
func (m *Mangler) Assign(name string, visible []string) (string, bool) {
	base := Normalize(name)
	if !IsIdentifier(base) {
		base = "_binding"
	}
	live := toSet(visible...)
	taken := func(candidate string) bool {
		if m.blocked[candidate] || live[candidate] || m.held[candidate] > 0 {
			return true
		}
		return m.VarScoped && m.top()[candidate]
	}
	if !taken(base) {
		m.top()[base] = true
		return base, base != name
	}
	for n := 1; ; n++ {
		candidate := base + "$" + strconv.Itoa(n)
		if !taken(candidate) && !m.anyUsed(candidate) {
			m.top()[candidate] = true
			return candidate, true
		}
	}
}

// Reserve keeps js away from every binding assigned until Release. A binding
// whose initializer is lowered before its declaration holds its name this way.
func (m *Mangler) Reserve(js string) {
	m.held[js]++
}

// Release ends a Reserve.
func (m *Mangler) Release(js string) {
	if m.held[js] <= 1 {
		delete(m.held, js)
		return
	}
	m.held[js]--
}

func (m *Mangler) anyUsed(candidate string) bool {
	for _, set := range m.used {
		if set[candidate] {
			return true
		}
	}
	return false
}

// Temp returns a fresh temporary like $m0; the $ prefix keeps it out of the
// source namespace.
func (m *Mangler) Temp(prefix string) string {
	for n := 0; ; n++ {
		candidate := "$" + prefix + strconv.Itoa(n)
		if !m.anyUsed(candidate) {
			m.top()[candidate] = true
			return candidate
		}
	}
}
