// Package program assembles emitted function fragments into one script.
//
// The registry is append-only and ordered by first registration. A second
// registration under the same name is resolved by the duplicate policy: warn
// replaces the text in the original slot and reports DUP2002, error rejects
// it, allow replaces silently.
package program

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"mojes/internal/diag"
	"mojes/internal/emit"
	"mojes/internal/lower"
	"mojes/internal/source"
)

// ErrDuplicate is returned when a registration is rejected.
var ErrDuplicate = errors.New("function already registered")

// Registry is the ordered collection of fragments.
type Registry struct {
	mu        sync.RWMutex
	fragments []emit.Fragment
	index     map[string]int
	policy    lower.DuplicatePolicy
}

// NewRegistry creates an empty registry.
func NewRegistry(policy lower.DuplicatePolicy) *Registry {
	return &Registry{
		index:  make(map[string]int),
		policy: policy,
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(lower.DupWarn)
	})
	return defaultRegistry
}

// Register appends frag, or resolves a duplicate name per the registry policy.
// pos is used for the duplicate diagnostic only.
func (r *Registry) Register(frag emit.Fragment, pos source.Pos, rep diag.Reporter) error {
	if frag.Name == "" {
		return fmt.Errorf("register: fragment without a name")
	}
	if rep == nil {
		rep = diag.NopReporter{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, dup := r.index[frag.Name]
	if !dup {
		r.index[frag.Name] = len(r.fragments)
		r.fragments = append(r.fragments, frag)
		return nil
	}
	switch r.policy {
	case lower.DupError:
		diag.ReportError(rep, diag.DupFunction, frag.Name, pos,
			fmt.Sprintf("function %q is already registered; the second definition is rejected", frag.Name)).Emit()
		return fmt.Errorf("register %s: %w", frag.Name, ErrDuplicate)
	case lower.DupWarn:
		diag.ReportWarning(rep, diag.DupFunction, frag.Name, pos,
			fmt.Sprintf("function %q is registered again; the later definition replaces it in place", frag.Name)).Emit()
	}
	r.fragments[idx] = frag
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.fragments))
	for i, f := range r.fragments {
		out[i] = f.Name
	}
	return out
}

// Fragments returns a copy of the fragments in registration order.
func (r *Registry) Fragments() []emit.Fragment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]emit.Fragment, len(r.fragments))
	copy(out, r.fragments)
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fragments)
}

// Render joins all fragments in registration order, separated by one blank
// line. An empty registry renders as "".
func (r *Registry) Render() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.fragments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range r.fragments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimRight(f.Text, "\n"))
	}
	b.WriteByte('\n')
	return b.String()
}
