package program

import (
	"strings"

	"mojes/internal/lower"
	"mojes/internal/shim"
)

// ScriptOptions control RenderScript.
type ScriptOptions struct {
	Dialect lower.Dialect
	// Prelude prepends the shim runtime (Mutex, __mojes.seq).
	Prelude bool
}

// RenderScript returns the program, optionally preceded by the prelude.
func (r *Registry) RenderScript(opts ScriptOptions) string {
	body := r.Render()
	if !opts.Prelude {
		return body
	}
	var b strings.Builder
	b.WriteString(shim.Prelude(opts.Dialect.String()))
	b.WriteString("\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}
