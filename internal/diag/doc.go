// Package diag defines the diagnostic model shared by every lowering phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     lowering annotated functions (structure problems, duplicate symbols,
//     unresolved identifiers) and while loading or checking programs.
//   - Offer light-weight utilities (Reporter, Bag) so producers can emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does no formatting beyond the stable one-line form used by
// golden tests. Rendering lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric identifier with a stable string form (see codes.go).
//     A StructuralError is any code in the STR range; it omits the function
//     from the rendered program.
//   - Func – the annotated function the finding belongs to ("" for
//     program-level findings).
//   - Primary – front-end position, may be zero.
//   - Notes – optional secondary context.
//
// # Ordering
//
// Bag.Sort orders by function, position, severity (desc) and code so output
// is stable across runs.
package diag
