// Package naming is the identifier policy: it decides whether a referenced
// name is a host API name emitted verbatim (PassThrough), a user binding
// (UserSymbol, mangled only on collision), or neither (Unresolved, still
// emitted verbatim but reported).
package naming
