package shim

// Rewrite says how a source-compatibility method call is lowered.
type Rewrite uint8

const (
	// RewriteErase drops the call and keeps the receiver (unwrap, iter, ...).
	RewriteErase Rewrite = iota
	// RewriteAlias drops the call on shared cells and host handles, the result
	// is the same reference. Other values go through CloneHelper (clone).
	RewriteAlias
	// RewriteAcquire calls the cell's acquire method.
	RewriteAcquire
	// RewriteWrap passes the receiver to a global function: String(x).
	RewriteWrap
	// RewriteProperty reads a property instead of calling: x.length.
	RewriteProperty
	// RewriteRename calls a differently named method: x.includes(y).
	RewriteRename
	// RewriteNullTest compares the receiver with null.
	RewriteNullTest
	// RewriteEmptyTest compares the receiver length with zero.
	RewriteEmptyTest
)

// Method is one row of the compatibility table.
type Method struct {
	Name    string
	Rewrite Rewrite
	// JS is the global, property or method name for Wrap/Property/Rename, and
	// the operator ("!=" / "==") for NullTest.
	JS string
	// Arity is the number of source arguments the row applies to; -1 is any.
	Arity int
}

var methodTable = map[string]Method{
	"unwrap":       {Name: "unwrap", Rewrite: RewriteErase},
	"expect":       {Name: "expect", Rewrite: RewriteErase, Arity: 1},
	"iter":         {Name: "iter", Rewrite: RewriteErase},
	"iter_mut":     {Name: "iter_mut", Rewrite: RewriteErase},
	"into_iter":    {Name: "into_iter", Rewrite: RewriteErase},
	"as_str":       {Name: "as_str", Rewrite: RewriteErase},
	"as_ref":       {Name: "as_ref", Rewrite: RewriteErase},
	"borrow":       {Name: "borrow", Rewrite: RewriteErase},
	"borrow_mut":   {Name: "borrow_mut", Rewrite: RewriteErase},
	"to_owned":     {Name: "to_owned", Rewrite: RewriteErase},
	"clone":        {Name: "clone", Rewrite: RewriteAlias},
	"lock":         {Name: "lock", Rewrite: RewriteAcquire},
	"to_string":    {Name: "to_string", Rewrite: RewriteWrap, JS: "String"},
	"len":          {Name: "len", Rewrite: RewriteProperty, JS: "length"},
	"contains":     {Name: "contains", Rewrite: RewriteRename, JS: "includes", Arity: 1},
	"starts_with":  {Name: "starts_with", Rewrite: RewriteRename, JS: "startsWith", Arity: 1},
	"ends_with":    {Name: "ends_with", Rewrite: RewriteRename, JS: "endsWith", Arity: 1},
	"to_uppercase": {Name: "to_uppercase", Rewrite: RewriteRename, JS: "toUpperCase"},
	"to_lowercase": {Name: "to_lowercase", Rewrite: RewriteRename, JS: "toLowerCase"},
	"trim":         {Name: "trim", Rewrite: RewriteRename, JS: "trim"},
	"push":         {Name: "push", Rewrite: RewriteRename, JS: "push", Arity: 1},
	"is_some":      {Name: "is_some", Rewrite: RewriteNullTest, JS: "!="},
	"is_none":      {Name: "is_none", Rewrite: RewriteNullTest, JS: "=="},
	"is_empty":     {Name: "is_empty", Rewrite: RewriteEmptyTest},
}

// LookupMethod finds the compatibility row for a method called with argc
// arguments.
func LookupMethod(name string, argc int) (Method, bool) {
	m, ok := methodTable[name]
	if !ok || (m.Arity >= 0 && m.Arity != argc) {
		return Method{}, false
	}
	return m, true
}

// Option constructors of the source language.
const (
	OptionSome = "Some"
	OptionNone = "None"
)
