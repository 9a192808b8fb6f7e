package hir

import (
	"mojes/internal/source"
)

// Param represents a function parameter.
type Param struct {
	Name string
	Type string // type tag as written by the front end
	Pos  source.Pos
}

// Func is one annotated function, the unit of work of the transpiler.
type Func struct {
	Name   string
	Params []Param
	Result string // result type tag; "" or "()" is unit
	Body   *Block
	Pos    source.Pos
}

// ReturnsValue reports whether the function has a non-unit result, so the
// body tail becomes the returned value.
func (f *Func) ReturnsValue() bool {
	return f.Result != "" && f.Result != "()"
}

// ParamNames returns parameter names in declaration order.
func (f *Func) ParamNames() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Name
	}
	return out
}
