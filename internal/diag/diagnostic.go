package diag

import (
	"mojes/internal/source"
)

type Note struct {
	Pos source.Pos `msgpack:"pos"`
	Msg string     `msgpack:"msg"`
}

type Diagnostic struct {
	Severity Severity   `msgpack:"sev"`
	Code     Code       `msgpack:"code"`
	Message  string     `msgpack:"msg"`
	Func     string     `msgpack:"func,omitempty"`
	Primary  source.Pos `msgpack:"pos"`
	Notes    []Note     `msgpack:"notes,omitempty"`
}

func New(sev Severity, code Code, fn string, primary source.Pos, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Func:     fn,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, fn string, primary source.Pos, msg string) Diagnostic {
	return New(SevError, code, fn, primary, msg)
}

func (d Diagnostic) WithNote(pos source.Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
