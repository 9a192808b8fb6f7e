package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Pos points at a location in the annotated source as reported by the front end.
// Zero value means "unknown".
type Pos struct {
	File string `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Line uint32 `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"` // 1-based
	Col  uint32 `json:"col,omitempty" yaml:"col,omitempty" msgpack:"col,omitempty"`    // 1-based
}

// IsValid reports whether the position carries at least a line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	file := NormalizePath(p.File)
	switch {
	case !p.IsValid() && file == "":
		return "-"
	case !p.IsValid():
		return file
	case file == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
}

// Before orders positions by file, line and column.
func (p Pos) Before(other Pos) bool {
	if p.File != other.File {
		return p.File < other.File
	}
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// NormalizePath converts separators to slashes and drops leading "./".
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}
