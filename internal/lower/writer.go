package lower

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Writer accumulates emitted JS and tracks indentation.
type Writer struct {
	buf         strings.Builder
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer positioned at the start of a line.
func NewWriter() *Writer {
	return &Writer{atLineStart: true}
}

// Sub returns a writer for a multi-line expression embedded at the current
// indentation: its first line continues the current line, the following
// lines carry absolute indentation.
func (w *Writer) Sub() *Writer {
	return &Writer{indentLevel: w.indentLevel}
}

// String returns the accumulated output.
func (w *Writer) String() string {
	return w.buf.String()
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for i := 0; i < w.indentLevel; i++ {
		w.buf.WriteString(indentUnit)
	}
	w.atLineStart = false
}

// WriteString writes s; an embedded multi-line string is copied as is.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf.WriteString(s)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.atLineStart = true
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Linef writes a formatted line.
func (w *Writer) Linef(format string, args ...interface{}) {
	w.Line(fmt.Sprintf(format, args...))
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
