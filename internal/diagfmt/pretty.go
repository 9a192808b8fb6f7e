// Package diagfmt renders diagnostic bags for terminals and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"mojes/internal/diag"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message> (in <func>)
// затем строки исходника с ^ под колонкой, если он доступен, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeHeader(w, p, d, opts)
		if opts.ShowPreview {
			writePreview(w, p, d, opts)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				at := formatPos(n.Pos, opts.PathMode, opts.BaseDir)
				if at == "-" {
					fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
					continue
				}
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), at, n.Msg)
			}
		}
	}
}

func writeHeader(w io.Writer, p palette, d diag.Diagnostic, opts PrettyOpts) {
	var b strings.Builder
	if at := formatPos(d.Primary, opts.PathMode, opts.BaseDir); at != "-" {
		b.WriteString(at)
		b.WriteString(": ")
	}
	b.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
	b.WriteString(" ")
	b.WriteString(p.code.Sprint(d.Code.ID()))
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Func != "" {
		b.WriteString(" (in " + d.Func + ")")
	}
	fmt.Fprintln(w, b.String())
}

func writePreview(w io.Writer, p palette, d diag.Diagnostic, opts PrettyOpts) {
	lines := previewFor(opts.Source, d.Primary, int(opts.Context))
	if len(lines) == 0 {
		return
	}
	width := len(fmt.Sprint(lines[len(lines)-1].num))
	for _, l := range lines {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, l.num), l.text)
		if l.num == int(d.Primary.Line) && d.Primary.Col > 0 {
			pad := strings.Repeat(" ", int(d.Primary.Col)-1)
			fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint("^"))
		}
	}
}

// Summary returns "N errors, M warnings" for the bag, or "" when it holds
// neither.
func Summary(bag *diag.Bag) string {
	if bag == nil {
		return ""
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Short writes one line per diagnostic in the stable golden format.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), includeNotes))
}
