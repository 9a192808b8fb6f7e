package lower

import (
	"fmt"
	"strconv"
	"strings"

	"mojes/internal/hir"
)

var (
	intSuffixes   = []string{"i128", "u128", "isize", "usize", "i64", "u64", "i32", "u32", "i16", "u16", "i8", "u8"}
	floatSuffixes = []string{"f32", "f64"}
)

func literal(data hir.LiteralData) string {
	switch data.Kind {
	case hir.LiteralInt, hir.LiteralFloat:
		return numberLiteral(data.Text)
	case hir.LiteralBool:
		if data.Text == "true" {
			return "true"
		}
		return "false"
	case hir.LiteralString:
		return quoteJS(data.Text)
	default:
		return "undefined"
	}
}

// numberLiteral strips digit separators and type suffixes; octal and binary
// literals become decimal so both dialects accept them.
func numberLiteral(text string) string {
	s := strings.ReplaceAll(text, "_", "")
	hex := strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
	s = trimSuffix(s, intSuffixes)
	if !hex {
		s = trimSuffix(s, floatSuffixes)
	}
	if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0b") {
		if v, err := strconv.ParseInt(s, 0, 64); err == nil {
			s = strconv.FormatInt(v, 10)
		}
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if s == "" {
		return "0"
	}
	return s
}

func trimSuffix(s string, suffixes []string) string {
	for _, suf := range suffixes {
		if len(s) > len(suf) && strings.HasSuffix(s, suf) {
			return s[:len(s)-len(suf)]
		}
	}
	return s
}

// quoteJS renders s as a double-quoted JS string literal that is also safe
// inside an HTML script element.
func quoteJS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	escapeInto(&b, s, '"')
	b.WriteByte('"')
	return b.String()
}

// escapeTemplate escapes literal text placed between template substitutions.
func escapeTemplate(s string) string {
	var b strings.Builder
	escapeInto(&b, s, '`')
	return b.String()
}

func escapeInto(b *strings.Builder, s string, quote rune) {
	var prev rune
	for i, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\u2028' || r == '\u2029':
			fmt.Fprintf(b, `\u%04x`, r)
		case r == '/' && prev == '<':
			b.WriteString(`\/`)
		case r == '$' && quote == '`' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
}
