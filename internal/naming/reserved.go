package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// reservedWords are names a user binding may never take in emitted code:
// keywords of either dialect, strict-mode restrictions, and the globals the
// prelude and the lowering rules depend on.
var reservedWords = toSet(
	"break", "case", "catch", "class", "const", "continue", "debugger", "default",
	"delete", "do", "else", "enum", "export", "extends", "false", "finally", "for",
	"function", "if", "import", "in", "instanceof", "new", "null", "return", "super",
	"switch", "this", "throw", "true", "try", "typeof", "var", "void", "while", "with",
	"yield", "let", "static", "implements", "interface", "package", "private",
	"protected", "public", "await", "arguments", "eval", "undefined", "NaN", "Infinity",
	"Mutex", "__mojes", "String", "Array", "Object", "JSON", "Math",
)

func toSet(words ...string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[w] = true
	}
	return out
}

// IsReserved reports whether name is a reserved word of the emitted code.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// Normalize returns the NFC form of a source name with any raw-identifier
// prefix (r#type) removed.
func Normalize(name string) string {
	name = strings.TrimPrefix(name, "r#")
	return norm.NFC.String(name)
}

// IsIdentifier reports whether name is a valid JS identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)):
		default:
			return false
		}
	}
	return true
}
