package lower

import (
	"fmt"
	"strings"
)

// Dialect selects the JavaScript flavour of the output.
type Dialect uint8

const (
	// ES2015 emits let/const, arrow functions and template literals.
	ES2015 Dialect = iota
	// ES5 emits var, function expressions and string concatenation.
	ES5
)

func (d Dialect) String() string {
	if d == ES5 {
		return "es5"
	}
	return "es2015"
}

// ParseDialect maps a dialect name to Dialect; "" is ES2015.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "es2015", "es6":
		return ES2015, nil
	case "es5":
		return ES5, nil
	}
	return ES2015, fmt.Errorf("unknown dialect %q (want es2015 or es5)", s)
}

// DuplicatePolicy decides what a binding redeclared while live in the same
// block, or a function registered twice, produces.
type DuplicatePolicy uint8

const (
	// DupWarn reports a warning and lets the later declaration win.
	DupWarn DuplicatePolicy = iota
	// DupError reports a structural error.
	DupError
	// DupAllow shadows silently.
	DupAllow
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DupError:
		return "error"
	case DupAllow:
		return "allow"
	default:
		return "warn"
	}
}

// ParseDuplicatePolicy maps a policy name; "" is DupWarn.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn", "shadow":
		return DupWarn, nil
	case "error":
		return DupError, nil
	case "allow":
		return DupAllow, nil
	}
	return DupWarn, fmt.Errorf("unknown duplicate policy %q (want warn, error or allow)", s)
}

// Options configure lowering.
type Options struct {
	Dialect    Dialect
	Duplicates DuplicatePolicy
}

func (o Options) declKeyword(mutable, initialised bool) string {
	switch {
	case o.Dialect == ES5:
		return "var"
	case mutable || !initialised:
		return "let"
	default:
		return "const"
	}
}
