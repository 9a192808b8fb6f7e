package jsrt

import (
	"fmt"
	"strings"
)

// compound is one simple selector: tag, #id and .class parts.
type compound struct {
	tag     string
	id      string
	classes []string
}

// chain is a descendant chain: "form input" matches inputs inside a form.
type chain []compound

// selectorList is a comma-separated group of chains.
type selectorList []chain

func parseSelector(src string) (selectorList, error) {
	var out selectorList
	for _, group := range strings.Split(src, ",") {
		fields := strings.Fields(group)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty selector in %q", src)
		}
		var c chain
		for _, f := range fields {
			comp, err := parseCompound(f)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", src, err)
			}
			c = append(c, comp)
		}
		out = append(out, c)
	}
	return out, nil
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	name := func() string {
		start := i
		for i < len(s) && isNameByte(s[i]) {
			i++
		}
		return s[start:i]
	}
	if i < len(s) && s[i] == '*' {
		i++
	} else {
		c.tag = strings.ToLower(name())
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			c.id = name()
			if c.id == "" {
				return c, fmt.Errorf("empty id in %q", s)
			}
		case '.':
			i++
			cls := name()
			if cls == "" {
				return c, fmt.Errorf("empty class in %q", s)
			}
			c.classes = append(c.classes, cls)
		default:
			return c, fmt.Errorf("unsupported selector syntax %q", s[i:])
		}
	}
	return c, nil
}

func (c compound) matches(e *Element) bool {
	if c.tag != "" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && c.id != e.ID() {
		return false
	}
	for _, cls := range c.classes {
		if !e.HasClass(cls) {
			return false
		}
	}
	return true
}

func (c chain) matches(e *Element) bool {
	last := len(c) - 1
	if !c[last].matches(e) {
		return false
	}
	i := last - 1
	for p := e.Parent; p != nil && i >= 0; p = p.Parent {
		if c[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func (l selectorList) matches(e *Element) bool {
	for _, c := range l {
		if c.matches(e) {
			return true
		}
	}
	return false
}
