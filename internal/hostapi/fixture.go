package hostapi

import (
	"html"
	"sort"
	"strings"
)

// Fixture describes one element of the host document. The page renderer
// writes fixtures as markup and the embedded runtime seeds its document from
// the same data, so programs see identical elements in both hosts.
type Fixture struct {
	Tag      string            `toml:"tag" yaml:"tag"`
	ID       string            `toml:"id" yaml:"id,omitempty"`
	Class    string            `toml:"class" yaml:"class,omitempty"`
	Text     string            `toml:"text" yaml:"text,omitempty"`
	Attrs    map[string]string `toml:"attrs" yaml:"attrs,omitempty"`
	Children []Fixture         `toml:"children" yaml:"children,omitempty"`
}

var voidElements = map[string]bool{"input": true, "br": true, "img": true, "hr": true, "meta": true}

// Attr returns the value of an attribute, including id and class.
func (f Fixture) Attr(name string) (string, bool) {
	switch name {
	case "id":
		return f.ID, f.ID != ""
	case "class":
		return f.Class, f.Class != ""
	}
	v, ok := f.Attrs[name]
	return v, ok
}

// WriteHTML renders the fixture as escaped markup.
func (f Fixture) WriteHTML(b *strings.Builder) {
	tag := strings.ToLower(f.Tag)
	if tag == "" {
		tag = "div"
	}
	b.WriteString("<" + tag)
	if f.ID != "" {
		b.WriteString(` id="` + html.EscapeString(f.ID) + `"`)
	}
	if f.Class != "" {
		b.WriteString(` class="` + html.EscapeString(f.Class) + `"`)
	}
	keys := make([]string, 0, len(f.Attrs))
	for k := range f.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + html.EscapeString(k) + `="` + html.EscapeString(f.Attrs[k]) + `"`)
	}
	b.WriteString(">")
	if voidElements[tag] {
		return
	}
	b.WriteString(html.EscapeString(f.Text))
	for _, c := range f.Children {
		c.WriteHTML(b)
	}
	b.WriteString("</" + tag + ">")
}

// FixturesHTML renders a list of fixtures, one per line.
func FixturesHTML(fixtures []Fixture) string {
	var b strings.Builder
	for i, f := range fixtures {
		if i > 0 {
			b.WriteByte('\n')
		}
		f.WriteHTML(&b)
	}
	return b.String()
}
