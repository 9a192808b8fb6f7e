package jsrt

import (
	"html"
	"sort"
	"strings"

	"github.com/robertkrimen/otto"

	"mojes/internal/hostapi"
)

// Element is a node of the simulated document. Properties scripts can
// assign (id, className, innerHTML, textContent, value) live on the JS
// object once it exists; the accessors read them from there.
type Element struct {
	Tag      string
	Parent   *Element
	Children []*Element

	id        int
	elemID    string
	class     string
	text      string
	attrs     map[string]string
	doc       *Document
	obj       *otto.Object
	listeners listenerSet
}

// Document is the simulated document rooted at body.
type Document struct {
	Body *Element

	rt        *Runtime
	nextID    int
	byID      map[int]*Element
	obj       *otto.Object
	listeners listenerSet
}

func newDocument(rt *Runtime, fixtures []hostapi.Fixture) *Document {
	d := &Document{rt: rt, byID: make(map[int]*Element)}
	d.Body = d.newElement("body")
	for _, f := range fixtures {
		d.Body.appendChild(d.fromFixture(f))
	}
	return d
}

func (d *Document) newElement(tag string) *Element {
	d.nextID++
	tag = strings.ToLower(tag)
	if tag == "" {
		tag = "div"
	}
	e := &Element{Tag: tag, id: d.nextID, attrs: make(map[string]string), doc: d}
	d.byID[e.id] = e
	return e
}

func (d *Document) fromFixture(f hostapi.Fixture) *Element {
	e := d.newElement(f.Tag)
	e.elemID, e.class, e.text = f.ID, f.Class, f.Text
	for k, v := range f.Attrs {
		e.attrs[k] = v
	}
	for _, c := range f.Children {
		e.appendChild(d.fromFixture(c))
	}
	return e
}

func (e *Element) appendChild(c *Element) {
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	c.Parent = e
	e.Children = append(e.Children, c)
}

func (e *Element) removeChild(c *Element) {
	for i, cur := range e.Children {
		if cur == c {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			break
		}
	}
	c.Parent = nil
}

func (e *Element) prop(name, fallback string) string {
	if e.obj == nil {
		return fallback
	}
	v, err := e.obj.Get(name)
	if err != nil || v.IsUndefined() {
		return fallback
	}
	return v.String()
}

// ID returns the element id.
func (e *Element) ID() string { return e.prop("id", e.elemID) }

// ClassName returns the class attribute.
func (e *Element) ClassName() string { return e.prop("className", e.class) }

// HasClass reports whether the element carries cls.
func (e *Element) HasClass(cls string) bool {
	for _, c := range strings.Fields(e.ClassName()) {
		if c == cls {
			return true
		}
	}
	return false
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	switch name {
	case "id":
		id := e.ID()
		return id, id != ""
	case "class":
		c := e.ClassName()
		return c, c != ""
	case "value":
		if e.obj != nil {
			return e.prop("value", ""), true
		}
	}
	v, ok := e.attrs[name]
	return v, ok
}

// InnerHTML returns the element markup content.
func (e *Element) InnerHTML() string { return e.prop("innerHTML", e.initialInner()) }

// TextContent returns the element text.
func (e *Element) TextContent() string { return e.prop("textContent", e.initialText()) }

// Value returns the form value of the element.
func (e *Element) Value() string {
	v, _ := e.Attr("value")
	return v
}

// Style returns an inline style property in camelCase, e.g. backgroundColor.
func (e *Element) Style(name string) string {
	if e.obj == nil {
		return parseStyle(e.attrs["style"])[name]
	}
	style, err := e.obj.Get("style")
	if err != nil || !style.IsObject() {
		return ""
	}
	v, err := style.Object().Get(name)
	if err != nil || v.IsUndefined() {
		return ""
	}
	return v.String()
}

// Listeners returns the number of listeners of typ.
func (e *Element) Listeners(typ string) int { return e.listeners.count(typ) }

func (e *Element) fixture() hostapi.Fixture {
	f := hostapi.Fixture{Tag: e.Tag, ID: e.ID(), Class: e.ClassName(), Text: e.text, Attrs: e.attrs}
	for _, c := range e.Children {
		f.Children = append(f.Children, c.fixture())
	}
	return f
}

func (e *Element) initialInner() string {
	var b strings.Builder
	b.WriteString(html.EscapeString(e.text))
	for _, c := range e.Children {
		c.fixture().WriteHTML(&b)
	}
	return b.String()
}

func (e *Element) initialText() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// each walks the subtree in document order; self is included when withSelf.
func (e *Element) each(withSelf bool, fn func(*Element) bool) bool {
	if withSelf && !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.each(true, fn) {
			return false
		}
	}
	return true
}

// parseStyle reads an inline style attribute into camelCase properties.
func parseStyle(attr string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(attr, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[camelCase(k)] = strings.TrimSpace(v)
	}
	return out
}

func camelCase(prop string) string {
	parts := strings.Split(prop, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// GetByID returns the first element with the id.
func (d *Document) GetByID(id string) *Element {
	var found *Element
	d.Body.each(true, func(e *Element) bool {
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Query returns the elements matching selector in document order.
func (d *Document) Query(selector string) ([]*Element, error) {
	return d.Body.query(selector, true)
}

func (e *Element) query(selector string, withSelf bool) ([]*Element, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*Element
	e.each(withSelf, func(el *Element) bool {
		if sel.matches(el) {
			out = append(out, el)
		}
		return true
	})
	return out, nil
}

// fromValue maps a JS element object back to its Go element.
func (d *Document) fromValue(v otto.Value) *Element {
	if !v.IsObject() {
		return nil
	}
	idv, err := v.Object().Get("__mojesId")
	if err != nil {
		return nil
	}
	id, err := idv.ToInteger()
	if err != nil {
		return nil
	}
	return d.byID[int(id)]
}

func (d *Document) list(elems []*Element) otto.Value {
	items := make([]otto.Value, len(elems))
	for i, e := range elems {
		items[i] = d.object(e).Value()
	}
	return d.rt.newArray(items)
}

func (d *Document) first(elems []*Element) otto.Value {
	if len(elems) == 0 {
		return otto.NullValue()
	}
	return d.object(elems[0]).Value()
}

// queryMethods installs the lookup methods shared by document and elements.
func (d *Document) queryMethods(obj *otto.Object, root *Element, withSelf bool) error {
	r := d.rt
	run := func(call otto.FunctionCall) []*Element {
		found, err := root.query(argString(call, 0), withSelf)
		if err != nil {
			r.throw("SyntaxError", err.Error())
		}
		return found
	}
	natives := map[string]func(otto.FunctionCall) otto.Value{
		"querySelector":    func(call otto.FunctionCall) otto.Value { return d.first(run(call)) },
		"querySelectorAll": func(call otto.FunctionCall) otto.Value { return d.list(run(call)) },
		"getElementsByTagName": func(call otto.FunctionCall) otto.Value {
			tag := strings.ToLower(argString(call, 0))
			var out []*Element
			root.each(withSelf, func(e *Element) bool {
				if tag == "*" || e.Tag == tag {
					out = append(out, e)
				}
				return true
			})
			return d.list(out)
		},
		"getElementsByClassName": func(call otto.FunctionCall) otto.Value {
			want := strings.Fields(argString(call, 0))
			var out []*Element
			root.each(withSelf, func(e *Element) bool {
				for _, c := range want {
					if !e.HasClass(c) {
						return true
					}
				}
				out = append(out, e)
				return true
			})
			return d.list(out)
		},
	}
	for name, fn := range natives {
		if err := obj.Set(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) installDocument() error {
	d := newDocument(r, r.opts.Fixtures)
	r.doc = d
	obj := r.newObject()
	d.obj = obj
	if err := d.queryMethods(obj, d.Body, true); err != nil {
		return err
	}
	if err := r.addListenerMethods(obj, &d.listeners); err != nil {
		return err
	}
	natives := map[string]func(otto.FunctionCall) otto.Value{
		"getElementById": func(call otto.FunctionCall) otto.Value {
			if e := d.GetByID(argString(call, 0)); e != nil {
				return d.object(e).Value()
			}
			return otto.NullValue()
		},
		"createElement": func(call otto.FunctionCall) otto.Value {
			return d.object(d.newElement(argString(call, 0))).Value()
		},
	}
	for name, fn := range natives {
		if err := obj.Set(name, fn); err != nil {
			return err
		}
	}
	props := map[string]interface{}{
		"body":       d.object(d.Body),
		"title":      "mojes",
		"readyState": "complete",
	}
	for k, v := range props {
		if err := obj.Set(k, v); err != nil {
			return err
		}
	}
	return r.vm.Set("document", obj)
}

// object returns the JS object of an element, creating it on first use.
func (d *Document) object(e *Element) *otto.Object {
	if e.obj != nil {
		return e.obj
	}
	r := d.rt
	obj := r.newObject()
	props := map[string]interface{}{
		"__mojesId":   e.id,
		"tagName":     strings.ToUpper(e.Tag),
		"nodeName":    strings.ToUpper(e.Tag),
		"id":          e.elemID,
		"className":   e.class,
		"innerHTML":   e.initialInner(),
		"textContent": e.initialText(),
		"value":       e.attrs["value"],
		"name":        e.attrs["name"],
		"type":        e.attrs["type"],
	}
	for k, v := range props {
		_ = obj.Set(k, v)
	}
	e.obj = obj
	_ = obj.Set("style", r.styleObject(parseStyle(e.attrs["style"])))
	_ = obj.Set("classList", d.classList(e))
	_ = d.queryMethods(obj, e, false)
	_ = r.addListenerMethods(obj, &e.listeners)

	natives := map[string]func(otto.FunctionCall) otto.Value{
		"getAttribute": func(call otto.FunctionCall) otto.Value {
			if v, ok := e.Attr(argString(call, 0)); ok {
				return r.value(v)
			}
			return otto.NullValue()
		},
		"setAttribute": func(call otto.FunctionCall) otto.Value {
			e.setAttribute(argString(call, 0), call.Argument(1).String())
			return otto.UndefinedValue()
		},
		"removeAttribute": func(call otto.FunctionCall) otto.Value {
			name := argString(call, 0)
			delete(e.attrs, name)
			switch name {
			case "id":
				_ = obj.Set("id", "")
			case "class":
				_ = obj.Set("className", "")
			}
			return otto.UndefinedValue()
		},
		"insertAdjacentHTML": func(call otto.FunctionCall) otto.Value {
			e.insertAdjacentHTML(argString(call, 0), argString(call, 1))
			return otto.UndefinedValue()
		},
		"appendChild": func(call otto.FunctionCall) otto.Value {
			child := d.fromValue(call.Argument(0))
			if child == nil {
				r.throw("TypeError", "appendChild argument is not an element")
			}
			e.appendChild(child)
			var b strings.Builder
			child.fixture().WriteHTML(&b)
			_ = obj.Set("innerHTML", e.InnerHTML()+b.String())
			_ = obj.Set("textContent", e.TextContent()+child.TextContent())
			return call.Argument(0)
		},
		"remove": func(call otto.FunctionCall) otto.Value {
			if e.Parent != nil {
				e.Parent.removeChild(e)
			}
			return otto.UndefinedValue()
		},
		"click": func(call otto.FunctionCall) otto.Value {
			d.bubble(e, "click")
			return otto.UndefinedValue()
		},
		"dispatchEvent": func(call otto.FunctionCall) otto.Value {
			typ := argString(call, 0)
			if ev := call.Argument(0); ev.IsObject() {
				if t, err := ev.Object().Get("type"); err == nil {
					typ = t.String()
				}
			}
			return r.value(!d.bubble(e, typ).prevented)
		},
		"focus": func(call otto.FunctionCall) otto.Value {
			d.bubble(e, "focus")
			return otto.UndefinedValue()
		},
		"blur": func(call otto.FunctionCall) otto.Value {
			d.bubble(e, "blur")
			return otto.UndefinedValue()
		},
	}
	for name, fn := range natives {
		_ = obj.Set(name, fn)
	}
	return obj
}

func (e *Element) setAttribute(name, value string) {
	obj := e.doc.object(e)
	switch name {
	case "id":
		_ = obj.Set("id", value)
	case "class":
		_ = obj.Set("className", value)
	case "value":
		_ = obj.Set("value", value)
	case "style":
		e.attrs[name] = value
		_ = obj.Set("style", e.doc.rt.styleObject(parseStyle(value)))
	default:
		e.attrs[name] = value
	}
}

func (e *Element) insertAdjacentHTML(pos, markup string) {
	obj := e.doc.object(e)
	switch strings.ToLower(pos) {
	case "beforeend":
		_ = obj.Set("innerHTML", e.InnerHTML()+markup)
	case "afterbegin":
		_ = obj.Set("innerHTML", markup+e.InnerHTML())
	case "beforebegin", "afterend":
		if e.Parent != nil {
			p := e.doc.object(e.Parent)
			_ = p.Set("innerHTML", e.Parent.InnerHTML()+markup)
		}
	default:
		e.doc.rt.throw("SyntaxError", "insertAdjacentHTML: invalid position "+pos)
	}
}

func (r *Runtime) styleObject(props map[string]string) *otto.Object {
	style := r.newObject()
	for k, v := range props {
		_ = style.Set(k, v)
	}
	_ = style.Set("getPropertyValue", func(call otto.FunctionCall) otto.Value {
		v, err := style.Get(camelCase(argString(call, 0)))
		if err != nil || v.IsUndefined() {
			return r.value("")
		}
		return v
	})
	return style
}

var computedDefaults = map[string]string{
	"display":         "block",
	"color":           "rgb(0, 0, 0)",
	"backgroundColor": "rgba(0, 0, 0, 0)",
	"fontSize":        "16px",
	"opacity":         "1",
}

func (r *Runtime) computedStyle(e *Element) otto.Value {
	props := make(map[string]string, len(computedDefaults))
	for k, v := range computedDefaults {
		props[k] = v
	}
	if style, err := r.doc.object(e).Get("style"); err == nil && style.IsObject() {
		for _, k := range style.Object().Keys() {
			v, err := style.Object().Get(k)
			if err != nil || v.IsFunction() {
				continue
			}
			props[k] = v.String()
		}
	}
	return r.styleObject(props).Value()
}

func (d *Document) classList(e *Element) *otto.Object {
	r := d.rt
	list := r.newObject()
	update := func(fn func(set map[string]bool, order []string) []string) {
		fields := strings.Fields(e.ClassName())
		set := make(map[string]bool, len(fields))
		for _, f := range fields {
			set[f] = true
		}
		_ = d.object(e).Set("className", strings.Join(fn(set, fields), " "))
	}
	natives := map[string]func(otto.FunctionCall) otto.Value{
		"add": func(call otto.FunctionCall) otto.Value {
			update(func(set map[string]bool, order []string) []string {
				for _, a := range call.ArgumentList {
					if !set[a.String()] {
						set[a.String()] = true
						order = append(order, a.String())
					}
				}
				return order
			})
			return otto.UndefinedValue()
		},
		"remove": func(call otto.FunctionCall) otto.Value {
			drop := make(map[string]bool)
			for _, a := range call.ArgumentList {
				drop[a.String()] = true
			}
			update(func(_ map[string]bool, order []string) []string {
				var out []string
				for _, c := range order {
					if !drop[c] {
						out = append(out, c)
					}
				}
				return out
			})
			return otto.UndefinedValue()
		},
		"toggle": func(call otto.FunctionCall) otto.Value {
			cls := argString(call, 0)
			had := e.HasClass(cls)
			update(func(_ map[string]bool, order []string) []string {
				if !had {
					return append(order, cls)
				}
				var out []string
				for _, c := range order {
					if c != cls {
						out = append(out, c)
					}
				}
				return out
			})
			return r.value(!had)
		},
		"contains": func(call otto.FunctionCall) otto.Value {
			return r.value(e.HasClass(argString(call, 0)))
		},
	}
	for name, fn := range natives {
		_ = list.Set(name, fn)
	}
	return list
}

// bubble dispatches typ on e, then on its ancestors and the document until
// a listener stops propagation.
func (d *Document) bubble(e *Element, typ string) *event {
	r := d.rt
	target := d.object(e)
	ev := r.newEvent(typ, target)
	for n := e; n != nil && !ev.stopped; n = n.Parent {
		r.fire(d.object(n), &n.listeners, ev)
	}
	if !ev.stopped {
		r.fire(d.obj, &d.listeners, ev)
	}
	return ev
}

// Click dispatches a click on the first element matching selector.
func (r *Runtime) Click(selector string) error {
	found, err := r.doc.Query(selector)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return &NoElementError{Selector: selector}
	}
	r.doc.bubble(found[0], "click")
	return nil
}

// Fire dispatches an event of typ on every element matching selector.
func (r *Runtime) Fire(selector, typ string) error {
	found, err := r.doc.Query(selector)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return &NoElementError{Selector: selector}
	}
	for _, e := range found {
		r.doc.bubble(e, typ)
	}
	return nil
}

// Ready fires DOMContentLoaded on the document and load on window.
func (r *Runtime) Ready() error {
	r.dispatch(r.doc.obj, &r.doc.listeners, "DOMContentLoaded")
	return r.FireWindow("load")
}

// NoElementError reports a selector with no match.
type NoElementError struct {
	Selector string
}

func (e *NoElementError) Error() string {
	return "no element matches " + e.Selector
}

// Elements returns every element attached to the document in document order.
func (d *Document) Elements() []*Element {
	var out []*Element
	d.Body.each(true, func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Attrs returns the element attribute names in sorted order.
func (e *Element) Attrs() []string {
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
