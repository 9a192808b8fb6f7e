package jsrt

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/robertkrimen/otto"
	"go.uber.org/zap"
)

func joinArgs(call otto.FunctionCall) string {
	parts := make([]string, len(call.ArgumentList))
	for i, a := range call.ArgumentList {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func (r *Runtime) installConsole() error {
	console := r.newObject()
	for _, level := range []string{"log", "info", "debug", "warn", "error"} {
		level := level
		if err := console.Set(level, func(call otto.FunctionCall) otto.Value {
			r.emitConsole(level, joinArgs(call))
			return otto.UndefinedValue()
		}); err != nil {
			return err
		}
	}
	return r.vm.Set("console", console)
}

func (r *Runtime) installDialogs() error {
	if err := r.vm.Set("alert", func(call otto.FunctionCall) otto.Value {
		msg := argString(call, 0)
		r.alerts = append(r.alerts, msg)
		r.emitConsole("alert", msg)
		return otto.UndefinedValue()
	}); err != nil {
		return err
	}
	if err := r.vm.Set("confirm", func(call otto.FunctionCall) otto.Value {
		r.emitConsole("confirm", argString(call, 0))
		return r.value(r.opts.Confirm)
	}); err != nil {
		return err
	}
	return r.vm.Set("prompt", func(call otto.FunctionCall) otto.Value {
		r.emitConsole("prompt", argString(call, 0))
		if r.opts.Prompt == "" {
			return otto.NullValue()
		}
		return r.value(r.opts.Prompt)
	})
}

func (r *Runtime) installTimers() error {
	schedule := func(repeat bool) func(call otto.FunctionCall) otto.Value {
		return func(call otto.FunctionCall) otto.Value {
			fn := call.Argument(0)
			if !fn.IsFunction() {
				r.throw("TypeError", "timer callback is not a function")
			}
			var extra []interface{}
			for _, a := range call.ArgumentList[min(2, len(call.ArgumentList)):] {
				extra = append(extra, a)
			}
			run := func() { r.invoke(fn, otto.UndefinedValue(), extra...) }
			var id int
			if repeat {
				id = r.loop.SetInterval(run, argMillis(call, 1))
			} else {
				id = r.loop.SetTimeout(run, argMillis(call, 1))
			}
			return r.value(id)
		}
	}
	cancel := func(kind TaskKind) func(call otto.FunctionCall) otto.Value {
		return func(call otto.FunctionCall) otto.Value {
			if id, err := call.Argument(0).ToInteger(); err == nil {
				r.loop.Cancel(kind, int(id))
			}
			return otto.UndefinedValue()
		}
	}
	natives := []struct {
		name string
		fn   func(otto.FunctionCall) otto.Value
	}{
		{"setTimeout", schedule(false)},
		{"setInterval", schedule(true)},
		{"clearTimeout", cancel(TaskTimeout)},
		{"clearInterval", cancel(TaskInterval)},
		{"cancelAnimationFrame", cancel(TaskFrame)},
		{"requestAnimationFrame", func(call otto.FunctionCall) otto.Value {
			fn := call.Argument(0)
			if !fn.IsFunction() {
				r.throw("TypeError", "frame callback is not a function")
			}
			id := r.loop.RequestFrame(func() {
				r.invoke(fn, otto.UndefinedValue(), float64(r.loop.Now())/float64(time.Millisecond))
			})
			return r.value(id)
		}},
	}
	for _, n := range natives {
		if err := r.vm.Set(n.name, n.fn); err != nil {
			return err
		}
	}
	return nil
}

// Storage is a simulated Web Storage area. Keys keep insertion order.
type Storage struct {
	keys []string
	data map[string]string
	obj  *otto.Object
}

func newStorage() *Storage {
	return &Storage{data: make(map[string]string)}
}

// Get returns the stored value.
func (s *Storage) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set stores a value.
func (s *Storage) Set(key, value string) {
	if _, ok := s.data[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.data[key] = value
	s.sync()
}

// Remove deletes a key; missing keys are ignored.
func (s *Storage) Remove(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	s.sync()
}

// Clear removes every key.
func (s *Storage) Clear() {
	s.keys = nil
	s.data = make(map[string]string)
	s.sync()
}

// Len returns the number of keys.
func (s *Storage) Len() int { return len(s.keys) }

// Keys returns the keys in sorted order.
func (s *Storage) Keys() []string {
	out := append([]string(nil), s.keys...)
	sort.Strings(out)
	return out
}

func (s *Storage) sync() {
	if s.obj != nil {
		_ = s.obj.Set("length", len(s.keys))
	}
}

func (r *Runtime) storageObject(s *Storage) (*otto.Object, error) {
	obj := r.newObject()
	s.obj = obj
	methods := map[string]func(call otto.FunctionCall) otto.Value{
		"getItem": func(call otto.FunctionCall) otto.Value {
			v, ok := s.Get(argString(call, 0))
			if !ok {
				return otto.NullValue()
			}
			return r.value(v)
		},
		"setItem": func(call otto.FunctionCall) otto.Value {
			s.Set(argString(call, 0), call.Argument(1).String())
			return otto.UndefinedValue()
		},
		"removeItem": func(call otto.FunctionCall) otto.Value {
			s.Remove(argString(call, 0))
			return otto.UndefinedValue()
		},
		"clear": func(call otto.FunctionCall) otto.Value {
			s.Clear()
			return otto.UndefinedValue()
		},
		"key": func(call otto.FunctionCall) otto.Value {
			i, err := call.Argument(0).ToInteger()
			if err != nil || i < 0 || int(i) >= len(s.keys) {
				return otto.NullValue()
			}
			return r.value(s.keys[i])
		},
	}
	for name, fn := range methods {
		if err := obj.Set(name, fn); err != nil {
			return nil, err
		}
	}
	s.sync()
	return obj, nil
}

func (r *Runtime) installStorage() error {
	r.local, r.session = newStorage(), newStorage()
	local, err := r.storageObject(r.local)
	if err != nil {
		return err
	}
	session, err := r.storageObject(r.session)
	if err != nil {
		return err
	}
	if err := r.vm.Set("localStorage", local); err != nil {
		return err
	}
	return r.vm.Set("sessionStorage", session)
}

func (r *Runtime) installLocation() error {
	loc := r.newObject()
	r.location = loc
	if err := r.setHref(r.opts.Href); err != nil {
		return err
	}
	if err := loc.Set("reload", func(call otto.FunctionCall) otto.Value {
		r.reloads++
		Logger().Info("location.reload", zap.Int("count", r.reloads))
		return otto.UndefinedValue()
	}); err != nil {
		return err
	}
	navigate := func(call otto.FunctionCall) otto.Value {
		if err := r.setHref(argString(call, 0)); err != nil {
			r.throw("SyntaxError", err.Error())
		}
		return otto.UndefinedValue()
	}
	if err := loc.Set("assign", navigate); err != nil {
		return err
	}
	if err := loc.Set("replace", navigate); err != nil {
		return err
	}
	if err := loc.Set("toString", func(call otto.FunctionCall) otto.Value {
		v, _ := loc.Get("href")
		return v
	}); err != nil {
		return err
	}
	return r.vm.Set("location", loc)
}

// setHref resolves href against the current location and updates every
// location field.
func (r *Runtime) setHref(href string) error {
	u, err := url.Parse(href)
	if err != nil {
		return err
	}
	if cur, err := r.location.Get("href"); err == nil && cur.IsString() {
		if base, err := url.Parse(cur.String()); err == nil {
			u = base.ResolveReference(u)
		}
	}
	search := ""
	if u.RawQuery != "" {
		search = "?" + u.RawQuery
	}
	hash := ""
	if u.Fragment != "" {
		hash = "#" + u.Fragment
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	fields := map[string]string{
		"href":     u.String(),
		"protocol": u.Scheme + ":",
		"host":     u.Host,
		"hostname": u.Hostname(),
		"port":     u.Port(),
		"pathname": path,
		"search":   search,
		"hash":     hash,
		"origin":   u.Scheme + "://" + u.Host,
	}
	for k, v := range fields {
		if err := r.location.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Href returns the current location.
func (r *Runtime) Href() string {
	v, err := r.location.Get("href")
	if err != nil {
		return ""
	}
	return v.String()
}

func (r *Runtime) installWindow() error {
	nav := r.newObject()
	props := map[string]interface{}{
		"userAgent": r.opts.UserAgent,
		"language":  r.opts.Language,
		"platform":  "mojes",
		"onLine":    true,
	}
	for k, v := range props {
		if err := nav.Set(k, v); err != nil {
			return err
		}
	}
	if err := nav.Set("languages", r.newArray([]otto.Value{r.value(r.opts.Language)})); err != nil {
		return err
	}
	if err := r.vm.Set("navigator", nav); err != nil {
		return err
	}
	if err := r.setSize(r.opts.Width, r.opts.Height); err != nil {
		return err
	}
	if err := r.vm.Set("devicePixelRatio", 1); err != nil {
		return err
	}
	win, err := r.vm.Get("window")
	if err != nil {
		return err
	}
	if err := r.addListenerMethods(win.Object(), &r.windowEvents); err != nil {
		return err
	}
	for _, name := range []string{"addEventListener", "removeEventListener", "dispatchEvent"} {
		fn, err := win.Object().Get(name)
		if err != nil {
			return err
		}
		if err := r.vm.Set(name, fn); err != nil {
			return err
		}
	}
	return r.vm.Set("getComputedStyle", func(call otto.FunctionCall) otto.Value {
		el := r.doc.fromValue(call.Argument(0))
		if el == nil {
			r.throw("TypeError", "getComputedStyle argument is not an element")
		}
		return r.computedStyle(el)
	})
}

func (r *Runtime) setSize(w, h int) error {
	sizes := map[string]int{
		"innerWidth":  w,
		"innerHeight": h,
		"outerWidth":  w,
		"outerHeight": h,
	}
	for k, v := range sizes {
		if err := r.vm.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Resize changes the window size and fires resize on window.
func (r *Runtime) Resize(w, h int) error {
	if err := r.setSize(w, h); err != nil {
		return err
	}
	win, err := r.vm.Get("window")
	if err != nil {
		return err
	}
	r.dispatch(win.Object(), &r.windowEvents, "resize")
	return nil
}

// FireWindow dispatches an event of typ on window.
func (r *Runtime) FireWindow(typ string) error {
	win, err := r.vm.Get("window")
	if err != nil {
		return err
	}
	r.dispatch(win.Object(), &r.windowEvents, typ)
	return nil
}
