// Package hostapi holds the catalog of browser API names that lowered code
// must call verbatim. The catalog is data: supporting a new host API means
// adding rows, not code paths.
package hostapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a catalog row.
type Kind uint8

const (
	// KindObject is a global receiver object (document, window, ...).
	KindObject Kind = iota
	// KindFunction is a global function (alert, setTimeout, ...).
	KindFunction
	// KindMethod is a method on a receiver kind.
	KindMethod
	// KindProperty is a zero-argument getter in source that is a property in JS.
	KindProperty
	// KindConstructor is a Type::new path that becomes `new Type(...)`.
	KindConstructor
	// KindConstant is a path that maps to a host constant expression.
	KindConstant
)

var kindNames = [...]string{
	KindObject:      "object",
	KindFunction:    "function",
	KindMethod:      "method",
	KindProperty:    "property",
	KindConstructor: "constructor",
	KindConstant:    "constant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the manifest decoder.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown catalog kind %q", s)
}

// Receiver kinds used by the default rows.
const (
	RecvDocument  = "document"
	RecvWindow    = "window"
	RecvConsole   = "console"
	RecvStorage   = "storage"
	RecvLocation  = "location"
	RecvNavigator = "navigator"
	RecvElement   = "element"
	RecvNodeList  = "nodelist"
	RecvStyle     = "style"
	RecvRequest   = "xhr"
	RecvEvent     = "event"
)

// Entry is one catalog row. Every row is pass-through: the lowered name is
// emitted verbatim, including case.
type Entry struct {
	// Receiver is the receiver kind for methods and properties, the path
	// prefix for constructors and constants ("XMLHttpRequest",
	// "xhr_ready_state"), empty for globals.
	Receiver string `toml:"receiver"`
	Name     string `toml:"name"`
	Kind     Kind   `toml:"kind"`
	// JS overrides the emitted spelling (println -> console.log). Defaults to Name.
	JS string `toml:"js"`
	// Returns names the receiver kind of a returned host handle; objects use it
	// for their own kind.
	Returns string `toml:"returns"`
}

// Emit returns the JS spelling of the row.
func (e Entry) Emit() string {
	if e.JS != "" {
		return e.JS
	}
	return e.Name
}

// Passthrough is true for every catalog row.
func (e Entry) Passthrough() bool { return true }

func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("catalog row without a name")
	}
	switch e.Kind {
	case KindObject, KindFunction:
		if e.Receiver != "" {
			return fmt.Errorf("global %s %q must not have a receiver", e.Kind, e.Name)
		}
	case KindMethod, KindProperty, KindConstructor, KindConstant:
		if e.Receiver == "" {
			return fmt.Errorf("%s %q needs a receiver", e.Kind, e.Name)
		}
	default:
		return fmt.Errorf("row %q: unknown kind %d", e.Name, e.Kind)
	}
	return nil
}

type memberKey struct {
	receiver string
	name     string
}

// Catalog indexes rows for lookup by the identifier policy.
type Catalog struct {
	entries []Entry
	globals map[string]int
	members map[memberKey]int
	paths   map[string]int
}

// New builds a catalog from rows; later rows replace earlier ones with the same key.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		globals: make(map[string]int),
		members: make(map[memberKey]int),
		paths:   make(map[string]int),
	}
	for _, e := range entries {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default returns a fresh copy of the built-in browser catalog.
func Default() *Catalog {
	c, err := New(defaultRows...)
	if err != nil {
		panic(fmt.Sprintf("hostapi: default catalog: %v", err))
	}
	return c
}

// Clone returns an independent copy.
func (c *Catalog) Clone() *Catalog {
	out, err := New(c.entries...)
	if err != nil {
		panic(fmt.Sprintf("hostapi: clone: %v", err))
	}
	return out
}

// Add inserts or replaces a row.
func (c *Catalog) Add(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	switch e.Kind {
	case KindObject, KindFunction:
		c.put(c.globals, e.Name, e)
	case KindMethod, KindProperty:
		key := memberKey{receiver: e.Receiver, name: e.Name}
		if idx, ok := c.members[key]; ok {
			c.entries[idx] = e
			return nil
		}
		c.entries = append(c.entries, e)
		c.members[key] = len(c.entries) - 1
	case KindConstructor, KindConstant:
		c.put(c.paths, e.Receiver+"::"+e.Name, e)
	}
	return nil
}

func (c *Catalog) put(index map[string]int, key string, e Entry) {
	if idx, ok := index[key]; ok {
		c.entries[idx] = e
		return
	}
	c.entries = append(c.entries, e)
	index[key] = len(c.entries) - 1
}

// Global looks up a global object or function by name.
func (c *Catalog) Global(name string) (Entry, bool) {
	idx, ok := c.globals[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Member looks up a method or property row for a receiver kind.
func (c *Catalog) Member(receiver, name string) (Entry, bool) {
	idx, ok := c.members[memberKey{receiver: receiver, name: name}]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Path looks up a constructor or constant by its path segments.
func (c *Catalog) Path(segments []string) (Entry, bool) {
	if len(segments) < 2 {
		return Entry{}, false
	}
	key := strings.Join(segments[:len(segments)-1], "::") + "::" + segments[len(segments)-1]
	idx, ok := c.paths[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// GlobalNames returns the JS names of all global rows, sorted.
func (c *Catalog) GlobalNames() []string {
	names := make([]string, 0, len(c.globals))
	for name, idx := range c.globals {
		names = append(names, name)
		if js := c.entries[idx].Emit(); js != name && !strings.Contains(js, ".") {
			names = append(names, js)
		}
	}
	sort.Strings(names)
	return names
}

// Entries returns rows sorted by kind, receiver and name.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Receiver != out[j].Receiver {
			return out[i].Receiver < out[j].Receiver
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.entries) }

// Fingerprint is a stable digest of the rows, used in cache keys.
func (c *Catalog) Fingerprint() string {
	h := sha256.New()
	for _, e := range c.Entries() {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s\n", e.Kind, e.Receiver, e.Name, e.JS, e.Returns)
	}
	return hex.EncodeToString(h.Sum(nil))
}
