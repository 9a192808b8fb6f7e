// Package project reads the mojes.toml manifest.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"mojes/internal/hostapi"
	"mojes/internal/lower"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// PackageSection is [package].
type PackageSection struct {
	Name string `toml:"name"`
}

// BuildSection is [build]. Paths are relative to the manifest directory.
type BuildSection struct {
	Inputs         []string `toml:"inputs"`
	Output         string   `toml:"output"`
	Page           string   `toml:"page"`
	Dialect        string   `toml:"dialect"`
	Prelude        *bool    `toml:"prelude"`
	Duplicates     string   `toml:"duplicates"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Cache          *bool    `toml:"cache"`
}

// ServeSection is [serve].
type ServeSection struct {
	Addr  string `toml:"addr"`
	Title string `toml:"title"`
}

// RunSection is [run]; it configures the simulated host of `mojes run`.
type RunSection struct {
	MaxTurns int `toml:"max_turns"`
	// Respond holds canned responses, "URL=[STATUS:]BODY".
	Respond  []string `toml:"respond"`
	Net      bool     `toml:"net"`
	Language string   `toml:"language"`
	Confirm  bool     `toml:"confirm"`
}

// Manifest is a decoded mojes.toml.
type Manifest struct {
	Path    string          `toml:"-"`
	Root    string          `toml:"-"`
	Package PackageSection  `toml:"package"`
	Build   BuildSection    `toml:"build"`
	Serve   ServeSection    `toml:"serve"`
	Run     RunSection      `toml:"run"`
	HostAPI []hostapi.Entry `toml:"hostapi"`

	dialect    lower.Dialect
	duplicates lower.DuplicatePolicy
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(m.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if m.dialect, err = lower.ParseDialect(m.Build.Dialect); err != nil {
		return nil, fmt.Errorf("%s: [build].dialect: %w", path, err)
	}
	if m.duplicates, err = lower.ParseDuplicatePolicy(m.Build.Duplicates); err != nil {
		return nil, fmt.Errorf("%s: [build].duplicates: %w", path, err)
	}
	if m.Build.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [build].max_diagnostics must not be negative", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	return &m, nil
}

// Dialect returns the validated [build].dialect.
func (m *Manifest) Dialect() lower.Dialect { return m.dialect }

// Duplicates returns the validated [build].duplicates.
func (m *Manifest) Duplicates() lower.DuplicatePolicy { return m.duplicates }

// Prelude reports whether the script embeds the shim prelude (default true).
func (m *Manifest) Prelude() bool { return m.Build.Prelude == nil || *m.Build.Prelude }

// CacheEnabled reports whether the fragment cache is used (default true).
func (m *Manifest) CacheEnabled() bool { return m.Build.Cache == nil || *m.Build.Cache }

// Resolve makes p absolute against the manifest directory.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// InputPaths returns [build].inputs resolved against the manifest directory.
func (m *Manifest) InputPaths() []string {
	out := make([]string, len(m.Build.Inputs))
	for i, p := range m.Build.Inputs {
		out[i] = m.Resolve(p)
	}
	return out
}

// Catalog returns the default host catalog extended by the [[hostapi]] rows.
// A row with the same receiver and name as a default row replaces it.
func (m *Manifest) Catalog() (*hostapi.Catalog, error) {
	cat := hostapi.Default().Clone()
	if m == nil {
		return cat, nil
	}
	for i, e := range m.HostAPI {
		if err := cat.Add(e); err != nil {
			return nil, fmt.Errorf("%s: hostapi[%d]: %w", m.Path, i, err)
		}
	}
	return cat, nil
}

// Template returns the manifest written by `mojes init`.
func Template(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[build]
inputs = ["functions"]
output = "dist/program.js"
page = "dist/index.html"
dialect = "es2015"
duplicates = "warn"

[serve]
addr = "localhost:3000"

[run]
max_turns = 10000

# Extra host API rows, emitted verbatim:
# [[hostapi]]
# receiver = "element"
# name = "scrollIntoView"
# kind = "method"
`, name)
}
