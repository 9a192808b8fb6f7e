package driver

import (
	"testing"

	"mojes/internal/diag"
	"mojes/internal/emit"
	"mojes/internal/lower"
	"mojes/internal/naming"
	"mojes/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := digestBytes([]byte("add"))
	var out FragmentPayload
	if hit, err := c.Get(key, &out); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	in := &FragmentPayload{
		OK:       true,
		Fragment: emit.Fragment{Name: "add", Text: "function add(a, b) {\n    return a + b;\n}", Params: []string{"a", "b"}},
		Diags:    []diag.Diagnostic{diag.New(diag.SevWarning, diag.UnresIdentifier, "add", source.Pos{File: "a.rs", Line: 3}, "x")},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}
	hit, err := c.Get(key, &out)
	if !hit || err != nil {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	if out.Fragment.Text != in.Fragment.Text || len(out.Diags) != 1 || out.Diags[0].Primary.Line != 3 {
		t.Fatalf("payload = %+v", out)
	}

	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, _ := c.Get(key, &out); hit {
		t.Fatalf("DropAll must invalidate entries")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &FragmentPayload{}); err != nil {
		t.Fatal(err)
	}
	if hit, err := c.Get(Digest{}, &FragmentPayload{}); hit || err != nil {
		t.Fatalf("nil cache: hit=%v err=%v", hit, err)
	}
}

func TestFragmentKey(t *testing.T) {
	policy := naming.NewPolicy(nil, []string{"helper"}, nil)
	base, err := fragmentKey(add(), lower.Options{}, policy, nil)
	if err != nil || base.IsZero() {
		t.Fatalf("key = %s, err = %v", base, err)
	}
	same, _ := fragmentKey(add(), lower.Options{}, policy, nil)
	if same != base {
		t.Fatalf("key must be deterministic")
	}
	variants := map[string]func() (Digest, error){
		"dialect": func() (Digest, error) {
			return fragmentKey(add(), lower.Options{Dialect: lower.ES5}, policy, nil)
		},
		"registered": func() (Digest, error) {
			return fragmentKey(add(), lower.Options{}, naming.NewPolicy(nil, nil, nil), nil)
		},
		"later": func() (Digest, error) {
			return fragmentKey(add(), lower.Options{}, policy, []string{"next"})
		},
		"body": func() (Digest, error) {
			fn := add()
			fn.Name = "sum"
			return fragmentKey(fn, lower.Options{}, policy, nil)
		},
		"position": func() (Digest, error) {
			fn := add()
			fn.Pos = source.Pos{File: "a.rs", Line: 9}
			return fragmentKey(fn, lower.Options{}, policy, nil)
		},
	}
	for name, mk := range variants {
		k, err := mk()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if k == base {
			t.Errorf("%s must change the key", name)
		}
	}
}
