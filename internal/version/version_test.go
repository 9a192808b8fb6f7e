package version

import (
	"strings"
	"testing"
)

func TestColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3-rc.1"
	if got := Colored(false); got != "1.2.3-rc.1" {
		t.Fatalf("plain = %q", got)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("colored = %q", got)
	}

	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Fatalf("non-semver must pass through, got %q", got)
	}
}

func TestFingerprint(t *testing.T) {
	origV, origC := Version, GitCommit
	defer func() { Version, GitCommit = origV, origC }()

	Version, GitCommit = "1.0.0", ""
	if Fingerprint() != "1.0.0" {
		t.Fatalf("fingerprint = %q", Fingerprint())
	}
	GitCommit = "abc123"
	if Fingerprint() != "1.0.0+abc123" {
		t.Fatalf("fingerprint = %q", Fingerprint())
	}
}

func TestDescribe(t *testing.T) {
	origC, origM, origD := GitCommit, GitMessage, BuildDate
	defer func() { GitCommit, GitMessage, BuildDate = origC, origM, origD }()

	GitCommit, GitMessage, BuildDate = "", "", ""
	out := Describe(false)
	if strings.Contains(out, "commit:") || !strings.HasPrefix(out, "mojes "+Version+"\n") {
		t.Fatalf("describe:\n%s", out)
	}
	GitCommit, GitMessage, BuildDate = "abc123", "fix loop", "2024-01-15"
	out = Describe(false)
	for _, want := range []string{"commit: abc123 (fix loop)\n", "built:  2024-01-15\n", "go:     go"} {
		if !strings.Contains(out, want) {
			t.Errorf("describe misses %q:\n%s", want, out)
		}
	}
}
