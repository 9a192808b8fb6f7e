package diag

import (
	"testing"

	"mojes/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(StructMalformed, "f", source.Pos{}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
	b.Force(New(SevInfo, ObsTimings, "", source.Pos{}, "timings"))
	if b.Len() != 3 {
		t.Fatalf("Force must bypass the limit, got %d items", b.Len())
	}
	if !b.HasErrors() || !b.HasStructural() {
		t.Fatalf("expected structural errors to be reported")
	}
}

func TestBagUnlimited(t *testing.T) {
	b := NewBag(0)
	if b.Cap() != ^uint16(0) {
		t.Fatalf("expected unlimited cap, got %d", b.Cap())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	r := BagReporter{Bag: b}
	ReportWarning(r, UnresIdentifier, "b", source.Pos{Line: 2}, "unresolved x").Emit()
	ReportError(r, StructMissingArm, "a", source.Pos{Line: 9}, "missing none arm").Emit()
	ReportWarning(r, DupBinding, "a", source.Pos{Line: 3}, "dup y").Emit()
	ReportWarning(r, DupBinding, "a", source.Pos{Line: 3}, "dup y").Emit()
	b.Dedup()
	b.Sort()
	if b.Len() != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", b.Len())
	}
	items := b.Items()
	if items[0].Code != DupBinding || items[1].Code != StructMissingArm || items[2].Func != "b" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if b.HasStructural() != true {
		t.Fatalf("expected structural error")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		StructMissingArm: "STR1002",
		DupFunction:      "DUP2002",
		UnresIdentifier:  "UNR3001",
		IODecodeError:    "IO4002",
		RunSyntaxError:   "RUN5001",
		ObsTimings:       "OBS6001",
		UnknownCode:      "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
	if !StructMalformed.Structural() || DupBinding.Structural() {
		t.Fatalf("structural range misclassified")
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		NewError(StructMissingArm, "testFunc", source.Pos{File: "./src/main.rs", Line: 4, Col: 5}, "match is missing\nthe None arm").
			WithNote(source.Pos{File: "src/main.rs", Line: 2, Col: 1}, "scrutinee declared here"),
		New(SevWarning, DupFunction, "", source.Pos{}, "function add registered twice"),
	}
	want := "warning DUP2002 <program> - function add registered twice\n" +
		"error STR1002 testFunc src/main.rs:4:5 match is missing the None arm\n" +
		"note STR1002 testFunc src/main.rs:2:1 scrutinee declared here"
	if got := FormatShortDiagnostics(diags, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
