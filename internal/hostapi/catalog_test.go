package hostapi

import "testing"

func TestDefaultLookups(t *testing.T) {
	c := Default()

	doc, ok := c.Global("document")
	if !ok || doc.Kind != KindObject || doc.Returns != RecvDocument {
		t.Fatalf("document row: %+v %v", doc, ok)
	}
	if _, ok := c.Global("Document"); ok {
		t.Errorf("lookups must be case-sensitive")
	}

	get, ok := c.Member(RecvDocument, "getElementById")
	if !ok || get.Returns != RecvElement {
		t.Fatalf("getElementById row: %+v %v", get, ok)
	}
	width, ok := c.Member(RecvWindow, "innerWidth")
	if !ok || width.Kind != KindProperty {
		t.Fatalf("innerWidth should be a property: %+v", width)
	}

	done, ok := c.Path([]string{"xhr_ready_state", "DONE"})
	if !ok || done.Emit() != "XMLHttpRequest.DONE" {
		t.Fatalf("DONE constant: %+v %v", done, ok)
	}
	ctor, ok := c.Path([]string{"XMLHttpRequest", "new"})
	if !ok || ctor.Kind != KindConstructor || ctor.Returns != RecvRequest {
		t.Fatalf("XMLHttpRequest::new: %+v %v", ctor, ok)
	}

	pl, _ := c.Global("println")
	if pl.Emit() != "console.log" {
		t.Errorf("println should emit console.log, got %q", pl.Emit())
	}
}

func TestAddReplacesAndValidates(t *testing.T) {
	c := Default()
	before := c.Len()
	if err := c.Add(Entry{Receiver: RecvElement, Name: "focus", Kind: KindMethod, Returns: RecvElement}); err != nil {
		t.Fatal(err)
	}
	if c.Len() != before {
		t.Errorf("replacing a row must not grow the catalog")
	}
	if e, _ := c.Member(RecvElement, "focus"); e.Returns != RecvElement {
		t.Errorf("row not replaced: %+v", e)
	}
	if err := c.Add(Entry{Name: "x", Kind: KindMethod}); err == nil {
		t.Errorf("method without receiver must be rejected")
	}
	if err := c.Add(Entry{Receiver: "r", Name: "x", Kind: KindFunction}); err == nil {
		t.Errorf("global with receiver must be rejected")
	}
}

func TestFingerprintTracksRows(t *testing.T) {
	a, b := Default(), Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint must be deterministic")
	}
	if err := b.Add(Entry{Name: "fetch", Kind: KindFunction}); err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("fingerprint must change when rows change")
	}
	if _, ok := a.Global("fetch"); ok {
		t.Errorf("catalogs must be independent")
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("Property")); err != nil || k != KindProperty {
		t.Fatalf("expected property, got %v (%v)", k, err)
	}
	if err := k.UnmarshalText([]byte("getter")); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}
