package source

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name string
		pos  Pos
		want string
	}{
		{"unknown", Pos{}, "-"},
		{"file only", Pos{File: "./src/main.rs"}, "src/main.rs"},
		{"line only", Pos{Line: 3, Col: 7}, "3:7"},
		{"full", Pos{File: "src/main.rs", Line: 12, Col: 1}, "src/main.rs:12:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPosBefore(t *testing.T) {
	a := Pos{File: "a.rs", Line: 2, Col: 5}
	b := Pos{File: "a.rs", Line: 2, Col: 9}
	c := Pos{File: "b.rs", Line: 1, Col: 1}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("column ordering broken")
	}
	if !b.Before(c) {
		t.Fatalf("file ordering broken")
	}
}
