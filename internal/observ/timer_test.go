package observ

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimerReport(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	tm := NewTimerWithClock(clk.now)

	load := tm.Begin("load")
	clk.advance(2 * time.Millisecond)
	tm.End(load, "")

	lower := tm.Begin("lower")
	clk.advance(5 * time.Millisecond)
	if d := tm.EndItems(lower, 14, "3 cached"); d != 5*time.Millisecond {
		t.Fatalf("lower took %s", d)
	}

	rep := tm.Report()
	if rep.TotalMS != 7 || len(rep.Phases) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Phases[1].Items != 14 || rep.Phases[1].Note != "3 cached" {
		t.Fatalf("lower phase = %+v", rep.Phases[1])
	}
	sum := tm.Summary()
	for _, want := range []string{"load", "14 items", "// 3 cached", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary misses %q:\n%s", want, sum)
		}
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	if tm.End(3, "") != 0 {
		t.Fatalf("unknown phase must report zero")
	}
	if rep := tm.Report(); len(rep.Phases) != 0 || rep.TotalMS != 0 {
		t.Fatalf("empty timer report = %+v", rep)
	}
}
