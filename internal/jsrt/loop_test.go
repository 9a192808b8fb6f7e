package jsrt

import (
	"testing"
	"time"
)

func TestLoopOrdersByDueThenScheduling(t *testing.T) {
	l := NewLoop()
	var got []string
	l.SetTimeout(func() { got = append(got, "b") }, 10*time.Millisecond)
	l.SetTimeout(func() { got = append(got, "a") }, 0)
	l.SetTimeout(func() { got = append(got, "c") }, 10*time.Millisecond)
	l.Post(func() { got = append(got, "post") })
	for l.Step() {
	}
	want := []string{"a", "post", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if l.Now() != 10*time.Millisecond {
		t.Fatalf("clock = %s, want 10ms", l.Now())
	}
}

func TestLoopIntervalUntilCancelled(t *testing.T) {
	l := NewLoop()
	n := 0
	var id int
	id = l.SetInterval(func() {
		n++
		if n == 3 {
			l.Cancel(TaskInterval, id)
		}
	}, 100*time.Millisecond)
	for l.Step() {
	}
	if n != 3 {
		t.Fatalf("interval ran %d times, want 3", n)
	}
	if l.Now() != 300*time.Millisecond {
		t.Fatalf("clock = %s", l.Now())
	}
	if l.Pending() != 0 {
		t.Fatalf("pending = %d", l.Pending())
	}
}

func TestLoopCancelIsIdempotent(t *testing.T) {
	l := NewLoop()
	ran := false
	id := l.SetTimeout(func() { ran = true }, time.Millisecond)
	l.Cancel(TaskTimeout, id)
	l.Cancel(TaskTimeout, id)
	l.Cancel(TaskTimeout, 999)
	if l.Step() || ran {
		t.Fatalf("cancelled timeout must not run")
	}
}

func TestLoopCancelChecksFamily(t *testing.T) {
	l := NewLoop()
	ran := false
	id := l.RequestFrame(func() { ran = true })
	l.Cancel(TaskTimeout, id)
	for l.Step() {
	}
	if !ran {
		t.Fatalf("clearTimeout must not cancel an animation frame")
	}

	id = l.SetTimeout(func() { t.Fatalf("timeout cleared through its interval family must not run") }, 0)
	l.Cancel(TaskInterval, id)
	for l.Step() {
	}
}

func TestLoopFramesAlignToInterval(t *testing.T) {
	l := NewLoop()
	var at []time.Duration
	var frame func()
	frame = func() {
		at = append(at, l.Now())
		if len(at) < 3 {
			l.RequestFrame(frame)
		}
	}
	l.SetTimeout(func() { l.RequestFrame(frame) }, 5*time.Millisecond)
	for l.Step() {
	}
	want := []time.Duration{16 * time.Millisecond, 32 * time.Millisecond, 48 * time.Millisecond}
	for i := range want {
		if at[i] != want[i] {
			t.Fatalf("frames at %v, want %v", at, want)
		}
	}
}
