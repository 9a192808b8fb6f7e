package jsrt

import (
	"container/heap"
	"time"
)

// FrameInterval is the virtual duration between animation frames.
const FrameInterval = 16 * time.Millisecond

// TaskKind separates timer ids from animation frame ids.
type TaskKind uint8

const (
	TaskTimeout TaskKind = iota
	TaskInterval
	TaskFrame
	TaskInternal
)

type task struct {
	id       int
	kind     TaskKind
	due      time.Duration
	seq      uint64
	interval time.Duration
	run      func()
	dead     bool
	index    int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Loop is a single-threaded event loop over a virtual clock. Tasks run one
// per turn in (due, scheduling order); time jumps to the next due task.
type Loop struct {
	now    time.Duration
	seq    uint64
	nextID int
	queue  taskQueue
	live   map[int]*task
	turns  int
}

// NewLoop creates an empty loop at virtual time zero.
func NewLoop() *Loop {
	return &Loop{live: make(map[int]*task)}
}

// Now returns the virtual time.
func (l *Loop) Now() time.Duration { return l.now }

// Turns returns the number of executed turns.
func (l *Loop) Turns() int { return l.turns }

// Pending returns the number of scheduled tasks.
func (l *Loop) Pending() int { return len(l.live) }

func (l *Loop) schedule(kind TaskKind, due, interval time.Duration, run func()) int {
	l.nextID++
	l.seq++
	t := &task{id: l.nextID, kind: kind, due: due, seq: l.seq, interval: interval, run: run}
	l.live[t.id] = t
	heap.Push(&l.queue, t)
	return t.id
}

func clampDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	return delay
}

// SetTimeout runs fn once after delay.
func (l *Loop) SetTimeout(fn func(), delay time.Duration) int {
	return l.schedule(TaskTimeout, l.now+clampDelay(delay), 0, fn)
}

// SetInterval runs fn every interval until cleared; a zero interval is
// treated as one millisecond so the clock advances.
func (l *Loop) SetInterval(fn func(), interval time.Duration) int {
	interval = clampDelay(interval)
	if interval == 0 {
		interval = time.Millisecond
	}
	return l.schedule(TaskInterval, l.now+interval, interval, fn)
}

// RequestFrame runs fn at the next frame boundary.
func (l *Loop) RequestFrame(fn func()) int {
	next := (l.now/FrameInterval + 1) * FrameInterval
	return l.schedule(TaskFrame, next, 0, fn)
}

// Post queues fn as a task due now, after already queued tasks for now.
func (l *Loop) Post(fn func()) int {
	return l.schedule(TaskInternal, l.now, 0, fn)
}

// Cancel removes a task of the given kind family. Unknown, fired or already
// cancelled ids are ignored. Timeouts and intervals share one family.
func (l *Loop) Cancel(kind TaskKind, id int) {
	t, ok := l.live[id]
	if !ok || family(t.kind) != family(kind) {
		return
	}
	t.dead = true
	delete(l.live, id)
	if t.index >= 0 {
		heap.Remove(&l.queue, t.index)
	}
}

func family(k TaskKind) TaskKind {
	if k == TaskInterval {
		return TaskTimeout
	}
	return k
}

// Step runs the next task. It returns false when nothing is scheduled.
func (l *Loop) Step() bool {
	for l.queue.Len() > 0 {
		t := heap.Pop(&l.queue).(*task)
		if t.dead {
			continue
		}
		if t.due > l.now {
			l.now = t.due
		}
		if t.kind == TaskInterval {
			l.seq++
			t.due = l.now + t.interval
			t.seq = l.seq
			heap.Push(&l.queue, t)
		} else {
			delete(l.live, t.id)
		}
		l.turns++
		t.run()
		return true
	}
	return false
}

// NextDue returns the due time of the next scheduled task.
func (l *Loop) NextDue() (time.Duration, bool) {
	for l.queue.Len() > 0 {
		if t := l.queue[0]; !t.dead {
			return t.due, true
		}
		heap.Pop(&l.queue)
	}
	return 0, false
}

// AdvanceTo moves the clock forward without running tasks.
func (l *Loop) AdvanceTo(at time.Duration) {
	if at > l.now {
		l.now = at
	}
}
