package driver

import "time"

// Stage describes a pipeline step for one item.
type Stage string

const (
	// StageLoad reads and decodes an input document.
	StageLoad Stage = "load"
	// StageLower lowers one function.
	StageLower Stage = "lower"
	// StageRegister adds the fragment to the program registry.
	StageRegister Stage = "register"
	// StageCheck syntax-checks the rendered script.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the item is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the item is being processed.
	StatusWorking Status = "working"
	// StatusCached indicates the fragment came from the disk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the item is done.
	StatusDone Status = "done"
	// StatusError indicates the item failed.
	StatusError Status = "error"
)

// Event reports progress for a function (or for the whole build when Item
// is empty).
type Event struct {
	Item    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emitEvent(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
