// Package jsrt hosts generated programs in the otto interpreter with a small
// simulated browser: a virtual-clock event loop with timers and animation
// frames, storage, a request object driven by a pluggable transport, console
// capture, dialogs and a document built from fixtures.
//
// Everything runs on the caller's goroutine. Callbacks run one per loop turn;
// Drain stops after Options.MaxTurns turns so programs with live intervals
// terminate.
package jsrt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robertkrimen/otto"
	"github.com/robertkrimen/otto/parser"
	"go.uber.org/zap"

	"mojes/internal/hostapi"
)

// ErrTurnLimit is returned by Drain when the loop still has work after the
// configured number of turns.
var ErrTurnLimit = errors.New("event loop turn limit reached")

// DefaultMaxTurns bounds Drain when Options.MaxTurns is zero.
const DefaultMaxTurns = 10000

// Options configure a Runtime.
type Options struct {
	MaxTurns  int
	Transport Transport
	Fixtures  []hostapi.Fixture
	Href      string
	UserAgent string
	Language  string
	// Confirm is the answer of every confirm() dialog.
	Confirm bool
	// Prompt is the answer of prompt(); empty answers null.
	Prompt        string
	Width, Height int
	// Console receives console output as it is produced.
	Console io.Writer
}

func (o Options) withDefaults() Options {
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.Href == "" {
		o.Href = "http://localhost:3000/"
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (mojes; otto)"
	}
	if o.Language == "" {
		o.Language = "en-US"
	}
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 768
	}
	if o.Transport == nil {
		o.Transport = StaticTransport{}
	}
	return o
}

// ConsoleLine is one captured console call.
type ConsoleLine struct {
	Level string
	Text  string
}

func (l ConsoleLine) String() string {
	if l.Level == "log" {
		return l.Text
	}
	return "[" + l.Level + "] " + l.Text
}

// Runtime is one simulated browser page.
type Runtime struct {
	vm   *otto.Otto
	opts Options
	loop *Loop
	ctx  context.Context

	console  []ConsoleLine
	alerts   []string
	errs     []error
	reloads  int
	requests []*Request

	local, session *Storage
	doc            *Document
	location       *otto.Object
	windowEvents   listenerSet
}

// New creates a runtime with all host globals installed.
func New(opts Options) (*Runtime, error) {
	opts = opts.withDefaults()
	r := &Runtime{
		vm:   otto.New(),
		opts: opts,
		loop: NewLoop(),
		ctx:  context.Background(),
	}
	if _, err := r.vm.Run(bootstrap); err != nil {
		return nil, fmt.Errorf("jsrt bootstrap: %w", err)
	}
	installs := []func() error{
		r.installConsole,
		r.installDialogs,
		r.installTimers,
		r.installStorage,
		r.installLocation,
		r.installWindow,
		r.installDocument,
		r.installRequest,
	}
	for _, install := range installs {
		if err := install(); err != nil {
			return nil, fmt.Errorf("jsrt setup: %w", err)
		}
	}
	return r, nil
}

const bootstrap = `var window = this;
function XMLHttpRequest() {
    return __host.newRequest();
}
XMLHttpRequest.UNSENT = 0;
XMLHttpRequest.OPENED = 1;
XMLHttpRequest.HEADERS_RECEIVED = 2;
XMLHttpRequest.LOADING = 3;
XMLHttpRequest.DONE = 4;
function __mojes_same(a, b) {
    return a === b;
}
`

// Check parses src without running it. otto accepts ES5 only.
func Check(name, src string) error {
	if _, err := parser.ParseFile(nil, name, src, 0); err != nil {
		return fmt.Errorf("syntax check %s: %w", name, err)
	}
	return nil
}

// SyntaxLocation returns the line and column of the first syntax error
// wrapped in err.
func SyntaxLocation(err error) (line, col int, ok bool) {
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Position.Line, list[0].Position.Column, true
	}
	var single *parser.Error
	if errors.As(err, &single) {
		return single.Position.Line, single.Position.Column, true
	}
	return 0, 0, false
}

// Load checks and runs a script, typically the prelude plus the program.
func (r *Runtime) Load(name, src string) error {
	if err := Check(name, src); err != nil {
		return err
	}
	if _, err := r.vm.Run(src); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	Logger().Debug("script loaded", zap.String("name", name), zap.Int("bytes", len(src)))
	return nil
}

// Eval runs an expression and returns its value.
func (r *Runtime) Eval(src string) (otto.Value, error) {
	v, err := r.vm.Run(src)
	if err != nil {
		return otto.UndefinedValue(), fmt.Errorf("eval: %w", err)
	}
	return v, nil
}

// Call invokes a global function.
func (r *Runtime) Call(fn string, args ...interface{}) (otto.Value, error) {
	v, err := r.vm.Call(fn, nil, args...)
	if err != nil {
		return otto.UndefinedValue(), fmt.Errorf("call %s: %w", fn, err)
	}
	return v, nil
}

// Drain runs loop turns until nothing is scheduled, ctx is done, or the
// turn limit is hit.
func (r *Runtime) Drain(ctx context.Context) error {
	r.ctx = ctx
	defer func() { r.ctx = context.Background() }()
	for r.loop.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.loop.Turns() >= r.opts.MaxTurns {
			return fmt.Errorf("%w: %d turns, %d tasks pending at %s",
				ErrTurnLimit, r.loop.Turns(), r.loop.Pending(), r.loop.Now())
		}
		r.loop.Step()
	}
	return nil
}

// Advance runs the tasks due within d of virtual time and moves the clock
// to now+d.
func (r *Runtime) Advance(ctx context.Context, d time.Duration) error {
	r.ctx = ctx
	defer func() { r.ctx = context.Background() }()
	deadline := r.loop.Now() + d
	for {
		due, ok := r.loop.NextDue()
		if !ok || due > deadline {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.loop.Turns() >= r.opts.MaxTurns {
			return fmt.Errorf("%w: %d turns", ErrTurnLimit, r.loop.Turns())
		}
		r.loop.Step()
	}
	r.loop.AdvanceTo(deadline)
	return nil
}

// Now returns the virtual time.
func (r *Runtime) Now() time.Duration { return r.loop.Now() }

// Pending returns the number of scheduled tasks.
func (r *Runtime) Pending() int { return r.loop.Pending() }

// Console returns the captured console lines.
func (r *Runtime) Console() []ConsoleLine {
	out := make([]ConsoleLine, len(r.console))
	copy(out, r.console)
	return out
}

// ConsoleText returns captured console output, one call per line.
func (r *Runtime) ConsoleText() string {
	var b strings.Builder
	for _, l := range r.console {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Alerts returns the messages of alert() calls.
func (r *Runtime) Alerts() []string {
	out := make([]string, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Errors returns exceptions thrown by callbacks.
func (r *Runtime) Errors() []error {
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Reloads counts location.reload() calls.
func (r *Runtime) Reloads() int { return r.reloads }

// Document returns the simulated document.
func (r *Runtime) Document() *Document { return r.doc }

// LocalStorage returns the localStorage area.
func (r *Runtime) LocalStorage() *Storage { return r.local }

// SessionStorage returns the sessionStorage area.
func (r *Runtime) SessionStorage() *Storage { return r.session }

// Requests returns every request object created by the program.
func (r *Runtime) Requests() []*Request {
	out := make([]*Request, len(r.requests))
	copy(out, r.requests)
	return out
}

func (r *Runtime) value(x interface{}) otto.Value {
	v, err := r.vm.ToValue(x)
	if err != nil {
		return otto.UndefinedValue()
	}
	return v
}

func (r *Runtime) newObject() *otto.Object {
	obj, err := r.vm.Object("({})")
	if err != nil {
		panic(fmt.Sprintf("jsrt: object literal: %v", err))
	}
	return obj
}

func (r *Runtime) newArray(items []otto.Value) otto.Value {
	arr, err := r.vm.Object("[]")
	if err != nil {
		panic(fmt.Sprintf("jsrt: array literal: %v", err))
	}
	for _, it := range items {
		if _, err := arr.Call("push", it); err != nil {
			panic(fmt.Sprintf("jsrt: array push: %v", err))
		}
	}
	return arr.Value()
}

// invoke calls a JS callback; exceptions are reported like uncaught errors
// in a browser and do not stop the loop.
func (r *Runtime) invoke(fn otto.Value, this otto.Value, args ...interface{}) {
	if !fn.IsFunction() {
		return
	}
	if _, err := fn.Call(this, args...); err != nil {
		r.uncaught(err)
	}
}

func (r *Runtime) uncaught(err error) {
	r.errs = append(r.errs, err)
	r.emitConsole("error", "Uncaught "+err.Error())
	Logger().Warn("uncaught exception in callback", zap.Error(err))
}

func (r *Runtime) emitConsole(level, text string) {
	line := ConsoleLine{Level: level, Text: text}
	r.console = append(r.console, line)
	if r.opts.Console != nil {
		fmt.Fprintln(r.opts.Console, line.String())
	}
}

func (r *Runtime) throw(name, msg string) {
	panic(r.vm.MakeCustomError(name, msg))
}

func argString(call otto.FunctionCall, i int) string {
	v := call.Argument(i)
	if v.IsUndefined() {
		return ""
	}
	return v.String()
}

func argMillis(call otto.FunctionCall, i int) time.Duration {
	n, err := call.Argument(i).ToInteger()
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}

// listenerSet keeps event listeners per type in registration order.
type listenerSet struct {
	byType map[string][]otto.Value
}

func (s *listenerSet) add(typ string, fn otto.Value) {
	if !fn.IsFunction() {
		return
	}
	if s.byType == nil {
		s.byType = make(map[string][]otto.Value)
	}
	s.byType[typ] = append(s.byType[typ], fn)
}

func (s *listenerSet) remove(r *Runtime, typ string, fn otto.Value) {
	list := s.byType[typ]
	for i, cur := range list {
		same, err := r.vm.Call("__mojes_same", nil, cur, fn)
		if err != nil {
			continue
		}
		if ok, _ := same.ToBoolean(); ok {
			s.byType[typ] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// snapshot copies the listeners so that listeners added while an event is
// dispatched do not receive it.
func (s *listenerSet) snapshot(typ string) []otto.Value {
	list := s.byType[typ]
	out := make([]otto.Value, len(list))
	copy(out, list)
	return out
}

func (s *listenerSet) count(typ string) int {
	return len(s.byType[typ])
}

// event is the Go side of a dispatched event object.
type event struct {
	obj       *otto.Object
	stopped   bool
	prevented bool
}

func (r *Runtime) newEvent(typ string, target *otto.Object) *event {
	ev := &event{obj: r.newObject()}
	_ = ev.obj.Set("type", typ)
	_ = ev.obj.Set("target", target.Value())
	_ = ev.obj.Set("timeStamp", float64(r.loop.Now())/float64(time.Millisecond))
	_ = ev.obj.Set("defaultPrevented", false)
	_ = ev.obj.Set("preventDefault", func(call otto.FunctionCall) otto.Value {
		ev.prevented = true
		_ = ev.obj.Set("defaultPrevented", true)
		return otto.UndefinedValue()
	})
	_ = ev.obj.Set("stopPropagation", func(call otto.FunctionCall) otto.Value {
		ev.stopped = true
		return otto.UndefinedValue()
	})
	return ev
}

// fire runs the listeners of the event type on current, then its on<type>
// handler property.
func (r *Runtime) fire(current *otto.Object, set *listenerSet, ev *event) {
	typ, _ := ev.obj.Get("type")
	_ = ev.obj.Set("currentTarget", current.Value())
	for _, fn := range set.snapshot(typ.String()) {
		r.invoke(fn, current.Value(), ev.obj.Value())
	}
	if handler, err := current.Get("on" + typ.String()); err == nil && handler.IsFunction() {
		r.invoke(handler, current.Value(), ev.obj.Value())
	}
}

func (r *Runtime) dispatch(target *otto.Object, set *listenerSet, typ string) *event {
	ev := r.newEvent(typ, target)
	r.fire(target, set, ev)
	return ev
}

func (r *Runtime) addListenerMethods(obj *otto.Object, set *listenerSet) error {
	if err := obj.Set("addEventListener", func(call otto.FunctionCall) otto.Value {
		set.add(argString(call, 0), call.Argument(1))
		return otto.UndefinedValue()
	}); err != nil {
		return err
	}
	if err := obj.Set("removeEventListener", func(call otto.FunctionCall) otto.Value {
		set.remove(r, argString(call, 0), call.Argument(1))
		return otto.UndefinedValue()
	}); err != nil {
		return err
	}
	return obj.Set("dispatchEvent", func(call otto.FunctionCall) otto.Value {
		typ := argString(call, 0)
		if ev := call.Argument(0); ev.IsObject() {
			if t, err := ev.Object().Get("type"); err == nil {
				typ = t.String()
			}
		}
		ev := r.dispatch(obj, set, typ)
		return r.value(!ev.prevented)
	})
}
