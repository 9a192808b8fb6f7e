package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mojes/internal/diag"
	"mojes/internal/emit"
	"mojes/internal/hir"
	"mojes/internal/hostapi"
	"mojes/internal/lower"
	"mojes/internal/naming"
	"mojes/internal/observ"
	"mojes/internal/program"
)

// Options configure a build.
type Options struct {
	Dialect lower.Dialect
	// Duplicates applies to bindings inside a function and to functions
	// registered twice.
	Duplicates     lower.DuplicatePolicy
	MaxDiagnostics int
	// Jobs bounds parallel input decoding; <= 0 means GOMAXPROCS.
	Jobs    int
	Catalog *hostapi.Catalog
	// Cache, when set, stores lowered fragments between runs.
	Cache    *DiskCache
	Sink     ProgressSink
	Observer PhaseObserver
	// Check syntax-checks the rendered script with the embedded engine.
	Check bool
	// Timings appends an OBS6001 diagnostic with the phase report.
	Timings bool
}

func (o Options) lowerOptions() lower.Options {
	return lower.Options{Dialect: o.Dialect, Duplicates: o.Duplicates}
}

// Stats counts what happened to the functions of a build.
type Stats struct {
	Functions int
	Lowered   int
	Cached    int
	Failed    int
}

// Result is the outcome of a build. The registry holds every function that
// lowered without structural errors, in input order.
type Result struct {
	Registry *program.Registry
	Bag      *diag.Bag
	Inputs   []Input
	Dialect  lower.Dialect
	Timer    *observ.Timer
	Stats    Stats
}

// HasErrors reports whether any error diagnostic was produced.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// Script renders the program, optionally preceded by the shim prelude.
func (r *Result) Script(prelude bool) string {
	return r.Registry.RenderScript(program.ScriptOptions{Dialect: r.Dialect, Prelude: prelude})
}

func newResult(opts Options) *Result {
	return &Result{
		Registry: program.NewRegistry(opts.Duplicates),
		Bag:      diag.NewBag(opts.MaxDiagnostics),
		Dialect:  opts.Dialect,
		Timer:    observ.NewTimer(),
	}
}

// phase runs fn as a timed phase and notifies the observer.
func (r *Result) phase(opts Options, name string, fn func() (items int, note string, err error)) error {
	idx := r.Timer.Begin(name)
	opts.Observer.begin(name)
	items, note, err := fn()
	elapsed := r.Timer.EndItems(idx, items, note)
	opts.Observer.end(name, elapsed)
	return err
}

// BuildFiles loads the documents named by paths and builds them.
func BuildFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	res := newResult(opts)
	var funcs []*hir.Func
	err := res.phase(opts, "load", func() (int, string, error) {
		files, err := ListInputs(paths)
		if err != nil {
			return 0, "", err
		}
		inputs, err := LoadInputs(ctx, files, opts.MaxDiagnostics, opts.Jobs)
		res.Inputs = inputs
		failed := 0
		for _, in := range inputs {
			res.Bag.Merge(in.Bag)
			if in.Failed() {
				failed++
				emitEvent(opts.Sink, Event{Item: in.Path, Stage: StageLoad, Status: StatusError})
				continue
			}
			funcs = append(funcs, in.Funcs...)
		}
		note := ""
		if failed > 0 {
			note = fmt.Sprintf("%d failed", failed)
		}
		return len(files), note, err
	})
	if err != nil {
		return res, err
	}
	return res, res.build(ctx, funcs, opts)
}

// Build lowers funcs in order and registers each fragment. Later functions
// are visible to earlier ones only as forward references.
func Build(ctx context.Context, funcs []*hir.Func, opts Options) (*Result, error) {
	res := newResult(opts)
	return res, res.build(ctx, funcs, opts)
}

func (r *Result) build(ctx context.Context, funcs []*hir.Func, opts Options) error {
	names := make([]string, len(funcs))
	for i, fn := range funcs {
		if fn != nil {
			names[i] = naming.Normalize(fn.Name)
		}
		emitEvent(opts.Sink, Event{Item: names[i], Stage: StageLower, Status: StatusQueued})
	}
	r.Stats.Functions = len(funcs)

	err := r.phase(opts, "lower", func() (int, string, error) {
		for i, fn := range funcs {
			if err := ctx.Err(); err != nil {
				return i, "cancelled", err
			}
			r.compileOne(fn, names[i], names[i+1:], opts)
		}
		note := ""
		if r.Stats.Cached > 0 {
			note = fmt.Sprintf("%d cached", r.Stats.Cached)
		}
		return len(funcs), note, nil
	})
	if err != nil {
		return err
	}

	if opts.Check {
		_ = r.phase(opts, "check", func() (int, string, error) {
			emitEvent(opts.Sink, Event{Stage: StageCheck, Status: StatusWorking})
			CheckScript("program.js", r.Script(true), r.Dialect, diag.BagReporter{Bag: r.Bag})
			emitEvent(opts.Sink, Event{Stage: StageCheck, Status: StatusDone})
			return r.Registry.Len(), r.Dialect.String(), nil
		})
	}

	if opts.Timings {
		rep := r.Timer.Report()
		appendTimingDiagnostic(r.Bag, timingPayload{Kind: "build", TotalMS: rep.TotalMS, Phases: rep.Phases})
	}
	Logger().Info("build finished",
		zap.Int("functions", r.Stats.Functions),
		zap.Int("lowered", r.Stats.Lowered),
		zap.Int("cached", r.Stats.Cached),
		zap.Int("failed", r.Stats.Failed),
		zap.Int("diagnostics", r.Bag.Len()))
	return nil
}

func (r *Result) compileOne(fn *hir.Func, name string, later []string, opts Options) {
	start := time.Now()
	emitEvent(opts.Sink, Event{Item: name, Stage: StageLower, Status: StatusWorking})
	policy := naming.NewPolicy(opts.Catalog, r.Registry.Names(), later)

	frag, ok, cached := r.lowerOne(fn, policy, later, opts)
	switch {
	case cached:
		r.Stats.Cached++
	default:
		r.Stats.Lowered++
	}
	if !ok {
		r.Stats.Failed++
		emitEvent(opts.Sink, Event{Item: name, Stage: StageLower, Status: StatusError, Elapsed: time.Since(start)})
		return
	}

	emitEvent(opts.Sink, Event{Item: name, Stage: StageRegister, Status: StatusWorking})
	if err := r.Registry.Register(frag, fn.Pos, diag.BagReporter{Bag: r.Bag}); err != nil {
		r.Stats.Failed++
		if !errors.Is(err, program.ErrDuplicate) {
			Logger().Error("register failed", zap.String("function", name), zap.Error(err))
		}
		emitEvent(opts.Sink, Event{Item: name, Stage: StageRegister, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return
	}
	status := StatusDone
	if cached {
		status = StatusCached
	}
	emitEvent(opts.Sink, Event{Item: name, Stage: StageRegister, Status: status, Elapsed: time.Since(start)})
}

// lowerOne lowers fn or replays its cached outcome. Cache failures are
// warnings; the function is lowered normally.
func (r *Result) lowerOne(fn *hir.Func, policy *naming.Policy, later []string, opts Options) (frag emit.Fragment, ok, cached bool) {
	rep := diag.BagReporter{Bag: r.Bag}
	lopts := opts.lowerOptions()

	var key Digest
	useCache := opts.Cache != nil && fn != nil
	if useCache {
		k, err := fragmentKey(fn, lopts, policy, later)
		if err != nil {
			diag.ReportWarning(rep, diag.IOCacheError, fn.Name, fn.Pos, "cache key: "+err.Error()).Emit()
			useCache = false
		}
		key = k
	}
	if useCache {
		var payload FragmentPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			diag.ReportWarning(rep, diag.IOCacheError, fn.Name, fn.Pos, "cache read: "+err.Error()).Emit()
		case hit:
			for _, d := range payload.Diags {
				r.Bag.Add(d)
			}
			Logger().Debug("fragment cache hit", zap.String("function", fn.Name), zap.Stringer("key", key))
			return payload.Fragment, payload.OK, true
		}
	}

	local := diag.NewBag(0)
	frag, ok = emit.Function(fn, policy, lopts, diag.BagReporter{Bag: local})
	r.Bag.Merge(local)
	if useCache {
		payload := &FragmentPayload{OK: ok, Fragment: frag, Diags: local.Items()}
		if err := opts.Cache.Put(key, payload); err != nil {
			diag.ReportWarning(rep, diag.IOCacheError, fn.Name, fn.Pos, "cache write: "+err.Error()).Emit()
		}
	}
	return frag, ok, false
}
