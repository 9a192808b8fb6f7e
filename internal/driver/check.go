package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"mojes/internal/diag"
	"mojes/internal/jsrt"
	"mojes/internal/lower"
	"mojes/internal/source"
)

// CheckScript syntax-checks script with the embedded engine. The engine
// parses ES5 only, so other dialects get a RUN5004 note and pass.
func CheckScript(name, script string, dialect lower.Dialect, rep diag.Reporter) bool {
	if dialect != lower.ES5 {
		diag.ReportInfo(rep, diag.RunDialectSkipped, "", source.Pos{File: name},
			fmt.Sprintf("syntax check skipped: the embedded engine parses es5, output is %s", dialect)).Emit()
		return true
	}
	err := jsrt.Check(name, script)
	if err == nil {
		return true
	}
	pos, fn := scriptPos(name, script, err)
	diag.ReportError(rep, diag.RunSyntaxError, fn, pos, err.Error()).Emit()
	return false
}

// scriptPos maps a syntax error to a position in the rendered script and
// the function declaration enclosing it.
func scriptPos(name, script string, err error) (source.Pos, string) {
	pos := source.Pos{File: name}
	line, col, ok := jsrt.SyntaxLocation(err)
	if !ok {
		return pos, ""
	}
	if l, cerr := safecast.Conv[uint32](line); cerr == nil {
		pos.Line = l
	}
	if c, cerr := safecast.Conv[uint32](col); cerr == nil {
		pos.Col = c
	}
	lines := strings.Split(script, "\n")
	for i := min(line, len(lines)) - 1; i >= 0; i-- {
		if rest, found := strings.CutPrefix(lines[i], "function "); found {
			if j := strings.IndexByte(rest, '('); j > 0 {
				return pos, rest[:j]
			}
		}
	}
	return pos, ""
}

// Execute loads script into a fresh simulated page, evaluates call and
// drains the event loop. Failures become RUN diagnostics. The runtime is
// returned whenever it was created so callers can read its console.
func Execute(ctx context.Context, name, script, call string, opts jsrt.Options, rep diag.Reporter) (*jsrt.Runtime, bool) {
	at := source.Pos{File: name}
	r, err := jsrt.New(opts)
	if err != nil {
		diag.ReportError(rep, diag.RunScriptError, "", at, err.Error()).Emit()
		return nil, false
	}
	if err := r.Load(name, script); err != nil {
		if _, _, syntax := jsrt.SyntaxLocation(err); syntax {
			pos, fn := scriptPos(name, script, err)
			diag.ReportError(rep, diag.RunSyntaxError, fn, pos, err.Error()).Emit()
		} else {
			diag.ReportError(rep, diag.RunScriptError, "", at, err.Error()).Emit()
		}
		return r, false
	}

	fn := callee(call)
	ok := true
	if call != "" {
		if _, err := r.Eval(call); err != nil {
			diag.ReportError(rep, diag.RunScriptError, fn, at, err.Error()).Emit()
			ok = false
		}
	}
	if err := r.Drain(ctx); err != nil {
		if errors.Is(err, jsrt.ErrTurnLimit) {
			diag.ReportWarning(rep, diag.RunTurnLimit, fn, at,
				fmt.Sprintf("%v; %d callbacks still pending", err, r.Pending())).Emit()
		} else {
			diag.ReportError(rep, diag.RunScriptError, fn, at, err.Error()).Emit()
			ok = false
		}
	}
	for _, cbErr := range r.Errors() {
		diag.ReportError(rep, diag.RunScriptError, fn, at, "uncaught in callback: "+cbErr.Error()).Emit()
		ok = false
	}
	Logger().Debug("script executed",
		zap.String("call", call),
		zap.Duration("virtual", r.Now()),
		zap.Int("console", len(r.Console())),
		zap.Bool("ok", ok))
	return r, ok
}

func callee(call string) string {
	if i := strings.IndexByte(call, '('); i > 0 {
		return strings.TrimSpace(call[:i])
	}
	return ""
}

// CallExpr builds a call expression from command-line arguments. Arguments
// that are valid JSON (numbers, booleans, null, objects, arrays, quoted
// strings) are passed as written; anything else becomes a string literal.
func CallExpr(fn string, args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = jsArg(a)
	}
	return fn + "(" + strings.Join(parts, ", ") + ")"
}

func jsArg(a string) string {
	if a == "undefined" || json.Valid([]byte(a)) {
		return a
	}
	b, err := json.Marshal(a)
	if err != nil {
		return `""`
	}
	return string(b)
}
