package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mojes/internal/corpus"
	"mojes/internal/diag"
	"mojes/internal/driver"
	"mojes/internal/jsrt"
	"mojes/internal/lower"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <function> [args...]",
	Short: "Execute a lowered function in the simulated host",
	Long: `Build the program in es5, load it into the embedded engine with a simulated
document, call the function and drain the event loop on a virtual clock.
Console output goes to stdout. Arguments that are valid JSON are passed as
written, anything else as a string.`,
	Args: cobra.MinimumNArgs(1),
	RunE: traced(runRun),
}

func init() {
	addPipelineFlags(runCmd)
	runCmd.Flags().StringArrayP("input", "i", nil, "IR document or directory to build (repeatable)")
	runCmd.Flags().StringArray("respond", nil, "canned response URL=[STATUS:]BODY (repeatable)")
	runCmd.Flags().Bool("net", false, "perform real HTTP requests")
	runCmd.Flags().Int("max-turns", 0, "event loop turn limit (default: [run].max_turns or 10000)")
	runCmd.Flags().String("language", "", "navigator.language")
	runCmd.Flags().Bool("confirm", false, "answer confirm() dialogs with OK")
	runCmd.Flags().String("prompt", "", "answer of prompt() dialogs")
}

func runRun(cmd *cobra.Command, args []string) error {
	inputs, err := cmd.Flags().GetStringArray("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	s, err := newSession(cmd, inputs)
	if err != nil {
		return err
	}
	s.opts.Dialect = lower.ES5

	fn, callArgs := args[0], args[1:]
	jsOpts, err := runtimeOptions(cmd, s)
	if err != nil {
		return err
	}

	res, err := runPipeline(cmd, s, "mojes run")
	if err != nil {
		return err
	}
	if res.HasErrors() {
		return finish(cmd, cmd.ErrOrStderr(), s, res)
	}
	if !res.Registry.Has(fn) {
		return fmt.Errorf("function %q is not registered", fn)
	}

	jsOpts.Console = cmd.OutOrStdout()
	rt, ok := driver.Execute(cmd.Context(), "program.js", res.Script(true), driver.CallExpr(fn, callArgs), jsOpts,
		diag.BagReporter{Bag: res.Bag})
	if rt != nil && s.timings && !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "virtual clock %s, %d callbacks pending\n", rt.Now(), rt.Pending())
	}
	if err := finish(cmd, cmd.ErrOrStderr(), s, res); err != nil {
		return err
	}
	if !ok {
		return errDiagnostics
	}
	return nil
}

// runtimeOptions merges [run] from the manifest with the flags.
func runtimeOptions(cmd *cobra.Command, s *session) (jsrt.Options, error) {
	var opts jsrt.Options
	var routes []string
	useNet := false
	if m := s.manifest; m != nil {
		opts.MaxTurns = m.Run.MaxTurns
		opts.Language = m.Run.Language
		opts.Confirm = m.Run.Confirm
		routes = append(routes, m.Run.Respond...)
		useNet = m.Run.Net
	}

	flags := cmd.Flags()
	if flags.Changed("max-turns") {
		opts.MaxTurns, _ = flags.GetInt("max-turns")
	}
	if flags.Changed("language") {
		opts.Language, _ = flags.GetString("language")
	}
	if flags.Changed("confirm") {
		opts.Confirm, _ = flags.GetBool("confirm")
	}
	if flags.Changed("net") {
		useNet, _ = flags.GetBool("net")
	}
	opts.Prompt, _ = flags.GetString("prompt")
	extra, _ := flags.GetStringArray("respond")
	routes = append(routes, extra...)

	if useNet {
		opts.Transport = jsrt.HTTPTransport{}
	} else {
		table := make(map[string]jsrt.Response, len(routes))
		for _, spec := range routes {
			url, resp, err := jsrt.ParseRoute(spec)
			if err != nil {
				return opts, err
			}
			table[url] = resp
		}
		opts.Transport = jsrt.StaticTransport{Routes: table}
	}
	if s.demo {
		opts.Fixtures = corpus.Fixtures()
	}
	return opts, nil
}
