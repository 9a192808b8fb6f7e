package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mojes/internal/corpus"
	"mojes/internal/diag"
	"mojes/internal/diagfmt"
	"mojes/internal/driver"
	"mojes/internal/version"
)

// runPipeline builds the session's inputs, behind the progress UI when
// it is enabled.
func runPipeline(cmd *cobra.Command, s *session, title string) (*driver.Result, error) {
	tui, err := shouldUseTUI(cmd)
	if err != nil {
		return nil, err
	}
	if tui && !s.quiet {
		return runBuildWithUI(cmd.Context(), title, s)
	}
	return build(cmd.Context(), s)
}

func build(ctx context.Context, s *session) (*driver.Result, error) {
	if s.demo {
		return driver.Build(ctx, corpus.Functions(), s.opts)
	}
	return driver.BuildFiles(ctx, s.inputs, s.opts)
}

// printDiagnostics writes the bag in the format chosen by --format.
func printDiagnostics(cmd *cobra.Command, w io.Writer, s *session, bag *diag.Bag) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, _ := flags.GetBool("with-notes")
	pathFlag, _ := flags.GetString("path-mode")
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pathFlag)
	}

	bag.Sort()
	switch format {
	case "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     1,
			PathMode:    pathMode,
			BaseDir:     s.baseDir,
			Source:      diagfmt.NewDiskSource(s.baseDir),
			ShowNotes:   withNotes,
			ShowPreview: true,
		})
		if !s.quiet {
			fmt.Fprintln(w, diagfmt.Summary(bag))
		}
	case "short":
		diagfmt.Short(w, bag, withNotes)
	case "json":
		if err := diagfmt.JSON(w, bag, diagfmt.JSONOpts{
			PathMode:     pathMode,
			BaseDir:      s.baseDir,
			IncludeNotes: withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "mojes",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(w, bag, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// finish prints diagnostics and timings and maps errors to the exit status.
func finish(cmd *cobra.Command, w io.Writer, s *session, res *driver.Result) error {
	if err := printDiagnostics(cmd, w, s, res.Bag); err != nil {
		return err
	}
	if s.timings && !s.quiet {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}
