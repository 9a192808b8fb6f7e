package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mojes/internal/corpus"
	"mojes/internal/driver"
	"mojes/internal/program"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [inputs...]",
	Short: "Lower annotated functions to a JavaScript program",
	Long: `Lower annotated functions read from IR documents (.json, .yaml, .msgpack, or
directories of them) into one JavaScript program. Without inputs the
[build].inputs of mojes.toml are used, or the built-in demo functions.`,
	RunE: traced(runBuild),
}

func init() {
	addPipelineFlags(buildCmd)
	buildCmd.Flags().StringP("out", "o", "", "write the program to this file (default: [build].output or stdout)")
	buildCmd.Flags().String("page", "", "also write an HTML page embedding the program")
	buildCmd.Flags().String("title", "", "page title")
	buildCmd.Flags().Bool("no-prelude", false, "omit the shim prelude from the program")
	buildCmd.Flags().Bool("check", false, "syntax-check the program with the embedded engine (es5 only)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	outFlag, _ := flags.GetString("out")
	pageFlag, _ := flags.GetString("page")
	title, _ := flags.GetString("title")
	noPrelude, _ := flags.GetBool("no-prelude")
	s.opts.Check, _ = flags.GetBool("check")
	if noPrelude {
		s.prelude = false
	}

	res, err := runPipeline(cmd, s, "mojes build")
	if err != nil {
		return err
	}
	if err := finish(cmd, cmd.ErrOrStderr(), s, res); err != nil {
		return err
	}

	var outPath, pagePath string
	if s.manifest != nil {
		outPath = s.outputPath(outFlag, s.manifest.Build.Output)
		pagePath = s.outputPath(pageFlag, s.manifest.Build.Page)
		if title == "" {
			title = s.manifest.Serve.Title
		}
	} else {
		outPath, pagePath = outFlag, pageFlag
	}

	script := res.Script(s.prelude)
	if outPath == "" {
		if pagePath == "" {
			_, err := io.WriteString(cmd.OutOrStdout(), script)
			return err
		}
	} else if err := writeFile(outPath, []byte(script)); err != nil {
		return err
	}
	if pagePath != "" {
		var buf bytes.Buffer
		if err := renderPage(&buf, s, res, title); err != nil {
			return err
		}
		if err := writeFile(pagePath, buf.Bytes()); err != nil {
			return err
		}
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "built %d of %d functions (%d cached)\n",
			res.Registry.Len(), res.Stats.Functions, res.Stats.Cached)
	}
	return nil
}

// renderPage writes the HTML page; the demo gets its fixtures and the
// buttons for functions that take arguments.
func renderPage(w io.Writer, s *session, res *driver.Result, title string) error {
	opts := program.PageOptions{
		Title:  title,
		Script: program.ScriptOptions{Dialect: res.Dialect, Prelude: true},
	}
	if s.demo {
		if opts.Title == "" {
			opts.Title = corpus.Title
		}
		opts.Fixtures = corpus.Fixtures()
		opts.Extra = corpus.Buttons()
	}
	return res.Registry.RenderPage(w, opts)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
