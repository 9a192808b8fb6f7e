package main

import (
	"bytes"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"mojes/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] [inputs...]",
	Short: "Serve the generated page over HTTP",
	Long: `Build the program and serve an HTML page embedding it, with a button per
function without parameters. The program is also served at /program.js.
Every request is logged with its duration.`,
	RunE: traced(runServe),
}

func init() {
	addPipelineFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default: [serve].addr or "+server.DefaultAddr+")")
	serveCmd.Flags().String("title", "", "page title")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	title, _ := cmd.Flags().GetString("title")
	if m := s.manifest; m != nil {
		if addr == "" {
			addr = m.Serve.Addr
		}
		if title == "" {
			title = m.Serve.Title
		}
	}

	res, err := runPipeline(cmd, s, "mojes serve")
	if err != nil {
		return err
	}
	if err := finish(cmd, cmd.ErrOrStderr(), s, res); err != nil {
		return err
	}

	// страница не меняется между запросами
	var page bytes.Buffer
	if err := renderPage(&page, s, res, title); err != nil {
		return err
	}
	script := res.Script(true)
	srv := server.New(server.Config{
		Addr: addr,
		Page: func(w io.Writer) error {
			_, err := w.Write(page.Bytes())
			return err
		},
		Script: func() string { return script },
	})

	if logLevel.Level() > zapcore.InfoLevel {
		logLevel.SetLevel(zapcore.InfoLevel)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, func(bound string) {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %d functions on http://%s\n", res.Registry.Len(), bound)
			fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop")
		}
	})
}
