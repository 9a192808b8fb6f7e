package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mojes/internal/lower"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [inputs...]",
	Short: "Report diagnostics without writing output",
	Long: `Lower every function, register them and syntax-check the resulting program
with the embedded engine. The check always targets es5, the dialect the
engine parses, unless --dialect says otherwise.`,
	RunE: traced(runCheck),
}

func init() {
	addPipelineFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("dialect") {
		s.opts.Dialect = lower.ES5
	}
	s.opts.Check = true

	res, err := runPipeline(cmd, s, "mojes check")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := finish(cmd, out, s, res); err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprintf(out, "ok: %d functions\n", res.Registry.Len())
	}
	return nil
}
