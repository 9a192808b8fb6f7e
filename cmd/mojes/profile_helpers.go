package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mojes/internal/prof"
)

var profiling *prof.Session

// startProfiling reads the persistent profiling flags and starts the
// requested profiles; stopProfiling runs after the command, even on error.
func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}
	profiling, err = prof.Start(cfg)
	return err
}

func stopProfiling() {
	if err := profiling.Stop(); err != nil {
		reportError(fmt.Errorf("profiling: %w", err))
	}
}
