package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ztrue/tracerr"
	"golang.org/x/term"

	"mojes/internal/version"
)

// errDiagnostics signals that diagnostics with errors were already printed.
var errDiagnostics = errors.New("diagnostics contain errors")

var rootCmd = &cobra.Command{
	Use:   "mojes",
	Short: "Transpile annotated functions to JavaScript",
	Long: `mojes lowers annotated functions (an IR produced by a front end) to
JavaScript fragments and assembles them into a program or an HTML page`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd, args); err != nil {
			return err
		}
		return startProfiling(cmd)
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. Failures exit with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to keep")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging and error stack traces")
	rootCmd.PersistentFlags().String("config", "", "path to mojes.toml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().String("ui", "off", "progress UI for builds (auto|on|off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	stopProfiling()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			reportError(err)
		}
		os.Exit(1)
	}
}

func reportError(err error) {
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		tracerr.PrintSourceColor(err, 2)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// traced records the stack of a command failure for --verbose.
func traced(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil || errors.Is(err, errDiagnostics) {
			return err
		}
		return tracerr.Wrap(err)
	}
}
