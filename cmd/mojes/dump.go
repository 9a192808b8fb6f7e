package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"mojes/internal/corpus"
	"mojes/internal/diag"
	"mojes/internal/driver"
	"mojes/internal/hir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [inputs...]",
	Short: "Print or convert annotated function IR",
	Long: `Decode IR documents and print them as Rust-like text (text), as Go values
(repr), or re-encode them (json, yaml, msgpack). Without inputs the
built-in demo functions are dumped, which is a handy way to get sample
documents.`,
	RunE: traced(runDump),
}

func init() {
	dumpCmd.Flags().String("to", "text", "output form (text|repr|json|yaml|msgpack)")
	dumpCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	dumpCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	dumpCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	dumpCmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
}

func runDump(cmd *cobra.Command, args []string) error {
	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return fmt.Errorf("failed to get to flag: %w", err)
	}
	out, _ := cmd.Flags().GetString("out")
	s, err := dumpSession(cmd)
	if err != nil {
		return err
	}

	funcs := corpus.Functions()
	if len(args) > 0 {
		files, err := driver.ListInputs(args)
		if err != nil {
			return err
		}
		inputs, err := driver.LoadInputs(cmd.Context(), files, 0, 0)
		if err != nil {
			return err
		}
		bag := diag.NewBag(0)
		funcs = nil
		for _, in := range inputs {
			bag.Merge(in.Bag)
			funcs = append(funcs, in.Funcs...)
		}
		if bag.HasErrors() {
			if err := printDiagnostics(cmd, cmd.ErrOrStderr(), s, bag); err != nil {
				return err
			}
			return errDiagnostics
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(to) {
	case "text":
		if err := hir.Dump(&buf, funcs); err != nil {
			return fmt.Errorf("failed to dump IR: %w", err)
		}
	case "repr":
		repr.New(&buf, repr.Indent("  ")).Println(funcs)
	default:
		format, err := hir.ParseWireFormat(to)
		if err != nil {
			return err
		}
		data, err := hir.Encode(funcs, format)
		if err != nil {
			return fmt.Errorf("failed to encode IR: %w", err)
		}
		buf.Write(data)
	}

	if out != "" {
		return writeFile(out, buf.Bytes())
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// dumpSession carries only what diagnostics printing needs; dump does not
// build.
func dumpSession(cmd *cobra.Command) (*session, error) {
	color, err := useColor(cmd)
	if err != nil {
		return nil, err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return &session{color: color, quiet: quiet}, nil
}
