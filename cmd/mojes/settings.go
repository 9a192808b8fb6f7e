package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mojes/internal/driver"
	"mojes/internal/lower"
	"mojes/internal/project"
)

// session is what every pipeline command resolves before it runs: the
// manifest (when there is one), the inputs and the driver options. Flags
// override manifest values.
type session struct {
	manifest *project.Manifest
	baseDir  string
	inputs   []string
	// demo builds the built-in corpus instead of input files.
	demo    bool
	opts    driver.Options
	prelude bool
	color   bool
	quiet   bool
	timings bool
}

// addPipelineFlags registers the flags shared by build, check, run and serve.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("dialect", "", "target dialect (es2015|es5); default from mojes.toml or es2015")
	cmd.Flags().String("duplicates", "", "duplicate handling (warn|error|allow); default from mojes.toml or warn")
	cmd.Flags().Int("jobs", 0, "max parallel workers for input decoding (0=auto)")
	cmd.Flags().Bool("no-cache", false, "disable the fragment disk cache")
	cmd.Flags().Bool("demo", false, "use the built-in demo functions instead of input files")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
}

func loadManifest(cmd *cobra.Command) (*project.Manifest, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		return project.Load(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, _, err := project.Discover(wd)
	return m, err
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	m, err := loadManifest(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{manifest: m, prelude: true}

	root := cmd.Root().PersistentFlags()
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.color, err = useColor(cmd); err != nil {
		return nil, err
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	flags := cmd.Flags()
	dialectFlag, _ := flags.GetString("dialect")
	duplicatesFlag, _ := flags.GetString("duplicates")
	jobs, _ := flags.GetInt("jobs")
	noCache, _ := flags.GetBool("no-cache")
	s.demo, _ = flags.GetBool("demo")

	if m != nil {
		s.baseDir = m.Root
		s.prelude = m.Prelude()
		s.opts.Dialect = m.Dialect()
		s.opts.Duplicates = m.Duplicates()
		if m.Build.MaxDiagnostics > 0 && !root.Changed("max-diagnostics") {
			maxDiagnostics = m.Build.MaxDiagnostics
		}
		if noCache || !m.CacheEnabled() {
			noCache = true
		}
		if s.opts.Catalog, err = m.Catalog(); err != nil {
			return nil, err
		}
	} else if s.baseDir, err = os.Getwd(); err != nil {
		return nil, err
	}
	if dialectFlag != "" {
		if s.opts.Dialect, err = lower.ParseDialect(dialectFlag); err != nil {
			return nil, fmt.Errorf("--dialect: %w", err)
		}
	}
	if duplicatesFlag != "" {
		if s.opts.Duplicates, err = lower.ParseDuplicatePolicy(duplicatesFlag); err != nil {
			return nil, fmt.Errorf("--duplicates: %w", err)
		}
	}
	s.opts.MaxDiagnostics = maxDiagnostics
	s.opts.Jobs = jobs
	s.opts.Timings = s.timings

	switch {
	case s.demo:
	case len(args) > 0:
		s.inputs = args
	case m != nil && len(m.Build.Inputs) > 0:
		s.inputs = m.InputPaths()
	default:
		s.demo = true
	}

	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("mojes")
		if cacheErr != nil {
			driver.Logger().Warn("fragment cache disabled", zap.Error(cacheErr))
		} else {
			s.opts.Cache = cache
		}
	}
	return s, nil
}

// outputPath resolves a flag value, falling back to a manifest path.
func (s *session) outputPath(flagValue, manifestValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if s.manifest != nil {
		return s.manifest.Resolve(manifestValue)
	}
	return ""
}
