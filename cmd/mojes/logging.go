package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mojes/internal/driver"
	"mojes/internal/jsrt"
	"mojes/internal/server"
)

// logLevel is shared by every installed logger; serve raises it to info.
var logLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)

func setupLogging(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		logLevel.SetLevel(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = logLevel
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	driver.SetLogger(logger.Named("driver"))
	jsrt.SetLogger(logger.Named("jsrt"))
	server.SetLogger(logger.Named("server"))
	return nil
}
