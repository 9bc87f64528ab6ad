package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/logger"
)

const app = "screen"

var (
	debug   bool
	jsonLog bool

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "screen ranks PDF resumes against a job description from the command line",
		SilenceUsage: true,
	}
)

// Execute executes the root command. Cancelling ctx aborts in-flight model
// calls.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// setup loads the environment configuration and a logger honoring the
// persistent flags.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	format, level := cfg.Server.LogFormat, cfg.Server.LogLevel
	if jsonLog {
		format = "json"
	}
	if debug {
		level = "debug"
	}

	log, err := logger.New(format, level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
