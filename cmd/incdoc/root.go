package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/incdoc/pkg/config"
	"github.com/walteh/incdoc/pkg/log"
	"github.com/walteh/incdoc/pkg/operation"
)

var (
	// Flags
	configFile string
	dryRun     bool
	failFast   bool
	jobs       int
	debug      bool
	quiet      bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incdoc [root-dir]",
		Short: "splice included file content into doc comments between include_doc markers",
		Long: `incdoc scans source files for paired include_doc marker comments, reads the
referenced files, and splices the selected range back between the markers as
doc-comment lines. Running it twice is a no-op: the first run's output is a
fixed point.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootArg := ""
			if len(args) == 1 {
				rootArg = args[0]
			}
			return run(cmd.Context(), rootArg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (default .incdoc.yaml when present)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report changes without writing files")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "abort the run on the first failed file")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of files processed in parallel (default 1)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-file output")

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging() zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
}

// loadConfig builds the effective config from the config file (when present)
// and flag overrides.
func loadConfig(ctx context.Context, rootArg string) (*config.Config, error) {
	path := configFile
	if path == "" {
		if _, err := os.Stat(".incdoc.yaml"); err == nil {
			path = ".incdoc.yaml"
		}
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	// flags win over file values
	if rootArg != "" {
		cfg.Root = rootArg
	}
	if dryRun {
		cfg.DryRun = true
	}
	if failFast {
		cfg.FailFast = true
	}
	if jobs > 0 {
		cfg.Jobs = jobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, rootArg string) error {
	zlog := setupLogging()
	ctx = zlog.WithContext(ctx)

	cfg, err := loadConfig(ctx, rootArg)
	if err != nil {
		zlog.Error().Err(err).Msg("configuration")
		return err
	}

	console := os.Stdout
	userLogger := log.New(console, zlog)
	if quiet {
		userLogger = log.New(discard{}, zlog)
	}
	userLogger.Header("processing " + cfg.String())

	op, err := operation.New(operation.Options{Config: cfg, Logger: userLogger})
	if err != nil {
		return err
	}

	result, err := op.Run(ctx)
	if err != nil {
		userLogger.Errorf("run failed: %v", err)
		return err
	}

	switch {
	case result.Failed > 0:
		userLogger.Errorf("%d of %d files failed", result.Failed, result.Processed)
		return errors.Errorf("%d files failed", result.Failed)
	case result.Updated > 0 && cfg.DryRun:
		userLogger.Warningf("%d of %d files would change (dry run, nothing written)", result.Updated, result.Processed)
		// non-zero exit so CI can gate on staleness
		return errors.Errorf("%d files out of date", result.Updated)
	case result.Updated > 0:
		userLogger.Successf("%d of %d files updated", result.Updated, result.Processed)
	default:
		userLogger.Successf("all %d files up to date", result.Processed)
	}
	return nil
}

// discard is an io.Writer for --quiet console output.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
