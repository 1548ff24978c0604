package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/minuteman3/log-find-time/internal/locate"
	"github.com/minuteman3/log-find-time/internal/timeofday"
)

// version is set via ldflags at build time.
var version = "dev"

const longHelp = `Log Find Time - Print the lines of a log file that fall inside a time range

The log is binary searched rather than read from the start, so large files
are handled quickly. Timestamps must sit at a fixed byte column of every
line (HH:MM:SS, column 7 by default) and may roll over midnight once.

TIME is one of H:MM, HH:MM, H:MM:SS or HH:MM:SS, or a range START-END of
those. A start without seconds begins at :00 and an end without seconds
ends at :59, so "8:42" selects the whole minute. A range whose end is
earlier than its start crosses midnight.

FILE and TIME may be given in either order. Without FILE the log named in
the configuration file is used, falling back to /logs/haproxy.log.

Configuration file format (.ini):
  [input]
  file = /logs/haproxy.log
  column = 7

  [search]
  time = 8:42-8:45

Files ending in .yaml or .yml use the same keys:
  input:
    file: /logs/haproxy.log
    column: 7
  search:
    time: "8:42-8:45"

The environment variable LOG_FIND_TIME_FILE overrides the configured file.`

type options struct {
	configFile string
	column     int
	stats      bool
	verbose    bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and returns the exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "log-find-time [flags] [FILE] TIME",
		Short: "Print the lines of a log file that fall inside a time range",
		Long:  longHelp,
		Example: `  log-find-time 8:42
  log-find-time /logs/haproxy.log 10:01-10:03
  log-find-time 23:59:30-00:00:30 /logs/haproxy.log`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", getDefaultConfigPath(), "Path to configuration file")
	flags.IntVar(&opts.column, "column", locate.DefaultColumn, "Byte column of the HH:MM:SS timestamp in each line")
	flags.BoolVar(&opts.stats, "stats", false, "Report search statistics on stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every search probe on stderr")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load config from file
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Override config with command line flags if provided
	if cmd.Flags().Changed("column") {
		if opts.column < 0 {
			return fmt.Errorf("invalid timestamp column %d", opts.column)
		}
		cfg.Column = opts.column
	}

	file, timeArg, err := resolveArgs(args, cfg)
	if err != nil {
		return err
	}

	rng, err := timeofday.ParseRange(timeArg)
	if err != nil {
		return fmt.Errorf("non-existent time given: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), opts)
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(file) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("closing log file", zap.String("file", file), zap.Error(cerr))
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	loc := locate.New(f, info.Size(), locate.Options{Column: cfg.Column, Logger: logger})
	stats, err := loc.Run(ctx, rng, cmd.OutOrStdout())

	if opts.stats {
		logger.Info("search finished",
			zap.String("file", file),
			zap.Stringer("range", rng),
			zap.Int("resolves", stats.Resolves),
			zap.Int("reads", stats.Reads),
			zap.Int("probes", stats.Probes))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

// resolveArgs sorts the positional arguments into a log file and a time
// argument, taking whichever is missing from the config.
func resolveArgs(args []string, cfg *config) (string, string, error) {
	var file, timeArg string
	for _, arg := range args {
		if isTimeArg(arg) {
			if timeArg != "" {
				return "", "", errors.New("two times given")
			}
			timeArg = arg
			continue
		}
		if file != "" {
			return "", "", errors.New("two files given")
		}
		file = arg
	}

	if file == "" {
		file = cfg.File
	}
	if timeArg == "" {
		timeArg = cfg.Time
	}
	if timeArg == "" {
		return "", "", errors.New("no time given")
	}
	return file, timeArg, nil
}

// isTimeArg reports whether arg is meant as a time rather than a file name.
// Malformed times such as "25:00" still count so they can be reported.
func isTimeArg(arg string) bool {
	return strings.Contains(arg, ":") && strings.Trim(arg, "0123456789:-") == ""
}

// newLogger builds the stderr logger. Warnings only by default, search
// statistics with --stats, and every probe with --verbose.
func newLogger(w io.Writer, opts *options) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case opts.verbose:
		level = zapcore.DebugLevel
	case opts.stats:
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
