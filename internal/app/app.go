// Package app wires configuration, the stream engine, and the UI into
// the logscope program.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wrehfeld/logscope/internal/config"
	"github.com/wrehfeld/logscope/internal/logging"
	"github.com/wrehfeld/logscope/internal/series"
	"github.com/wrehfeld/logscope/internal/stream"
	"github.com/wrehfeld/logscope/internal/tail"
	"github.com/wrehfeld/logscope/internal/ui"
)

// Options carry the command-line settings. Zero values mean "not set";
// the config file and defaults fill the rest.
type Options struct {
	File       string
	XCols      string
	YCols      string
	MaxSamples int
	Interval   time.Duration
	Timeout    time.Duration
	ConfigPath string
	DebugLog   string
}

// Run boots logscope and blocks until the user quits or the context is
// cancelled. Configuration errors come back before the UI ever starts.
func Run(ctx context.Context, opts Options) error {
	if opts.File == "" {
		return fmt.Errorf("no log file given")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.MaxSamples != 0 {
		cfg.MaxSamples = opts.MaxSamples
	}
	if opts.Interval != 0 {
		cfg.Interval = opts.Interval
	}
	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.DebugLog != "" {
		cfg.DebugLog = opts.DebugLog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	spec := series.Spec{
		X: series.ParseSelectors(opts.XCols),
		Y: series.ParseSelectors(opts.YCols),
	}

	log, closeLog, err := logging.Open(cfg.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	console := logging.Console(os.Stderr)
	console.Info().Str("file", opts.File).Msg("log file")
	if err := awaitFile(ctx, opts.File, cfg.Timeout, console); err != nil {
		return err
	}

	src := tail.NewSource(opts.File, log)
	engine, err := stream.New(src, spec, cfg.MaxSamples, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	return ui.Run(ui.Options{
		Context: ctx,
		Engine:  engine,
		Config:  cfg,
		Path:    opts.File,
	})
}
