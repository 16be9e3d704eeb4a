package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wrehfeld/logscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	fileFlag := flag.String("f", "", "path to the growing log file (or pass it as an argument)")
	xCols := flag.String("x", "", "comma-separated x column selector(s): index or header name")
	yCols := flag.String("y", "", "comma-separated y column selector(s): index or header name")
	maxSamples := flag.Int("n", 0, "max samples kept per series (default 100)")
	interval := flag.Duration("i", 0, "poll and redraw interval (default 50ms)")
	timeout := flag.Duration("timeout", 0, "how long to wait for the log file to appear (default 10s)")
	configPath := flag.String("config", "", "alternate config file path (optional)")
	debugLog := flag.String("debug-log", "", "write diagnostics to this file (optional)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logscope [flags] <logfile>\n\n")
		fmt.Fprintf(os.Stderr, "Live-plots comma-separated numeric telemetry as it is appended to a file,\n")
		fmt.Fprintf(os.Stderr, "e.g. one produced by `mpremote run script.py | tee log.txt`.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	file := *fileFlag
	if file == "" && flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	if file == "" {
		flag.Usage()
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		File:       file,
		XCols:      *xCols,
		YCols:      *yCols,
		MaxSamples: *maxSamples,
		Interval:   *interval,
		Timeout:    *timeout,
		ConfigPath: *configPath,
		DebugLog:   *debugLog,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "logscope: %v\n", err)
		return 1
	}
	return 0
}
