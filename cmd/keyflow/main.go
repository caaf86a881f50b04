// Package main is the entry point for keyflow, which translates terminal
// input into editor actions and prints them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/keyflow/internal/app"
	"github.com/dshills/keyflow/internal/config"
	"github.com/dshills/keyflow/internal/input"
	"github.com/dshills/keyflow/internal/input/capture"
	"github.com/dshills/keyflow/internal/input/keymap"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	KeymapPath string
	ReplayPath string
	LogLevel   string
	LogFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.KeymapPath != "" {
		cfg.Keymap.Path = opts.KeymapPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}

	out, err := app.OpenLogOutput(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer out.Close()

	if opts.ReplayPath != "" {
		logger := newLogger(cfg, out)
		if err := replay(opts.ReplayPath, cfg, os.Stdout, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// The screen owns the terminal in live mode; without a log file the
	// log is dropped rather than drawn over the screen.
	var logger *slog.Logger
	if cfg.Log.File == "" {
		logger = app.NullLogger
	} else {
		logger = newLogger(cfg, out)
	}

	if err := live(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	return app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: out,
		Prefix: "keyflow",
	})
}

// live captures the terminal until SIGINT, SIGTERM or a quit action.
func live(cfg *config.Config, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return app.ErrNotTerminal
	}

	src, err := capture.NewTerminalSource()
	if err != nil {
		return &app.InitError{Component: "terminal", Err: err}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		lines []string
	)
	dispatch := input.DispatcherFunc(func(a input.Action) {
		line := app.FormatAction(a)
		logger.Info("action", "action", line)
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
		if a.Name == "file.quit" || a.Name == "file.saveQuit" {
			cancel()
		}
	})

	var errs app.ErrorList
	p, err := app.NewPipeline(app.PipelineConfig{
		Config:     cfg,
		Source:     src,
		Dispatcher: dispatch,
		Logger:     logger,
	})
	if err != nil {
		errs.Add(err)
		errs.Add(src.Close())
		return errs.AsError()
	}

	runErr := p.Run(ctx)
	if errors.Is(runErr, capture.ErrStreamEnded) {
		runErr = nil
	}
	errs.Add(runErr)
	errs.Add(src.Close())

	mu.Lock()
	for _, line := range lines {
		fmt.Println(line)
	}
	mu.Unlock()

	stats := p.Stats()
	health := p.Health(0)
	fmt.Printf("%d keys, %d actions, %d timeouts, %d rejected\n",
		stats.Input.KeyEvents, stats.Input.Actions, stats.Input.Timeouts, stats.Capture.Rejected)
	fmt.Printf("input %s (peak latency %v)\n", health.Message, health.PeakLatency)
	return errs.AsError()
}

// replay runs a key script through the translator and prints each action.
func replay(path string, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening replay script: %w", err)
	}
	defer f.Close()

	set, err := keymap.Load(cfg.Keymap.Path, logger)
	if err != nil {
		return &app.InitError{Component: "keymap", Err: err}
	}
	tr := input.NewTranslator(input.TranslatorConfig{
		Keymaps:         set,
		SequenceTimeout: cfg.Input.SequenceTimeout(),
		DisableTimeout:  !cfg.Input.Timeout,
		Logger:          logger,
	})

	res, err := app.Replay(f, tr, nil, time.Now())
	for _, a := range res.Actions {
		fmt.Fprintln(w, app.FormatAction(a))
	}
	if err != nil {
		return err
	}
	if !res.Pending.IsEmpty() {
		fmt.Fprintf(w, "pending %s\n", res.Pending)
	}
	return nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.KeymapPath, "keymap", "", "Path to a keymap file (toml, yaml or json)")
	flag.StringVar(&opts.ReplayPath, "replay", "", "Replay a key script instead of reading the terminal")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyflow - terminal input to editor actions\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyflow [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyflow -log-file keys.log        Capture live input, quit with ZQ\n")
		fmt.Fprintf(os.Stderr, "  keyflow -replay script.keys       Replay a key script\n")
		fmt.Fprintf(os.Stderr, "\nScript syntax: key runs such as 5j, dd or <C-w>v separated by\n")
		fmt.Fprintf(os.Stderr, "spaces, @+N to advance the clock N ms, # at line start for comments.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("keyflow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
