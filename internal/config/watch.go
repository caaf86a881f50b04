package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keyflow/internal/input/keymap"
)

// DefaultDebounce coalesces the bursts of events editors produce when
// saving a file.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives a freshly compiled keymap set.
type ReloadFunc func(set *keymap.Set)

// WatchOptions configures WatchKeymap.
type WatchOptions struct {
	// Debounce is the quiet period before a reload. Zero means DefaultDebounce.
	Debounce time.Duration

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// Ready, if set, is closed once the watch is registered.
	Ready chan<- struct{}
}

// WatchKeymap reloads the keymap file at path whenever it is written or
// recreated and hands the compiled set to fn. A file that fails to load
// is reported and the previous tables stay in effect.
//
// The containing directory is watched rather than the file, so editors
// that save by renaming a temporary file over the original are seen.
// WatchKeymap blocks until ctx is cancelled and then returns nil.
func WatchKeymap(ctx context.Context, path string, fn ReloadFunc, opts WatchOptions) error {
	if path == "" {
		return ErrNoKeymapPath
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	base := opts.Logger
	if base == nil {
		base = slog.New(slog.DiscardHandler)
	}
	logger := base.With("component", "config")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("keymap watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	if opts.Ready != nil {
		close(opts.Ready)
	}
	logger.Debug("keymap watch started")

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(opts.Debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("keymap watch error", "error", err)

		case <-timer.C:
			set, err := keymap.Load(abs, base)
			if err != nil {
				logger.Warn("keymap reload failed", "error", err)
				continue
			}
			logger.Info("keymap reloaded", "overrides", set.Overrides())
			fn(set)
		}
	}
}
