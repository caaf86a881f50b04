package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/keyflow/internal/config"
	"github.com/dshills/keyflow/internal/input"
	"github.com/dshills/keyflow/internal/input/capture"
	"github.com/dshills/keyflow/internal/input/event"
	"github.com/dshills/keyflow/internal/input/keymap"
	"github.com/dshills/keyflow/internal/input/paste"
	"github.com/dshills/keyflow/internal/input/queue"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// Config holds the settings. Nil means config.Default().
	Config *config.Config

	// Source is the terminal event source. Required.
	Source capture.Source

	// Dispatcher receives every resolved action. Nil drops them.
	Dispatcher input.Dispatcher

	// Keymaps overrides loading from Config.Keymap.Path.
	Keymaps *keymap.Set

	// Clock stamps key presses and drives flushes. Nil means time.Now.
	Clock func() time.Time

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// PipelineStats is a snapshot of every stage's counters.
type PipelineStats struct {
	Capture capture.Stats
	Queue   queue.Stats
	Paste   paste.Stats
	Input   input.MetricsSnapshot
	Reloads uint64
}

// Pipeline runs capture, translation, flushing and keymap reload as one
// unit. The translator and the flush driver share a goroutine so actions
// reach the dispatcher in resolution order.
type Pipeline struct {
	cfg        *config.Config
	ch         *queue.Channel
	capture    *capture.Task
	translator *input.Translator
	driver     *input.Driver
	dispatcher input.Dispatcher
	clock      func() time.Time
	base       *slog.Logger
	logger     *slog.Logger

	reloads     chan *keymap.Set
	reloadCount atomic.Uint64
	running     atomic.Bool
}

// NewPipeline builds every stage without starting any of them.
func NewPipeline(pc PipelineConfig) (*Pipeline, error) {
	if pc.Source == nil {
		return nil, ErrNoSource
	}
	cfg := pc.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if pc.Clock == nil {
		pc.Clock = time.Now
	}
	if pc.Logger == nil {
		pc.Logger = NullLogger
	}
	if pc.Dispatcher == nil {
		pc.Dispatcher = input.DispatcherFunc(func(input.Action) {})
	}

	ch, err := queue.New(cfg.Input.ChannelCapacity, cfg.Input.Policy(), pc.Logger)
	if err != nil {
		return nil, &InitError{Component: "queue", Err: err}
	}

	task, err := capture.New(capture.Config{
		Source:          pc.Source,
		Channel:         ch,
		PasteChunkBytes: cfg.Input.PasteChunkBytes,
		Clock:           capture.Clock(pc.Clock),
		Logger:          pc.Logger,
	})
	if err != nil {
		return nil, &InitError{Component: "capture", Err: err}
	}

	set := pc.Keymaps
	if set == nil {
		set, err = keymap.Load(cfg.Keymap.Path, pc.Logger)
		if err != nil {
			return nil, &InitError{Component: "keymap", Err: err}
		}
	}

	tr := input.NewTranslator(input.TranslatorConfig{
		Keymaps:         set,
		SequenceTimeout: cfg.Input.SequenceTimeout(),
		DisableTimeout:  !cfg.Input.Timeout,
		Logger:          pc.Logger,
	})

	return &Pipeline{
		cfg:        cfg,
		ch:         ch,
		capture:    task,
		translator: tr,
		driver:     input.NewDriver(tr, pc.Dispatcher, input.Clock(pc.Clock), pc.Logger),
		dispatcher: pc.Dispatcher,
		clock:      pc.Clock,
		base:       pc.Logger,
		logger:     WithComponent(pc.Logger, "app"),
		reloads:    make(chan *keymap.Set, 1),
	}, nil
}

// Translator returns the pipeline's translator.
func (p *Pipeline) Translator() *input.Translator {
	return p.translator
}

// Capture returns the capture task.
func (p *Pipeline) Capture() *capture.Task {
	return p.capture
}

// Reload queues set for installation between events. A reload that
// arrives while another is still queued replaces it.
func (p *Pipeline) Reload(set *keymap.Set) {
	for {
		select {
		case p.reloads <- set:
			return
		default:
		}
		select {
		case <-p.reloads:
		default:
		}
	}
}

// Run starts every stage and blocks until ctx is cancelled or a stage
// fails. It returns nil on cancellation and otherwise the first failure,
// for example capture.ErrStreamEnded when the terminal goes away.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan event.Event)

	g.Go(func() error {
		defer p.ch.Close()
		return p.capture.Run(gctx)
	})

	// The pump and translate loop follow ctx, not gctx: events queued
	// before capture stopped are still translated.
	g.Go(func() error {
		defer close(events)
		return p.pump(ctx, events)
	})

	g.Go(func() error {
		return p.translate(ctx, events)
	})

	if path := p.cfg.Keymap.Path; path != "" && p.cfg.Keymap.Watch {
		g.Go(func() error {
			err := config.WatchKeymap(gctx, path, p.Reload, config.WatchOptions{Logger: p.base})
			if err != nil {
				p.logger.Warn("keymap watch disabled", "error", err)
			}
			return nil
		})
	}

	p.logger.Info("pipeline start",
		"mode", p.translator.Mode(),
		"timeout", p.cfg.Input.Timeout,
		"timeout_ms", p.cfg.Input.TimeoutMS,
		"session", p.capture.ID(),
	)
	err := g.Wait()
	health := p.Health(0)
	p.logger.Info("pipeline stop",
		"actions", p.translator.Stats().Actions,
		"healthy", health.Healthy,
		"health", health.Message,
	)
	return err
}

// pump moves events from the bounded channel to the translate loop.
func (p *Pipeline) pump(ctx context.Context, out chan<- event.Event) error {
	for {
		ev, err := p.ch.Receive(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// translate owns the translator: it steps events, flushes on each tick
// and installs reloaded keymaps between events.
func (p *Pipeline) translate(ctx context.Context, events <-chan event.Event) error {
	ticker := time.NewTicker(p.cfg.Input.TickInterval())
	defer ticker.Stop()

	metrics := p.translator.Metrics()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			timer := metrics.StartKeyTimer()
			res := p.translator.Step(ev)
			if res.Action != nil {
				p.dispatcher.Dispatch(*res.Action)
			}
			if ev.Kind() == event.KindKeyPress {
				timer.Stop()
			}

		case <-ticker.C:
			p.driver.Tick(p.clock())

		case set := <-p.reloads:
			p.translator.SetKeymaps(set)
			p.reloadCount.Add(1)
		}
	}
}

// DefaultLatencyThreshold is the per-key translation latency above which
// Health reports the pipeline as degraded.
const DefaultLatencyThreshold = 10 * time.Millisecond

// Health reports whether translation stayed under threshold and saw no
// legacy events. A zero threshold means DefaultLatencyThreshold.
func (p *Pipeline) Health(threshold time.Duration) input.HealthStatus {
	if threshold <= 0 {
		threshold = DefaultLatencyThreshold
	}
	return p.translator.Metrics().HealthCheck(threshold)
}

// Stats returns a snapshot of every stage's counters.
func (p *Pipeline) Stats() PipelineStats {
	return PipelineStats{
		Capture: p.capture.Stats(),
		Queue:   p.ch.Stats(),
		Paste:   p.capture.Paste().Stats(),
		Input:   p.translator.Stats(),
		Reloads: p.reloadCount.Load(),
	}
}
