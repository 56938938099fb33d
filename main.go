package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"tvnav/internal/catalog"
	"tvnav/internal/config"
	"tvnav/internal/dom"
	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/metrics"
	"tvnav/internal/ui"
	"tvnav/internal/ui/coordinator"
	"tvnav/internal/ui/input/types"
	"tvnav/internal/ui/services/navigation"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tvnav: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := config.ParseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	configSvc := config.NewConfigService()
	if opts.ConfigPath != "" {
		configSvc = config.NewConfigServiceAt(opts.ConfigPath)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	opts.Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, closeLog := setupLogging(cfg.Logging)
	defer closeLog()
	slog.SetDefault(logger)
	logger.Info("tvnav: starting", "catalog", cfg.Catalog.File, "columns", cfg.Catalog.Columns)

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	titles, err := catalog.LoadOrCreateTitles(cfg.Catalog.File)
	if err != nil {
		return err
	}
	layout := catalog.LayoutFromConfig(cfg.Catalog)
	doc, err := catalog.NewDocument(titles, layout, dom.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	bus := eventbus.NewWithLogger(logger)
	defer bus.Close()

	app := catalog.NewApp(doc, titles, layout, bus, logger)
	app.Register()

	var recorder metrics.Recorder = metrics.Nop{}
	var prom *metrics.Prometheus
	if cfg.Metrics.Addr != "" {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	hist := dom.NewHistory()
	var p *tea.Program

	coord := coordinator.New(coordinator.Deps{
		Tree:       doc,
		Keys:       doc,
		BackButton: doc,
		History:    hist,
		Bus:        bus,
		Metrics:    recorder,
		Logger:     logger,
	}, coordinator.Options{
		Scoring: navigation.Scoring{
			NoiseMargin: cfg.Navigation.NoiseMargin,
			CrossWeight: cfg.Navigation.CrossAxisWeight,
		},
		KeyMap:        types.NewKeyMap(cfg.Keys),
		ReadyAttempts: cfg.Navigation.ReadyAttempts,
		ReadyInterval: cfg.Navigation.ReadyInterval(),
		MaxDrain:      cfg.Navigation.MaxDrain,
		OnPending: func() {
			// callbacks may run inside Update, so never block here
			go p.Send(ui.PendingMsg{})
		},
	})

	model := ui.NewModel(ui.Deps{
		Doc:         doc,
		App:         app,
		Coordinator: coord,
		History:     hist,
		Config:      cfg,
		Logger:      logger,
	})
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Leaving the first history entry is leaving the page
	hist.OnLeave(func() {
		logger.Info("tvnav: history exhausted, quitting")
		go p.Quit()
	})

	for _, et := range []eventbus.EventType{
		eventbus.EventNavigationReady,
		eventbus.EventPlaybackStarted,
		eventbus.EventCatalogReloaded,
		eventbus.EventBackHandled,
		eventbus.EventError,
	} {
		bus.Subscribe(et, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}
	bus.Subscribe(eventbus.EventPlaybackStarted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.PlaybackStartedEvent); ok {
			logger.Info("tvnav: playback", "title", ev.TitleID)
		}
	})

	if err := coord.Init(ctx); err != nil {
		return err
	}
	defer coord.Dispose()

	g, gctx := errgroup.WithContext(ctx)

	if prom != nil {
		g.Go(func() error {
			return prom.Serve(gctx, cfg.Metrics.Addr, logger)
		})
	}

	if cfg.Catalog.Watch {
		watcher := catalog.NewWatcher(cfg.Catalog.File, app.Reload, logger)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	// A failing worker takes the program down with it
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	g.Go(func() error {
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			err = nil
		}
		stop()
		return errRunFinished{err}
	})

	err = g.Wait()
	var done errRunFinished
	if errors.As(err, &done) {
		err = done.err
	}
	if err != nil {
		logger.Error("tvnav: exited with error", "error", err)
		return err
	}
	logger.Info("tvnav: exited normally")
	return nil
}

// errRunFinished ends the group once the program exits so that the
// background workers are cancelled
type errRunFinished struct {
	err error
}

func (e errRunFinished) Error() string {
	if e.err == nil {
		return "program finished"
	}
	return e.err.Error()
}

func (e errRunFinished) Unwrap() error {
	return e.err
}

// setupLogging sends logs to a file so they do not corrupt the screen
func setupLogging(cfg config.LoggingConfig) (*slog.Logger, func()) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tvnav: could not open log file: %v\n", err)
		} else {
			out = f
			closeFn = func() { _ = f.Close() }
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn
}
