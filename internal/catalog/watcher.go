package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tvnav/internal/domain"
)

// DefaultDebounce collapses the bursts of events editors produce on save
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a titles file whenever it changes on disk
type Watcher struct {
	path     string
	debounce time.Duration
	reload   func([]domain.Title) error
	logger   *slog.Logger
}

// NewWatcher watches path and hands every successfully parsed version to
// reload. Parse failures are logged and the previous catalog stays.
func NewWatcher(path string, reload func([]domain.Title) error, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, debounce: DefaultDebounce, reload: reload, logger: logger}
}

// SetDebounce changes the quiet period before a reload
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is done. The directory is watched rather than the
// file so that atomic rename-on-save is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info("catalog: watching", "path", abs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog: watcher error", "error", err)

		case <-fire:
			fire = nil
			w.load(abs)
		}
	}
}

func (w *Watcher) load(path string) {
	titles, err := LoadTitles(path)
	if err != nil {
		w.logger.Warn("catalog: reload skipped", "path", path, "error", err)
		return
	}
	if err := w.reload(titles); err != nil {
		w.logger.Warn("catalog: reload failed", "error", err)
	}
}
