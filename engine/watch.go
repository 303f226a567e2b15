package engine

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/logger"
)

// Watcher re-runs generation for a set of package directories whenever their
// Go sources change. Writes to the generated file itself are ignored so a
// generation run never retriggers the watcher.
type Watcher struct {
	engine         *Engine
	dirs           []string
	watcher        *fsnotify.Watcher
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	onReport       func(*Report)
}

// NewWatcher creates a watcher over the given package directories.
func (e *Engine) NewWatcher(dirs []string, onReport func(*Report)) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
	}
	return &Watcher{
		engine:         e,
		dirs:           dirs,
		watcher:        fw,
		debouncePeriod: 500 * time.Millisecond,
		onReport:       onReport,
	}, nil
}

// Run watches until ctx is cancelled. An initial generation pass runs before
// the first event so the watched tree starts from a consistent state.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.regenerate()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.engine.logger().Debugw("source change detected",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleRegenerate()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.engine.logger().Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// relevant filters events down to Go source changes the generator cares
// about.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if !strings.HasSuffix(base, ".go") || strings.HasPrefix(base, ".") {
		return false
	}
	return base != w.engine.generatedFile
}

// scheduleRegenerate debounces bursts of file events into one generation run.
func (w *Watcher) scheduleRegenerate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.regenerate)
}

func (w *Watcher) regenerate() {
	for _, dir := range w.dirs {
		report, err := w.engine.Generate(dir)
		if err != nil {
			w.engine.logger().Errorw("generation failed", logger.FieldDir, dir, logger.FieldError, err)
			continue
		}
		if w.onReport != nil {
			w.onReport(report)
		}
	}
}

// Watch is the convenience entry point behind the watch subcommand.
func (e *Engine) Watch(ctx context.Context, dirs []string, onReport func(*Report)) error {
	w, err := e.NewWatcher(dirs, onReport)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
