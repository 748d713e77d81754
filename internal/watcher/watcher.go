// Package watcher reports changes to a single file.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a new file watcher
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Watch starts watching the file for changes.
// It blocks until the context is cancelled or an error occurs.
// onChange runs on the watching goroutine, once per burst of writes.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching file for changes", "path", w.path)

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// Write, create and the rename target of an atomic save
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce.Reset(w.debounce)
			}

		case <-debounce.C:
			w.logger.Info("File changed", "path", w.path)
			w.onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
