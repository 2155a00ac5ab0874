// Package schemewatch reloads a label scheme file when it changes on disk.
package schemewatch

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/databar"
)

// Watcher monitors a scheme file and delivers the parsed scheme after each
// change. Parse failures are logged and skipped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	schemes  chan *databar.LabelScheme
	done     chan struct{}
}

// New creates a watcher for the scheme at path. It watches the parent
// directory so editors that replace the file by rename are still seen.
func New(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		path:     path,
		debounce: 100 * time.Millisecond,
		schemes:  make(chan *databar.LabelScheme, 1),
		done:     make(chan struct{}),
	}

	go watcher.loop()
	return watcher, nil
}

// Schemes returns a channel that receives the reloaded scheme. Only the
// newest scheme is kept if the receiver falls behind.
func (w *Watcher) Schemes() <-chan *databar.LabelScheme {
	return w.schemes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce: reset timer on each write.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("scheme watch error", "path", w.path, "err", err)
		}
	}
}

func (w *Watcher) reload() {
	scheme, err := databar.LoadScheme(w.path)
	if err != nil {
		slog.Warn("scheme reload failed", "path", w.path, "err", err)
		return
	}
	select {
	case <-w.done:
		return
	default:
	}
	// Replace a scheme the receiver has not picked up yet.
	select {
	case <-w.schemes:
	default:
	}
	select {
	case w.schemes <- scheme:
	default:
	}
	slog.Debug("scheme reloaded", "path", w.path, "name", scheme.Name)
}
