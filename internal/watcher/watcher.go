// Package watcher provides debounced file system watching of tracker storage.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is the time to wait after the last file event before triggering
// a callback. This coalesces the burst of writes of a single save into one
// notification.
const debounceDelay = 100 * time.Millisecond

// Watcher watches storage locations for changes and invokes a callback
// with debouncing.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	filter   func(path string) bool
	delay    time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter drops events whose path does not satisfy keep.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.filter = keep }
}

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// New creates a Watcher that monitors the given directories for changes.
// The callback is invoked (debounced) whenever a relevant change is detected.
func New(paths []string, callback func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:      fsw,
		callback: callback,
		filter:   func(string) bool { return true },
		delay:    debounceDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// ForStorage watches a storage location. A directory is watched as a whole,
// ignoring hidden files such as the lock file. A single file is watched
// through its parent directory, keeping only events that name it.
func ForStorage(location string, callback func(), opts ...Option) (*Watcher, error) {
	info, err := os.Stat(location)
	if err == nil && info.IsDir() {
		opts = append([]Option{WithFilter(notHidden)}, opts...)
		return New([]string{location}, callback, opts...)
	}

	base := filepath.Base(location)
	opts = append([]Option{WithFilter(func(path string) bool {
		return filepath.Base(path) == base
	})}, opts...)
	return New([]string{filepath.Dir(location)}, callback, opts...)
}

func notHidden(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.filter(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
