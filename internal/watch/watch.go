// Package watch feeds re-check requests for the CLI's "check --watch" mode
// off an fsnotify watcher, on its own goroutine — it never touches checker
// state directly, only ever sends a path down a channel for the CLI's own
// pass to pick up.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps an fsnotify.Watcher and debounces its write events into a
// channel of paths worth re-checking.
type Watcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	paths    chan string
	errs     chan error
}

// New creates a Watcher that debounces repeated write events to the same
// path within debounce before emitting it.
func New(debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher{
		w:        w,
		debounce: debounce,
		paths:    make(chan string, 32),
		errs:     make(chan error, 1),
	}
	go watcher.loop()
	return watcher, nil
}

// Add starts watching name for changes.
func (w *Watcher) Add(name string) error {
	return w.w.Add(name)
}

// Paths yields a path each time it has settled — no further write arrived
// for it within the debounce window.
func (w *Watcher) Paths() <-chan string {
	return w.paths
}

// Errors yields errors reported by the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and its goroutine.
func (w *Watcher) Close() error {
	return w.w.Close()
}

func (w *Watcher) loop() {
	pending := map[string]*time.Timer{}
	fire := make(chan string, 32)

	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if t, exists := pending[ev.Name]; exists {
				t.Stop()
			}
			name := ev.Name
			pending[name] = time.AfterFunc(w.debounce, func() {
				fire <- name
			})

		case name := <-fire:
			delete(pending, name)
			w.paths <- name

		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.errs <- err
		}
	}
}
