// Package watcher reloads the pigment settings file when it changes.
//
// The watcher subscribes to the file's directory through fsnotify, so
// editors that save by writing a temporary file and renaming it over the
// original are seen too. Bursts of events are debounced into one reload.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/dshills/pigment/internal/config"
	"github.com/dshills/pigment/internal/logging"
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Reload is handed to the handler after each debounced change. Exactly one
// of Config and Err is set.
type Reload struct {
	Event  Event
	Config *config.Config
	Err    error
}

// Handler is called when the settings file has been reloaded.
type Handler func(Reload)

// LoadFunc loads the configuration at path.
type LoadFunc func(path string) (*config.Config, error)

// Watcher monitors one settings file for changes.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	load     LoadFunc
	logger   logrus.FieldLogger

	closeOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces config.Load as the reload function.
func WithLoader(fn LoadFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching path. Events that happen after New returns are
// delivered once Run is called.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		load:     config.Load,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Component(w.logger, "config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers reloads to fn until ctx is done or the watcher is closed.
// It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	defer w.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			event, ok := w.convert(fsEvent)
			if !ok {
				continue
			}
			pending = event
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watch error")

		case <-fire:
			fire = nil
			cfg, err := w.load(w.path)
			if err != nil {
				w.logger.WithError(err).WithField("path", w.path).Warn("reload failed")
			} else {
				w.logger.WithField("path", w.path).Debug("settings reloaded")
			}
			fn(Reload{Event: pending, Config: cfg, Err: err})
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// convert filters fsnotify events down to changes that leave new content
// at the watched path. Removal and permission changes are ignored.
func (w *Watcher) convert(fsEvent fsnotify.Event) (Event, bool) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return Event{}, false
	}

	event := Event{Path: w.path, Time: time.Now()}
	switch {
	case fsEvent.Op.Has(fsnotify.Create):
		event.Op = OpCreate
	case fsEvent.Op.Has(fsnotify.Write):
		event.Op = OpWrite
	default:
		return Event{}, false
	}
	return event, true
}
