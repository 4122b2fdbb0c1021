package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pigment/internal/engine/session"
	"github.com/dshills/pigment/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 30 * time.Second

// Runner executes Lua scripts against one session.
//
// A Runner is not safe for concurrent use; gopher-lua states are single
// threaded and so is the session.
type Runner struct {
	sess    *session.Session
	out     io.Writer
	logger  logrus.FieldLogger
	timeout time.Duration

	commits int
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where the script's print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each run. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner that drives sess.
func NewRunner(sess *session.Session, opts ...Option) *Runner {
	r := &Runner{
		sess:    sess,
		out:     os.Stdout,
		logger:  logging.Discard(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.Component(r.logger, "script")
	return r
}

// Session returns the session the runner drives.
func (r *Runner) Session() *session.Session { return r.sess }

// Commits returns how many edits scripts run by r have committed.
func (r *Runner) Commits() int { return r.commits }

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, filepath.Base(path), string(code))
}

// Run executes code in a fresh sandboxed state. name labels the chunk in
// error messages. An edit the script leaves in progress is cancelled.
func (r *Runner) Run(ctx context.Context, name, code string) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newState()
	defer L.Close()
	installSandbox(L, r.out)
	r.register(L)
	L.SetContext(ctx)

	defer func() {
		if p := recover(); p != nil {
			err = &Error{Script: name, Err: fmt.Errorf("lua panic: %v", p)}
		}
		if r.sess.Busy() {
			r.logger.WithField("script", name).Warn("script left an edit in progress; cancelling")
			r.sess.Escape()
		}
	}()

	start := time.Now()
	fn, err := L.Load(strings.NewReader(code), name)
	if err != nil {
		return &Error{Script: name, Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Script: name, Err: ctxErr}
		}
		return &Error{Script: name, Err: err}
	}

	r.logger.WithFields(logrus.Fields{
		"script":  name,
		"commits": r.commits,
		"elapsed": time.Since(start),
	}).Debug("script finished")
	return nil
}
