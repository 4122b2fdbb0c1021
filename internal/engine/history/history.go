package history

import (
	"fmt"
	"image"
	"time"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/surface"
)

// DefaultMaxEntries is used when no positive limit is configured.
const DefaultMaxEntries = 1000

// Replayer re-applies a recorded operation to a buffer.
//
// Replay must be deterministic and must not modify dst when it returns an
// error.
type Replayer interface {
	Replay(dst *image.RGBA, op *operation.Operation) error
}

// ReplayObserver is told how long each operation took to replay.
type ReplayObserver func(op *operation.Operation, d time.Duration, err error)

// Entry describes one history position for display.
type Entry struct {
	operation.Info
	Applied bool // the operation is at or before the cursor
}

// History manages undo/redo state for one image.
type History struct {
	base     *image.RGBA
	ops      []*operation.Operation
	cursor   int
	baked    int
	degraded bool

	replayer Replayer
	observe  ReplayObserver

	// Configuration
	maxEntries int
}

// Option configures a History.
type Option func(*History)

// WithMaxEntries bounds the number of operations kept.
func WithMaxEntries(max int) Option {
	return func(h *History) {
		if max > 0 {
			h.maxEntries = max
		}
	}
}

// WithReplayObserver installs a callback invoked after every replay.
func WithReplayObserver(fn ReplayObserver) Option {
	return func(h *History) {
		h.observe = fn
	}
}

// New creates a history whose pristine state is a copy of base.
func New(base *image.RGBA, replayer Replayer, opts ...Option) *History {
	h := &History{
		base:       surface.Clone(base),
		replayer:   replayer,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push appends a committed operation at the cursor. Operations past the
// cursor are discarded and their count returned.
//
// If the history exceeds its maximum size, the oldest operations are baked
// into the base image. A bake failure is returned, but the push itself has
// already happened; the history simply stays longer than its limit.
//
// A degraded history refuses the push with ErrDegraded: stable no longer
// matches the cursor, so nothing may be committed on top of it.
func (h *History) Push(op *operation.Operation) (int, error) {
	if h.degraded {
		return 0, ErrDegraded
	}
	dropped := 0
	if h.cursor < len(h.ops) {
		dropped = len(h.ops) - h.cursor
		clear(h.ops[h.cursor:])
		h.ops = h.ops[:h.cursor]
	}
	h.ops = append(h.ops, op)
	h.cursor++
	return dropped, h.trim()
}

// trim bakes the oldest operations into the base while over the limit.
func (h *History) trim() error {
	for len(h.ops) > h.maxEntries && h.cursor > 0 {
		next := surface.Clone(h.base)
		if err := h.replay(next, 0); err != nil {
			return err
		}
		h.base = next
		h.ops[0] = nil
		h.ops = h.ops[1:]
		h.cursor--
		h.baked++
	}
	return nil
}

// Undo moves the cursor back one step and rebuilds stable from the base.
func (h *History) Undo(stable *image.RGBA) error {
	if h.cursor == 0 {
		return ErrNothingToUndo
	}
	h.cursor--
	return h.Rebuild(stable)
}

// Redo re-applies the operation after the cursor onto stable.
//
// When the history is degraded, stable cannot be trusted as the state at
// the cursor, so redo falls back to a full rebuild.
func (h *History) Redo(stable *image.RGBA) error {
	if h.cursor == len(h.ops) {
		return ErrNothingToRedo
	}
	if h.degraded {
		h.cursor++
		return h.Rebuild(stable)
	}
	if err := h.checkBounds(stable); err != nil {
		return err
	}

	scratch := surface.Clone(stable)
	if err := h.replay(scratch, h.cursor); err != nil {
		return err
	}
	surface.Copy(stable, scratch)
	h.cursor++
	return nil
}

// JumpTo moves the cursor to any position and rebuilds stable.
func (h *History) JumpTo(stable *image.RGBA, cursor int) error {
	if cursor < 0 || cursor > len(h.ops) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrCursorOutOfRange, cursor, len(h.ops))
	}
	h.cursor = cursor
	return h.Rebuild(stable)
}

// Rebuild resets stable to the base and replays every operation before the
// cursor. On failure stable holds the last good state and the history is
// marked degraded.
func (h *History) Rebuild(stable *image.RGBA) error {
	if err := h.checkBounds(stable); err != nil {
		h.degraded = true
		return err
	}
	surface.Copy(stable, h.base)
	for i := 0; i < h.cursor; i++ {
		if err := h.replay(stable, i); err != nil {
			h.degraded = true
			return err
		}
	}
	h.degraded = false
	return nil
}

func (h *History) checkBounds(stable *image.RGBA) error {
	if !stable.Rect.Eq(h.base.Rect) {
		return &ReplayError{
			Index: -1,
			Err:   fmt.Errorf("%w: buffer %v, history %v", ErrDimensionMismatch, stable.Rect, h.base.Rect),
		}
	}
	return nil
}

func (h *History) replay(dst *image.RGBA, i int) error {
	op := h.ops[i]
	start := time.Now()
	err := h.replayer.Replay(dst, op)
	if h.observe != nil {
		h.observe(op, time.Since(start), err)
	}
	if err != nil {
		return &ReplayError{Index: i, ToolID: op.ToolID(), OpID: op.ID(), Err: err}
	}
	return nil
}

// Clear drops every operation and makes base the new pristine state.
func (h *History) Clear(base *image.RGBA) {
	clear(h.ops)
	h.ops = nil
	h.cursor = 0
	h.baked = 0
	h.degraded = false
	h.base = surface.Clone(base)
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool { return h.cursor < len(h.ops) }

// Len returns the number of recorded operations, applied or not.
func (h *History) Len() int { return len(h.ops) }

// Cursor returns the number of applied operations.
func (h *History) Cursor() int { return h.cursor }

// Degraded reports whether the last rebuild failed.
func (h *History) Degraded() bool { return h.degraded }

// Baked returns how many operations were trimmed into the base image since
// the history was created or cleared.
func (h *History) Baked() int { return h.baked }

// Base returns a copy of the pristine image.
func (h *History) Base() *image.RGBA { return surface.Clone(h.base) }

// Operations returns the recorded operations in order.
func (h *History) Operations() []*operation.Operation {
	return append([]*operation.Operation(nil), h.ops...)
}

// Applied returns the operations before the cursor.
func (h *History) Applied() []*operation.Operation {
	return append([]*operation.Operation(nil), h.ops[:h.cursor]...)
}

// Entries returns display info for every recorded operation.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.ops))
	for i, op := range h.ops {
		out[i] = Entry{Info: op.Info(), Applied: i < h.cursor}
	}
	return out
}

// PeekUndo returns info about the next undo operation without applying it.
func (h *History) PeekUndo() (operation.Info, bool) {
	if h.cursor == 0 {
		return operation.Info{}, false
	}
	return h.ops[h.cursor-1].Info(), true
}

// PeekRedo returns info about the next redo operation without applying it.
func (h *History) PeekRedo() (operation.Info, bool) {
	if h.cursor == len(h.ops) {
		return operation.Info{}, false
	}
	return h.ops[h.cursor].Info(), true
}

// SetMaxEntries changes the size limit, baking excess entries into the base.
func (h *History) SetMaxEntries(max int) error {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.maxEntries = max
	return h.trim()
}

// MaxEntries returns the maximum number of entries.
func (h *History) MaxEntries() int { return h.maxEntries }
