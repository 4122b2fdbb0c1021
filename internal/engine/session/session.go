package session

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/pigment/internal/engine"
	"github.com/dshills/pigment/internal/engine/history"
	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/logging"
	"github.com/dshills/pigment/internal/metrics"
	"github.com/dshills/pigment/internal/tools"
)

// Session is the editing state of one open image.
type Session struct {
	id        uuid.UUID
	surface   *surface.Surface
	selection *selection.Selection
	history   *history.History
	registry  *tools.Registry

	machines  map[tool.ID]*tool.Machine
	active    *tool.Machine
	operating *tool.Machine

	settings atomic.Pointer[tool.Settings]

	log     logrus.FieldLogger
	metrics *metrics.Collector

	observers []subscription
	nextSub   int

	// blank is true while the history base is the blank canvas New made.
	blank bool
}

// New creates a session with a blank canvas of the given size.
func New(width, height int, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	surf, err := surface.New(width, height, o.background)
	if err != nil {
		return nil, err
	}
	s, err := newSession(surf, o)
	if err != nil {
		return nil, err
	}
	s.blank = true
	return s, nil
}

// Open creates a session whose pristine image is a copy of img, as handed
// over by a decoder.
func Open(img image.Image, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	surf, err := surface.FromImage(img)
	if err != nil {
		return nil, err
	}
	return newSession(surf, o)
}

func newSession(surf *surface.Surface, o options) (*Session, error) {
	s := &Session{
		id:        uuid.New(),
		surface:   surf,
		selection: selection.New(),
		registry:  o.registry,
		machines:  make(map[tool.ID]*tool.Machine),
		metrics:   o.metrics,
	}
	if s.registry == nil {
		s.registry = tools.NewRegistry()
	}
	logger := o.logger
	if logger == nil {
		logger = logging.Discard()
	}
	s.log = logging.Component(logger, "session").WithField("session", s.id.String())

	settings := o.settings
	s.settings.Store(&settings)

	s.history = history.New(surf.StableRGBA(), s.registry,
		history.WithMaxEntries(o.maxHistory),
		history.WithReplayObserver(s.observeReplay))

	h := host{s: s}
	for _, id := range s.registry.IDs() {
		b, err := s.registry.New(id)
		if err != nil {
			return nil, err
		}
		s.machines[id] = tool.NewMachine(b, h)
	}
	active, ok := s.machines[o.initialTool]
	if !ok {
		return nil, fmt.Errorf("initial tool: %w: %q", tools.ErrUnknownTool, o.initialTool)
	}
	s.active = active

	s.log.WithFields(logrus.Fields{
		"width":  surf.Width(),
		"height": surf.Height(),
		"tool":   active.ID(),
	}).Debug("session created")
	return s, nil
}

func (s *Session) observeReplay(op *operation.Operation, d time.Duration, err error) {
	s.metrics.RecordReplay(op.ToolID(), d, err)
	if err != nil {
		s.log.WithError(err).WithField("op", op.String()).Warn("replay failed")
	}
}

// ID returns the session's unique ID.
func (s *Session) ID() uuid.UUID { return s.id }

// Size returns the image dimensions.
func (s *Session) Size() image.Point { return s.surface.Size() }

// Surface returns the session's surface. Callers outside the engine should
// only read from it.
func (s *Session) Surface() *surface.Surface { return s.surface }

// Selection returns the session's selection.
func (s *Session) Selection() *selection.Selection { return s.selection }

// StableImage returns a copy of the committed pixels, the only buffer that
// may be persisted.
func (s *Session) StableImage() *image.RGBA { return s.surface.Stable() }

// PreviewImage returns a copy of the working pixels shown during an edit.
func (s *Session) PreviewImage() *image.RGBA { return s.surface.Preview() }

// Digest returns the hex SHA-256 of the stable buffer.
func (s *Session) Digest() string { return s.surface.Digest() }

// Settings returns the current settings snapshot.
func (s *Session) Settings() tool.Settings { return *s.settings.Load() }

// SetSettings replaces the settings used by the next edit. An edit in
// progress keeps the snapshot it started with. Safe for concurrent use.
func (s *Session) SetSettings(settings tool.Settings) {
	s.settings.Store(&settings)
}

// Tools returns the IDs of every available tool.
func (s *Session) Tools() []tool.ID { return s.registry.IDs() }

// Tool returns the machine for id.
func (s *Session) Tool(id tool.ID) (*tool.Machine, error) {
	m, ok := s.machines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", tools.ErrUnknownTool, id)
	}
	return m, nil
}

// ActiveTool returns the machine that receives pointer input.
func (s *Session) ActiveTool() *tool.Machine { return s.active }

// Busy reports whether any tool has an edit in progress.
func (s *Session) Busy() bool { return s.operating != nil }

// SwitchTool makes id the active tool. It fails with engine.ErrToolBusy
// while any tool has an edit in progress; the caller must finish or cancel
// it first.
func (s *Session) SwitchTool(id tool.ID) error {
	m, err := s.Tool(id)
	if err != nil {
		return err
	}
	if op := s.operating; op != nil {
		return fmt.Errorf("switch to %s: %s: %w", id, op.ID(), ErrBusy)
	}
	if m == s.active {
		return nil
	}
	s.active = m
	s.log.WithField("tool", id).Debug("tool switched")
	s.emit(Event{Kind: EventToolChanged, Tool: id})
	return nil
}

// Press starts an edit with the active tool and the current settings.
func (s *Session) Press(in tool.Input) error {
	return s.active.Start(in, s.Settings())
}

// Move samples the edit in progress. Without one it is a hover and does
// nothing.
func (s *Session) Move(in tool.Input) error {
	if !s.active.HasOngoingOperation() {
		return nil
	}
	return s.active.Sample(in)
}

// Release finishes the edit in progress.
func (s *Session) Release(in tool.Input) (tool.Outcome, error) {
	id := s.active.ID()
	outcome, err := s.active.Finish(in)
	switch {
	case errors.Is(err, tool.ErrNotOperating):
		// Release without a press.
	case err != nil:
		s.metrics.RecordCancel(string(id))
		s.log.WithError(err).WithField("tool", id).Warn("edit failed")
	case outcome == tool.OutcomeElided:
		s.metrics.RecordElision(string(id))
		s.log.WithField("tool", id).Debug("edit elided")
	}
	return outcome, err
}

// Escape cancels the edit in progress, if any, whichever tool started it.
func (s *Session) Escape() {
	m := s.operating
	if m == nil {
		return
	}
	m.Cancel()
	s.metrics.RecordCancel(string(m.ID()))
	s.log.WithField("tool", m.ID()).Debug("edit cancelled")
}

// Commit records an operation built outside the tool machines, e.g. read
// from a journal. The operation is rendered through its tool onto a fresh
// preview and then committed like an interactive edit. The selection is
// cleared.
func (s *Session) Commit(op *operation.Operation) error {
	if s.operating != nil {
		return fmt.Errorf("commit %s: %w", op, ErrBusy)
	}
	caps, err := s.registry.Capabilities(tool.ID(op.ToolID()))
	if err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	s.surface.ResetPreview()
	if err := s.registry.Replay(s.surface.PreviewRGBA(), op); err != nil {
		s.surface.ResetPreview()
		return fmt.Errorf("commit %s: %w: %w", op, engine.ErrReplayFailure, err)
	}
	s.selection.Deactivate()
	return s.commit(op, caps)
}

// commit pushes op and promotes the preview. The preview must hold the
// result of op applied to stable.
func (s *Session) commit(op *operation.Operation, caps tool.Capabilities) error {
	if op.Size() != s.surface.Size() {
		return fmt.Errorf("commit %s: %w: operation %v, surface %v",
			op, surface.ErrDimensionMismatch, op.Size(), s.surface.Size())
	}

	if s.history.Degraded() {
		return fmt.Errorf("commit %s: %w", op, history.ErrDegraded)
	}

	dropped, err := s.history.Push(op)
	if err != nil {
		// The push happened; only baking old entries into the base failed.
		s.log.WithError(err).Warn("history trim failed")
	}
	s.surface.CommitPreview()
	if !caps.AcceptsSelection {
		s.selection.Deactivate()
	}

	s.metrics.RecordCommit(op.ToolID(), s.history.Len())
	s.log.WithFields(logrus.Fields{
		"tool":    op.ToolID(),
		"op":      op.ID(),
		"cursor":  s.history.Cursor(),
		"dropped": dropped,
	}).Debug("operation committed")

	s.emit(Event{Kind: EventHistoryChanged, Tool: tool.ID(op.ToolID())})
	s.emit(Event{Kind: EventImageChanged, Tool: tool.ID(op.ToolID())})
	return nil
}

// Undo steps back one operation, rebuilding stable by replay. At the oldest
// state it returns an error matching engine.ErrHistoryBoundary and changes
// nothing. A replay failure leaves stable at the last good state and the
// history degraded; see Retry and ClearHistory.
func (s *Session) Undo() error {
	return s.moveHistory("undo", s.history.Undo)
}

// Redo re-applies the next operation. At the newest state it returns an
// error matching engine.ErrHistoryBoundary.
func (s *Session) Redo() error {
	return s.moveHistory("redo", s.history.Redo)
}

// JumpTo moves the history cursor to n, rebuilding stable.
func (s *Session) JumpTo(n int) error {
	return s.moveHistory("jump", func(stable *image.RGBA) error {
		return s.history.JumpTo(stable, n)
	})
}

// Retry rebuilds stable from the base at the current cursor, e.g. after a
// degraded undo.
func (s *Session) Retry() error {
	return s.moveHistory("retry", s.history.Rebuild)
}

func (s *Session) moveHistory(direction string, move func(*image.RGBA) error) error {
	if s.operating != nil {
		return fmt.Errorf("%s: %w", direction, ErrBusy)
	}

	err := move(s.surface.StableRGBA())
	s.metrics.RecordHistoryMove(direction, err)
	if errors.Is(err, engine.ErrHistoryBoundary) || errors.Is(err, history.ErrCursorOutOfRange) {
		return err
	}

	s.surface.ResetPreview()
	s.selection.Deactivate()

	log := s.log.WithFields(logrus.Fields{"cursor": s.history.Cursor(), "length": s.history.Len()})
	if err != nil {
		log.WithError(err).Warn(direction + " degraded the history")
	} else {
		log.Debug(direction)
	}
	s.emit(Event{Kind: EventHistoryChanged, Err: err})
	s.emit(Event{Kind: EventImageChanged, Err: err})
	return err
}

// ClearHistory drops every operation and makes the current stable buffer
// the new pristine image. This is the way out of a degraded history.
func (s *Session) ClearHistory() error {
	if s.operating != nil {
		return fmt.Errorf("clear history: %w", ErrBusy)
	}
	s.history.Clear(s.surface.StableRGBA())
	s.blank = false
	s.metrics.SetHistoryLength(0)
	s.log.Info("history cleared")
	s.emit(Event{Kind: EventHistoryChanged})
	return nil
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.operating == nil && s.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.operating == nil && s.history.CanRedo() }

// Cursor returns the number of applied operations.
func (s *Session) Cursor() int { return s.history.Cursor() }

// HistoryLen returns the number of recorded operations.
func (s *Session) HistoryLen() int { return s.history.Len() }

// Degraded reports whether the last history rebuild failed.
func (s *Session) Degraded() bool { return s.history.Degraded() }

// Entries returns display info for the history list.
func (s *Session) Entries() []history.Entry { return s.history.Entries() }

// Operations returns every recorded operation, applied or not.
func (s *Session) Operations() []*operation.Operation { return s.history.Operations() }

// Journal returns the header and applied operations that rebuild the
// current stable buffer from a blank canvas of the session's size. The
// caller fills in the header background. It fails when the history does not
// start from the blank canvas: the session was opened from an image, the
// history was cleared, or old operations were trimmed into the base.
func (s *Session) Journal() (operation.Header, []*operation.Operation, error) {
	switch {
	case !s.blank:
		return operation.Header{}, nil, fmt.Errorf("%w: base is not a blank canvas", ErrJournalUnavailable)
	case s.history.Baked() > 0:
		return operation.Header{}, nil, fmt.Errorf("%w: %d operations trimmed", ErrJournalUnavailable, s.history.Baked())
	}
	size := s.surface.Size()
	return operation.Header{Width: size.X, Height: size.Y}, s.history.Applied(), nil
}
