package session

import (
	"fmt"

	"github.com/dshills/pigment/internal/engine"
	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

// host is the session as seen by its tool machines.
type host struct {
	s *Session
}

var _ tool.Host = host{}

func (h host) Surface() *surface.Surface       { return h.s.surface }
func (h host) Selection() *selection.Selection { return h.s.selection }

func (h host) Acquire(m *tool.Machine) error {
	if op := h.s.operating; op != nil && op != m {
		return fmt.Errorf("%s is operating: %w", op.ID(), engine.ErrWrongToolContext)
	}
	h.s.operating = m
	return nil
}

func (h host) Release(m *tool.Machine) {
	if h.s.operating == m {
		h.s.operating = nil
	}
}

func (h host) Commit(op *operation.Operation, caps tool.Capabilities) error {
	return h.s.commit(op, caps)
}

func (h host) Notify(m *tool.Machine, state tool.State) {
	h.s.log.WithField("tool", m.ID()).WithField("state", state).Trace("tool state")
	h.s.emit(Event{Kind: EventToolState, Tool: m.ID(), State: state})
}
