package tool

import (
	"image"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
)

// ID identifies a tool. It is also the tool ID recorded in operations.
type ID string

// Capabilities gate which session affordances are meaningful for a tool.
// They do not affect the lifecycle.
type Capabilities struct {
	AcceptsSelection bool // the tool works on the active selection
	UsesColor        bool // the color pickers apply
	UsesOperator     bool // the compositing mode selector applies
}

// Context is what a Behavior sees during one edit.
type Context struct {
	Surface   *surface.Surface
	Selection *selection.Selection
	Settings  Settings
}

// Behavior is implemented by every concrete tool.
//
// Begin, Sample and Build run while the Machine is operating and may only
// write the preview buffer. Build returns a nil Operation to elide a
// degenerate edit. Begin reinitializes any per-edit state. Reset is called
// when an edit is cancelled, elided or fails: it drops accumulated samples
// and undoes any selection changes made during the edit.
//
// Replay must be deterministic: the same operation on the same pixels
// always produces the same result, and dst is left untouched on error.
type Behavior interface {
	ID() ID
	Capabilities() Capabilities
	Begin(ctx *Context, in Input) error
	Sample(ctx *Context, in Input) error
	Build(ctx *Context, in Input) (*operation.Operation, error)
	Reset(ctx *Context)
	Replay(dst *image.RGBA, op *operation.Operation) error
}

// Committer is implemented by tools that update session state once their
// operation has been recorded, e.g. re-anchoring a moved selection.
type Committer interface {
	AfterCommit(ctx *Context, op *operation.Operation)
}

// Host is the environment a Machine runs in, normally an editing session.
type Host interface {
	Surface() *surface.Surface
	Selection() *selection.Selection

	// Acquire claims the host for m. It fails with a wrong tool context
	// error when another machine is operating.
	Acquire(m *Machine) error

	// Release gives up a claim taken by Acquire.
	Release(m *Machine)

	// Commit records op and promotes the preview buffer.
	Commit(op *operation.Operation, caps Capabilities) error

	// Notify reports a state transition of m.
	Notify(m *Machine, state State)
}
