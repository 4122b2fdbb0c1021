package tool

import "fmt"

// State is the lifecycle state of a Machine.
type State uint8

const (
	// StateIdle means no edit is in progress.
	StateIdle State = iota
	// StateOperating means an edit is in progress and the preview is dirty.
	StateOperating
	// StateCommitted is reported when an edit was handed off. Transient.
	StateCommitted
	// StateCancelled is reported when an edit was discarded. Transient.
	StateCancelled
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOperating:
		return "operating"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome describes how Finish ended.
type Outcome uint8

const (
	// OutcomeNone means Finish failed before reaching a decision.
	OutcomeNone Outcome = iota
	// OutcomeCommitted means an operation was recorded.
	OutcomeCommitted
	// OutcomeElided means the edit was degenerate and nothing was recorded.
	OutcomeElided
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeElided:
		return "elided"
	default:
		return "none"
	}
}

// Machine drives one Behavior through its lifecycle.
//
// A Machine is not safe for concurrent use; it runs on the goroutine that
// owns its host.
type Machine struct {
	behavior Behavior
	host     Host
	state    State
	ctx      *Context
}

// NewMachine creates an idle machine for b running in host.
func NewMachine(b Behavior, host Host) *Machine {
	return &Machine{behavior: b, host: host}
}

// ID returns the tool ID.
func (m *Machine) ID() ID { return m.behavior.ID() }

// Capabilities returns the tool's capability flags.
func (m *Machine) Capabilities() Capabilities { return m.behavior.Capabilities() }

// Behavior returns the wrapped tool.
func (m *Machine) Behavior() Behavior { return m.behavior }

// State returns the current state. Terminal states are never observed here
// because the machine returns to idle before Finish or Cancel returns.
func (m *Machine) State() State { return m.state }

// HasOngoingOperation reports whether an edit is in progress.
func (m *Machine) HasOngoingOperation() bool { return m.state == StateOperating }

// Settings returns the snapshot taken by the current edit.
func (m *Machine) Settings() (Settings, bool) {
	if m.ctx == nil {
		return Settings{}, false
	}
	return m.ctx.Settings, true
}

// Start begins an edit with the given settings snapshot.
//
// It fails without side effects when this or any other machine of the host
// is operating. On success the preview is reset to stable and the machine
// is operating.
func (m *Machine) Start(in Input, settings Settings) error {
	if m.state == StateOperating {
		return fmt.Errorf("start %s: %w", m.ID(), ErrAlreadyOperating)
	}
	if err := m.host.Acquire(m); err != nil {
		return fmt.Errorf("start %s: %w", m.ID(), err)
	}

	ctx := &Context{
		Surface:   m.host.Surface(),
		Selection: m.host.Selection(),
		Settings:  settings,
	}
	ctx.Surface.ResetPreview()
	if err := m.behavior.Begin(ctx, in); err != nil {
		m.behavior.Reset(ctx)
		ctx.Surface.ResetPreview()
		m.host.Release(m)
		return fmt.Errorf("start %s: %w", m.ID(), err)
	}

	m.ctx = ctx
	m.transition(StateOperating)
	return nil
}

// Sample feeds one more input to the edit in progress. Only the preview
// buffer changes.
func (m *Machine) Sample(in Input) error {
	if m.state != StateOperating {
		return fmt.Errorf("sample %s: %w", m.ID(), ErrNotOperating)
	}
	if err := m.behavior.Sample(m.ctx, in); err != nil {
		return fmt.Errorf("sample %s: %w", m.ID(), err)
	}
	return nil
}

// Finish ends the edit. The tool builds an operation from its samples and
// the host records it; a nil operation elides the edit. The machine is idle
// afterwards whatever the outcome, and any failure leaves stable and
// history untouched with the preview reset.
func (m *Machine) Finish(in Input) (Outcome, error) {
	if m.state != StateOperating {
		return OutcomeNone, fmt.Errorf("finish %s: %w", m.ID(), ErrNotOperating)
	}
	ctx := m.ctx

	op, err := m.behavior.Build(ctx, in)
	if err != nil {
		m.abort()
		return OutcomeNone, fmt.Errorf("finish %s: %w", m.ID(), err)
	}

	if op == nil {
		m.behavior.Reset(ctx)
		ctx.Surface.ResetPreview()
		m.done(StateCancelled)
		return OutcomeElided, nil
	}

	if err := m.host.Commit(op, m.behavior.Capabilities()); err != nil {
		m.abort()
		return OutcomeNone, fmt.Errorf("finish %s: %w", m.ID(), err)
	}
	if c, ok := m.behavior.(Committer); ok {
		c.AfterCommit(ctx, op)
	}
	m.done(StateCommitted)
	return OutcomeCommitted, nil
}

// Cancel discards the edit in progress and resets the preview. It never
// fails and does nothing when idle.
func (m *Machine) Cancel() {
	if m.state != StateOperating {
		return
	}
	m.abort()
}

func (m *Machine) abort() {
	m.behavior.Reset(m.ctx)
	m.ctx.Surface.ResetPreview()
	m.done(StateCancelled)
}

func (m *Machine) done(terminal State) {
	m.ctx = nil
	m.host.Release(m)
	m.transition(terminal)
	m.transition(StateIdle)
}

func (m *Machine) transition(s State) {
	m.state = s
	m.host.Notify(m, s)
}
