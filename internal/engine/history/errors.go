package history

import (
	"errors"
	"fmt"

	"github.com/dshills/pigment/internal/engine"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", engine.ErrHistoryBoundary)
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", engine.ErrHistoryBoundary)

	// ErrCursorOutOfRange indicates a JumpTo target outside [0, Len()].
	ErrCursorOutOfRange = errors.New("history cursor out of range")

	// ErrDegraded indicates a push onto a history whose last rebuild
	// failed. Rebuild or Clear it first.
	ErrDegraded = fmt.Errorf("history is degraded: %w", engine.ErrReplayFailure)

	// ErrDimensionMismatch indicates a buffer whose bounds differ from the
	// history's base image.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ReplayError reports an operation that failed to replay.
// It matches engine.ErrReplayFailure as well as the underlying cause.
type ReplayError struct {
	Index  int    // position of the operation in the history, -1 if none
	ToolID string // tool that owns the operation
	OpID   string // operation ID
	Err    error  // underlying cause
}

// Error implements error.
func (e *ReplayError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("replay failed: %v", e.Err)
	}
	return fmt.Sprintf("replay of %s %s (#%d) failed: %v", e.ToolID, e.OpID, e.Index, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the cause.
func (e *ReplayError) Unwrap() []error {
	return []error{engine.ErrReplayFailure, e.Err}
}
