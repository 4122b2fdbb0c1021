package engine

import "errors"

// Error taxonomy shared by every engine package. Package-level errors wrap
// one of these so callers can classify failures with errors.Is.
var (
	// ErrWrongToolContext indicates a tool lifecycle call arrived out of
	// order, e.g. a sample before start or a start while another tool is
	// operating. It is a caller contract violation.
	ErrWrongToolContext = errors.New("wrong tool context")

	// ErrHistoryBoundary indicates undo or redo was requested with no
	// history in that direction.
	ErrHistoryBoundary = errors.New("history boundary")

	// ErrReplayFailure indicates a recorded operation could not be replayed.
	ErrReplayFailure = errors.New("replay failure")

	// ErrToolBusy indicates a request that requires an idle tool was made
	// while an operation is uncommitted.
	ErrToolBusy = errors.New("tool busy")
)

// IsRecoverable reports whether err is a condition the caller is expected to
// handle as a disabled affordance rather than a failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrHistoryBoundary) || errors.Is(err, ErrToolBusy)
}
