// Package history provides undo/redo for an editing session.
//
// The history is an append-only, linear log of committed operations with a
// cursor marking the current state (0 is the pristine image). Operations
// past the cursor are redo-able but not applied; pushing a new operation
// discards them.
//
// # Replay
//
// The history never stores pixel deltas. Undo rebuilds the stable buffer
// from the pristine base by replaying every operation before the cursor;
// redo replays the single operation being re-applied onto the current
// stable buffer. Replay is delegated to a Replayer, normally the tool
// registry, which dispatches on the operation's tool ID.
//
//	h := history.New(base, registry, history.WithMaxEntries(200))
//	h.Push(op)
//	if err := h.Undo(stable); errors.Is(err, engine.ErrHistoryBoundary) {
//	    // nothing to undo; disable the affordance
//	}
//
// # Failure
//
// If an operation fails to replay during a rebuild, the rebuild stops and
// the stable buffer holds the last successfully replayed state. The history
// is then Degraded until Rebuild succeeds or Clear is called. A failed redo
// leaves both the buffer and the cursor untouched.
//
// # Trimming
//
// With a maximum entry count, the oldest operations are baked into the base
// image once the log grows past the limit, which bounds replay time.
//
// A History is not safe for concurrent use; it belongs to one session.
package history
