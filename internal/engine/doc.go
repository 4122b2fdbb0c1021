// Package engine holds the tool/operation execution engine of Pigment.
//
// The engine turns pointer input into reversible edits on a pixel surface,
// keeps a linear undo/redo history of those edits, and reconciles live
// preview state with committed image state.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - surface: stable and preview raster buffers plus compositing modes
//   - selection: an optionally active region with detached pixel content
//   - operation: immutable, serializable records of committed edits
//   - history: the operation log with an undo/redo cursor and replay
//   - tool: the lifecycle state machine every concrete tool runs inside
//   - session: the aggregate root owning all of the above for one image
//
// Concrete tools live in internal/tools and form a closed set selected by
// tool ID.
//
// # Data Flow
//
//	input event -> tool.Machine (active tool) mutates the preview buffer
//	            -> on finish an Operation is built and committed
//	            -> session pushes it to history and promotes preview to stable
//	            -> observers receive an image-changed event
//
// # Threading
//
// A session is single-threaded: every call into a session and its buffers
// must come from the goroutine that owns it. Sessions share no mutable
// state, so separate sessions may run on separate goroutines. The only
// exception is Session.SetSettings, which may be called from any goroutine
// (the config watcher uses it).
//
// # Error Handling
//
// This package defines the error taxonomy used by every sub-package:
//
//   - ErrWrongToolContext: lifecycle call out of order (contract violation)
//   - ErrHistoryBoundary: nothing to undo or redo
//   - ErrReplayFailure: a recorded operation failed to replay
//   - ErrToolBusy: request refused while an edit is uncommitted
package engine
