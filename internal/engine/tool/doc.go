// Package tool implements the lifecycle every editing tool goes through.
//
// A concrete tool is a Behavior: it knows how to begin an edit, how to
// refine the preview while input samples arrive, how to turn the result into
// an Operation, and how to replay that Operation later. The Machine wraps a
// Behavior and enforces the state transitions:
//
//	Idle --Start--> Operating --Sample*--> Operating
//	Operating --Finish--> Committed --> Idle
//	Operating --Cancel--> Cancelled --> Idle
//
// The Machine never touches history itself; it hands the finished Operation
// to its Host (the editing session), which records it and promotes the
// preview buffer to stable.
//
// Tools receive an immutable Settings snapshot when an edit starts, so a
// settings change in the middle of a drag never alters that drag.
package tool
