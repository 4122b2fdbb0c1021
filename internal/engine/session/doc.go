// Package session implements the editing session: the aggregate that owns
// one surface, one selection, one history and the set of tool machines for
// a single open image.
//
// Commit is the only path by which the stable buffer advances. Every
// committed operation is pushed to history first and then the preview is
// promoted, so stable is always the replay of the applied operations.
//
// A Session is driven from a single goroutine. SetSettings is the one
// exception: it may be called from any goroutine (e.g. a config watcher)
// and takes effect at the next Press.
package session
