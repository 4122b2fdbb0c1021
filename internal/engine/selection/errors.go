package selection

import "errors"

// Errors returned by selection operations.
var (
	// ErrInactive indicates selection data was read while the selection is
	// inactive. The content of an inactive selection is stale.
	ErrInactive = errors.New("selection is not active")

	// ErrEmptyPath indicates a path that encloses no pixels of the surface.
	ErrEmptyPath = errors.New("selection path is empty")
)
