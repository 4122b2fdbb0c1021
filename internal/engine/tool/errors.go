package tool

import (
	"fmt"

	"github.com/dshills/pigment/internal/engine"
)

// Lifecycle errors. Both classify as engine.ErrWrongToolContext.
var (
	// ErrNotOperating indicates Sample or Finish without a prior Start.
	ErrNotOperating = fmt.Errorf("tool is not operating: %w", engine.ErrWrongToolContext)

	// ErrAlreadyOperating indicates Start while an edit is in progress.
	ErrAlreadyOperating = fmt.Errorf("an operation is already in progress: %w", engine.ErrWrongToolContext)
)
