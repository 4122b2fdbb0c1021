package session

import (
	"errors"
	"fmt"

	"github.com/dshills/pigment/internal/engine"
)

var (
	// ErrBusy indicates a request that needs every tool idle.
	ErrBusy = fmt.Errorf("an operation is in progress: %w", engine.ErrToolBusy)

	// ErrJournalUnavailable indicates the history does not start from a
	// blank canvas, so its operations alone cannot reproduce the image.
	ErrJournalUnavailable = errors.New("journal unavailable")
)
