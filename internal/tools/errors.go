package tools

import (
	"errors"
	"fmt"

	"github.com/dshills/pigment/internal/engine"
)

var (
	// ErrUnknownTool indicates a tool ID outside the registered set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolMismatch indicates an operation handed to the wrong tool.
	ErrToolMismatch = errors.New("operation belongs to another tool")

	// ErrInvalidParams indicates a payload that decodes but cannot be
	// applied, e.g. a seed outside the surface.
	ErrInvalidParams = errors.New("invalid operation parameters")

	// ErrNoSelection indicates a selection tool was started without an
	// active selection.
	ErrNoSelection = fmt.Errorf("no active selection: %w", engine.ErrWrongToolContext)
)
