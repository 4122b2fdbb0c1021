package config

import (
	"errors"
	"fmt"
)

// ErrInvalidColor is returned for strings that are not hex colors.
var ErrInvalidColor = errors.New("invalid color")

// ValidationError describes a configuration value that failed validation.
type ValidationError struct {
	// Field is the dotted path of the offending setting.
	Field string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
