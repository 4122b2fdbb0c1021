package operation

import "errors"

// Errors returned by operation construction and decoding.
var (
	// ErrMalformedPayload indicates an operation payload that cannot be
	// decoded into the tool's parameters.
	ErrMalformedPayload = errors.New("malformed operation payload")

	// ErrInvalidOperation indicates missing identity or size information.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrJournalVersion indicates a journal written by an unsupported version.
	ErrJournalVersion = errors.New("unsupported journal version")
)
