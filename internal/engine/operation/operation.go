// Package operation defines the immutable record of one committed edit.
//
// An Operation carries the ID of the tool that produced it, the size of the
// surface it was recorded against, and an opaque YAML payload holding the
// tool's parameters. Replaying the same operation against the same starting
// pixels always yields the same result; the tool that owns the ID is the
// only thing that interprets the payload.
package operation

import (
	"fmt"
	"image"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// Operation is an immutable, serializable description of one reversible edit.
type Operation struct {
	id          ulid.ULID
	toolID      string
	size        image.Point
	description string
	created     time.Time
	payload     []byte
}

// Option configures an Operation during construction.
type Option func(*Operation)

// WithDescription sets the human-readable label shown in history lists.
func WithDescription(desc string) Option {
	return func(op *Operation) {
		op.description = desc
	}
}

// New builds an operation for toolID recorded against a surface of the
// given size. params is encoded into the payload immediately, so later
// changes to it do not affect the operation.
func New(toolID string, size image.Point, params any, opts ...Option) (*Operation, error) {
	if toolID == "" {
		return nil, fmt.Errorf("%w: empty tool id", ErrInvalidOperation)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: size %v", ErrInvalidOperation, size)
	}
	payload, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding %s parameters: %w", toolID, err)
	}

	op := &Operation{
		id:      ulid.Make(),
		toolID:  toolID,
		size:    size,
		created: time.Now(),
		payload: payload,
	}
	for _, opt := range opts {
		opt(op)
	}
	return op, nil
}

// Restore rebuilds an operation from its recorded fields, e.g. when reading
// a journal.
func Restore(id, toolID string, size image.Point, created time.Time, payload []byte, opts ...Option) (*Operation, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q: %v", ErrInvalidOperation, id, err)
	}
	if toolID == "" {
		return nil, fmt.Errorf("%w: empty tool id", ErrInvalidOperation)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: size %v", ErrInvalidOperation, size)
	}
	op := &Operation{
		id:      parsed,
		toolID:  toolID,
		size:    size,
		created: created,
		payload: append([]byte(nil), payload...),
	}
	for _, opt := range opts {
		opt(op)
	}
	return op, nil
}

// ID returns the operation's unique, time-ordered identifier.
func (op *Operation) ID() string { return op.id.String() }

// ToolID returns the ID of the tool that can replay this operation.
func (op *Operation) ToolID() string { return op.toolID }

// Size returns the surface size the operation was recorded against.
func (op *Operation) Size() image.Point { return op.size }

// Created returns when the operation was built.
func (op *Operation) Created() time.Time { return op.created }

// Description returns the human-readable label, or the tool ID if none.
func (op *Operation) Description() string {
	if op.description == "" {
		return op.toolID
	}
	return op.description
}

// Payload returns a copy of the encoded parameters.
func (op *Operation) Payload() []byte {
	return append([]byte(nil), op.payload...)
}

// Decode unmarshals the payload into v.
func (op *Operation) Decode(v any) error {
	if err := yaml.Unmarshal(op.payload, v); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedPayload, op.toolID, op.ID(), err)
	}
	return nil
}

// Info returns a read-only summary for history lists.
func (op *Operation) Info() Info {
	return Info{
		ID:          op.ID(),
		ToolID:      op.toolID,
		Description: op.Description(),
		Created:     op.created,
	}
}

// String implements fmt.Stringer.
func (op *Operation) String() string {
	return fmt.Sprintf("%s(%s)", op.toolID, op.ID())
}

// Info provides read-only info about an operation.
// Used for displaying undo/redo history to users.
type Info struct {
	ID          string
	ToolID      string
	Description string
	Created     time.Time
}
