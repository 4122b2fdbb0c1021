package tools

import (
	"fmt"
	"image"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

// Tool IDs.
const (
	Fill          tool.ID = "fill"
	Pencil        tool.ID = "pencil"
	Eraser        tool.ID = "eraser"
	Line          tool.ID = "line"
	Rectangle     tool.ID = "rectangle"
	RectSelect    tool.ID = "rect_select"
	FreeSelect    tool.ID = "free_select"
	MoveSelection tool.ID = "move_selection"
	Scale         tool.ID = "scale"
)

// Factory creates a fresh tool instance.
type Factory func() tool.Behavior

type entry struct {
	factory Factory
	caps    tool.Capabilities
}

// Registry maps tool IDs to tools. It is the history's replayer: every
// recorded operation is dispatched to the tool named by its tool ID.
//
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	entries map[tool.ID]entry
	order   []tool.ID
}

// NewRegistry returns a registry holding every built-in tool.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[tool.ID]entry)}
	r.register(func() tool.Behavior { return &fillTool{} })
	r.register(func() tool.Behavior { return newPencil() })
	r.register(func() tool.Behavior { return newEraser() })
	r.register(func() tool.Behavior { return &lineTool{} })
	r.register(func() tool.Behavior { return &rectangleTool{} })
	r.register(func() tool.Behavior { return &rectSelectTool{} })
	r.register(func() tool.Behavior { return &freeSelectTool{} })
	r.register(func() tool.Behavior { return &moveSelectionTool{} })
	r.register(func() tool.Behavior { return &scaleTool{} })
	return r
}

func (r *Registry) register(f Factory) {
	b := f()
	r.entries[b.ID()] = entry{factory: f, caps: b.Capabilities()}
	r.order = append(r.order, b.ID())
}

// IDs returns the registered tool IDs in registration order.
func (r *Registry) IDs() []tool.ID {
	return append([]tool.ID(nil), r.order...)
}

// Has reports whether id is registered.
func (r *Registry) Has(id tool.ID) bool {
	_, ok := r.entries[id]
	return ok
}

// New creates a fresh instance of the tool id.
func (r *Registry) New(id tool.ID) (tool.Behavior, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return e.factory(), nil
}

// Capabilities returns the capability flags of the tool id.
func (r *Registry) Capabilities(id tool.ID) (tool.Capabilities, error) {
	e, ok := r.entries[id]
	if !ok {
		return tool.Capabilities{}, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return e.caps, nil
}

// Replay applies op to dst using the tool that recorded it. The operation
// must have been recorded against a surface of the same size.
func (r *Registry) Replay(dst *image.RGBA, op *operation.Operation) error {
	if size := dst.Rect.Size(); op.Size() != size {
		return fmt.Errorf("%w: operation %v, buffer %v", surface.ErrDimensionMismatch, op.Size(), size)
	}
	b, err := r.New(tool.ID(op.ToolID()))
	if err != nil {
		return err
	}
	return b.Replay(dst, op)
}
