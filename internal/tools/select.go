package tools

import (
	"image"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/tool"
)

var selectCaps = tool.Capabilities{AcceptsSelection: true}

// activate replaces the session selection with path, or clears it when the
// path does not cover any pixel of the surface.
func activate(ctx *tool.Context, path selection.Path) {
	if err := ctx.Selection.Activate(path, ctx.Surface.StableRGBA()); err != nil {
		ctx.Selection.Deactivate()
	}
}

// rectSelectTool selects the rectangle dragged out between the press point
// and the release point. A click without a drag clears the selection.
// Selecting is not an edit, so Build never returns an operation.
type rectSelectTool struct {
	anchor image.Point
	last   image.Point
}

func (t *rectSelectTool) ID() tool.ID                     { return RectSelect }
func (t *rectSelectTool) Capabilities() tool.Capabilities { return selectCaps }

func (t *rectSelectTool) Begin(ctx *tool.Context, in tool.Input) error {
	t.anchor = in.Point()
	t.last = t.anchor
	return nil
}

func (t *rectSelectTool) Sample(ctx *tool.Context, in tool.Input) error {
	t.last = in.Point()
	return nil
}

func (t *rectSelectTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	t.last = in.Point()
	r := image.Rectangle{Min: t.anchor, Max: t.last}.Canon().Intersect(ctx.Surface.Bounds())
	if r.Empty() {
		ctx.Selection.Deactivate()
		return nil, nil
	}
	activate(ctx, selection.RectPath(r))
	return nil, nil
}

func (t *rectSelectTool) Reset(ctx *tool.Context) {
	t.anchor, t.last = image.Point{}, image.Point{}
}

func (t *rectSelectTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	return decode(op, RectSelect, &struct{}{})
}

// freeSelectTool is a lasso: every distinct sample becomes a polygon vertex
// and the polygon is closed on release.
type freeSelectTool struct {
	path selection.Path
}

func (t *freeSelectTool) ID() tool.ID                     { return FreeSelect }
func (t *freeSelectTool) Capabilities() tool.Capabilities { return selectCaps }

func (t *freeSelectTool) Begin(ctx *tool.Context, in tool.Input) error {
	t.path = selection.Path{in.Point()}
	return nil
}

func (t *freeSelectTool) Sample(ctx *tool.Context, in tool.Input) error {
	if p := in.Point(); p != t.path[len(t.path)-1] {
		t.path = append(t.path, p)
	}
	return nil
}

func (t *freeSelectTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if !t.path.Valid() {
		ctx.Selection.Deactivate()
		return nil, nil
	}
	activate(ctx, t.path)
	return nil, nil
}

func (t *freeSelectTool) Reset(ctx *tool.Context) {
	t.path = nil
}

func (t *freeSelectTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	return decode(op, FreeSelect, &struct{}{})
}
