package tools

import (
	"fmt"
	"image"
	"image/color"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

var opaque = image.NewUniform(color.Opaque)

type moveParams struct {
	Path   [][2]int `yaml:"path,flow"`
	Offset [2]int   `yaml:"offset,flow"`
}

func (p moveParams) path() selection.Path {
	out := make(selection.Path, len(p.Path))
	for i, pt := range p.Path {
		out[i] = image.Pt(pt[0], pt[1])
	}
	return out
}

// apply lifts the pixels under the path, clears them and pastes them at
// the offset.
func (p moveParams) apply(dst *image.RGBA) error {
	path := p.path()
	if !path.Valid() {
		return fmt.Errorf("%w: selection path with %d points", ErrInvalidParams, len(path))
	}
	pixels, mask := selection.Lift(dst, path)
	placeMoved(dst, pixels, mask, image.Pt(p.Offset[0], p.Offset[1]))
	return nil
}

func placeMoved(dst, pixels *image.RGBA, mask *image.Alpha, offset image.Point) {
	surface.Blend(dst, mask.Rect, opaque, image.Point{}, mask, mask.Rect.Min, surface.ModeErase)
	surface.Blend(dst, pixels.Rect.Add(offset), pixels, pixels.Rect.Min, nil, image.Point{}, surface.ModeNormal)
}

// moveSelectionTool drags the content of the active selection. The preview
// composites the selection's detached pixels; the committed operation
// records the outline and the final offset.
type moveSelectionTool struct {
	anchor image.Point
	delta  image.Point
	path   selection.Path
}

func (t *moveSelectionTool) ID() tool.ID                     { return MoveSelection }
func (t *moveSelectionTool) Capabilities() tool.Capabilities { return selectCaps }

func (t *moveSelectionTool) Begin(ctx *tool.Context, in tool.Input) error {
	path, err := ctx.Selection.Path()
	if err != nil {
		return ErrNoSelection
	}
	t.path = path
	t.anchor = in.Point()
	t.delta = image.Point{}
	return nil
}

func (t *moveSelectionTool) Sample(ctx *tool.Context, in tool.Input) error {
	d := in.Point().Sub(t.anchor)
	step := d.Sub(t.delta)
	ctx.Selection.Translate(step.X, step.Y)
	t.delta = d

	pixels, err := ctx.Selection.Pixels()
	if err != nil {
		return ErrNoSelection
	}
	mask, err := ctx.Selection.Mask()
	if err != nil {
		return ErrNoSelection
	}
	ctx.Surface.ResetPreview()
	placeMoved(ctx.Surface.PreviewRGBA(), pixels, mask, ctx.Selection.Offset())
	return nil
}

func (t *moveSelectionTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	off := ctx.Selection.Offset()
	if off == (image.Point{}) {
		return nil, nil
	}
	params := moveParams{Path: pointsOf(t.path), Offset: [2]int{off.X, off.Y}}
	return operation.New(string(MoveSelection), ctx.Surface.Size(), params,
		operation.WithDescription(fmt.Sprintf("Move selection by %d,%d", off.X, off.Y)))
}

// AfterCommit re-anchors the selection on the moved pixels.
func (t *moveSelectionTool) AfterCommit(ctx *tool.Context, op *operation.Operation) {
	off := ctx.Selection.Offset()
	activate(ctx, t.path.Translate(off.X, off.Y))
	t.path, t.delta = nil, image.Point{}
}

func (t *moveSelectionTool) Reset(ctx *tool.Context) {
	if ctx != nil && ctx.Selection.IsActive() {
		ctx.Selection.Translate(-t.delta.X, -t.delta.Y)
	}
	t.path, t.delta = nil, image.Point{}
}

func (t *moveSelectionTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p moveParams
	if err := decode(op, MoveSelection, &p); err != nil {
		return err
	}
	return p.apply(dst)
}
