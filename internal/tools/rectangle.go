package tools

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/tool"
)

type rectParams struct {
	paint  `yaml:",inline"`
	Width  float64 `yaml:"width"`
	Rect   [4]int  `yaml:"rect,flow"`
	Filled bool    `yaml:"filled"`
}

func (p rectParams) apply(dst *image.RGBA) error {
	mode, err := p.mode()
	if err != nil {
		return err
	}
	r := toRect(p.Rect)
	if r.Empty() {
		return fmt.Errorf("%w: empty rectangle %v", ErrInvalidParams, r)
	}
	if !p.Filled && p.Width <= 0 {
		return fmt.Errorf("%w: outline width %v", ErrInvalidParams, p.Width)
	}

	mask, err := coverage(dst.Rect, padded(r, p.Width), func(dc *gg.Context) error {
		if p.Filled {
			dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
			return dc.Fill()
		}
		// Outline pixels are centered on the rectangle's edge pixels.
		dc.SetLineWidth(p.Width)
		dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1))
		return dc.Stroke()
	})
	if err != nil {
		return fmt.Errorf("rasterize rectangle: %w", err)
	}
	paintMask(dst, mask, p.color(), mode)
	return nil
}

// rectangleTool draws an axis-aligned rectangle between the press point and
// the last sample, both corners included. Shift or the FillShapes setting
// fills it.
type rectangleTool struct {
	anchor image.Point
	params rectParams
}

func (t *rectangleTool) ID() tool.ID { return Rectangle }

func (t *rectangleTool) Capabilities() tool.Capabilities {
	return tool.Capabilities{UsesColor: true, UsesOperator: true}
}

func (t *rectangleTool) Begin(ctx *tool.Context, in tool.Input) error {
	t.anchor = in.Point()
	t.params = rectParams{
		paint:  paintFor(ctx.Settings, in, false),
		Width:  lineWidth(ctx.Settings),
		Filled: ctx.Settings.FillShapes,
	}
	return t.Sample(ctx, in)
}

func (t *rectangleTool) Sample(ctx *tool.Context, in tool.Input) error {
	t.params.Rect = rectOf(corners(t.anchor, in.Point()))
	t.params.Filled = ctx.Settings.FillShapes || in.Modifiers.Has(tool.ModShift)
	ctx.Surface.ResetPreview()
	if t.degenerate() {
		return nil
	}
	return t.params.apply(ctx.Surface.PreviewRGBA())
}

// degenerate reports a rectangle of zero width or height, i.e. a press and
// release on the same row or column.
func (t *rectangleTool) degenerate() bool {
	r := toRect(t.params.Rect)
	return r.Dx() < 2 || r.Dy() < 2
}

func (t *rectangleTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if t.degenerate() {
		return nil, nil
	}
	return operation.New(string(Rectangle), ctx.Surface.Size(), t.params)
}

func (t *rectangleTool) Reset(ctx *tool.Context) {
	t.params = rectParams{}
}

func (t *rectangleTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p rectParams
	if err := decode(op, Rectangle, &p); err != nil {
		return err
	}
	return p.apply(dst)
}

// corners returns the rectangle spanning a and b with both pixels included.
func corners(a, b image.Point) image.Rectangle {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}
