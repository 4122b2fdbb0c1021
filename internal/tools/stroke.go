package tools

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

type strokeParams struct {
	paint  `yaml:",inline"`
	Width  float64      `yaml:"width"`
	Points [][2]float64 `yaml:"points,flow"`
}

func (p strokeParams) apply(dst *image.RGBA) error {
	mode, err := p.mode()
	if err != nil {
		return err
	}
	if len(p.Points) == 0 {
		return fmt.Errorf("%w: stroke without points", ErrInvalidParams)
	}
	if p.Width <= 0 || math.IsNaN(p.Width) || math.IsInf(p.Width, 0) {
		return fmt.Errorf("%w: stroke width %v", ErrInvalidParams, p.Width)
	}
	for _, pt := range p.Points {
		if !finite(pt[0]) || !finite(pt[1]) {
			return fmt.Errorf("%w: stroke point %v", ErrInvalidParams, pt)
		}
	}

	mask, err := coverage(dst.Rect, padded(p.bounds(), p.Width), func(dc *gg.Context) error {
		if p.degenerate() {
			pt := p.Points[0]
			dc.DrawCircle(pt[0], pt[1], p.Width/2)
			return dc.Fill()
		}
		dc.SetLineWidth(p.Width)
		for i, pt := range p.Points {
			if i == 0 {
				dc.MoveTo(pt[0], pt[1])
			} else {
				dc.LineTo(pt[0], pt[1])
			}
		}
		return dc.Stroke()
	})
	if err != nil {
		return fmt.Errorf("rasterize stroke: %w", err)
	}
	paintMask(dst, mask, p.color(), mode)
	return nil
}

// bounds returns the integer rectangle enclosing every point.
func (p strokeParams) bounds() image.Rectangle {
	minX, minY := p.Points[0][0], p.Points[0][1]
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		minX, maxX = min(minX, pt[0]), max(maxX, pt[0])
		minY, maxY = min(minY, pt[1]), max(maxY, pt[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// degenerate reports whether every point is the same, i.e. a zero-length
// stroke.
func (p strokeParams) degenerate() bool {
	for _, pt := range p.Points[1:] {
		if pt != p.Points[0] {
			return false
		}
	}
	return true
}

// freehandTool draws a polyline through every sample. The eraser is the
// same tool with a fixed erase mode.
type freehandTool struct {
	id     tool.ID
	erase  bool
	params strokeParams
}

func newPencil() *freehandTool { return &freehandTool{id: Pencil} }
func newEraser() *freehandTool { return &freehandTool{id: Eraser, erase: true} }

func (t *freehandTool) ID() tool.ID { return t.id }

func (t *freehandTool) Capabilities() tool.Capabilities {
	if t.erase {
		return tool.Capabilities{}
	}
	return tool.Capabilities{UsesColor: true, UsesOperator: true}
}

func (t *freehandTool) Begin(ctx *tool.Context, in tool.Input) error {
	p := paintFor(ctx.Settings, in, t.erase)
	t.params = strokeParams{paint: p, Width: lineWidth(ctx.Settings)}
	return t.Sample(ctx, in)
}

func (t *freehandTool) Sample(ctx *tool.Context, in tool.Input) error {
	pt := [2]float64{in.X, in.Y}
	if n := len(t.params.Points); n > 0 && t.params.Points[n-1] == pt {
		return nil
	}
	t.params.Points = append(t.params.Points, pt)
	ctx.Surface.ResetPreview()
	return t.params.apply(ctx.Surface.PreviewRGBA())
}

func (t *freehandTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if t.params.degenerate() {
		return nil, nil
	}
	return operation.New(string(t.id), ctx.Surface.Size(), t.params,
		operation.WithDescription(fmt.Sprintf("%s stroke (%d points)", t.id, len(t.params.Points))))
}

func (t *freehandTool) Reset(ctx *tool.Context) {
	t.params = strokeParams{}
}

func (t *freehandTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p strokeParams
	if err := decode(op, t.id, &p); err != nil {
		return err
	}
	return p.apply(dst)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// lineTool draws a straight segment from the press point to the last
// sample. Shift snaps the angle to multiples of 45 degrees.
type lineTool struct {
	params strokeParams
}

func (t *lineTool) ID() tool.ID { return Line }

func (t *lineTool) Capabilities() tool.Capabilities {
	return tool.Capabilities{UsesColor: true, UsesOperator: true}
}

func (t *lineTool) Begin(ctx *tool.Context, in tool.Input) error {
	t.params = strokeParams{
		paint:  paintFor(ctx.Settings, in, false),
		Width:  lineWidth(ctx.Settings),
		Points: [][2]float64{{in.X, in.Y}},
	}
	return t.Sample(ctx, in)
}

func (t *lineTool) Sample(ctx *tool.Context, in tool.Input) error {
	start := t.params.Points[0]
	end := [2]float64{in.X, in.Y}
	if in.Modifiers.Has(tool.ModShift) {
		end = snap45(start, end)
	}
	t.params.Points = [][2]float64{start, end}
	ctx.Surface.ResetPreview()
	return t.params.apply(ctx.Surface.PreviewRGBA())
}

func (t *lineTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if t.params.degenerate() {
		return nil, nil
	}
	return operation.New(string(Line), ctx.Surface.Size(), t.params)
}

func (t *lineTool) Reset(ctx *tool.Context) {
	t.params = strokeParams{}
}

func (t *lineTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p strokeParams
	if err := decode(op, Line, &p); err != nil {
		return err
	}
	return p.apply(dst)
}

// snap45 projects end onto the nearest 45 degree ray from start.
func snap45(start, end [2]float64) [2]float64 {
	dx, dy := end[0]-start[0], end[1]-start[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return end
	}
	angle := math.Round(math.Atan2(dy, dx)/(math.Pi/4)) * (math.Pi / 4)
	return [2]float64{
		start[0] + math.Round(length*math.Cos(angle)),
		start[1] + math.Round(length*math.Sin(angle)),
	}
}

func paintFor(s tool.Settings, in tool.Input, erase bool) paint {
	if erase {
		return newPaint(color.NRGBA{A: 0xff}, surface.ModeErase)
	}
	return newPaint(s.ColorFor(in.Button), s.Operator)
}

func lineWidth(s tool.Settings) float64 {
	if s.LineWidth <= 0 {
		return 1
	}
	return s.LineWidth
}
