package tools

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

var interpolators = map[string]xdraw.Interpolator{
	tool.InterpolationNearest:    xdraw.NearestNeighbor,
	tool.InterpolationApprox:     xdraw.ApproxBiLinear,
	tool.InterpolationBilinear:   xdraw.BiLinear,
	tool.InterpolationCatmullRom: xdraw.CatmullRom,
}

// Interpolations returns the interpolation names the scale tool accepts.
func Interpolations() []string {
	return []string{
		tool.InterpolationNearest,
		tool.InterpolationApprox,
		tool.InterpolationBilinear,
		tool.InterpolationCatmullRom,
	}
}

type scaleParams struct {
	Path          [][2]int `yaml:"path,flow,omitempty"` // empty: the whole image
	From          [4]int   `yaml:"from,flow"`
	To            [4]int   `yaml:"to,flow"`
	Interpolation string   `yaml:"interpolation"`
}

func (p scaleParams) apply(dst *image.RGBA) error {
	kernel, ok := interpolators[p.Interpolation]
	if !ok {
		return fmt.Errorf("%w: interpolation %q", ErrInvalidParams, p.Interpolation)
	}
	from, to := toRect(p.From), toRect(p.To)
	if from.Empty() || to.Empty() {
		return fmt.Errorf("%w: scale %v to %v", ErrInvalidParams, from, to)
	}

	if len(p.Path) == 0 {
		if !from.In(dst.Rect) {
			return fmt.Errorf("%w: source %v outside %v", ErrInvalidParams, from, dst.Rect)
		}
		src := surface.Clone(dst)
		clear(dst.Pix)
		kernel.Scale(dst, to, src, from, xdraw.Src, nil)
		return nil
	}

	path := moveParams{Path: p.Path}.path()
	if !path.Valid() {
		return fmt.Errorf("%w: selection path with %d points", ErrInvalidParams, len(path))
	}
	pixels, mask := selection.Lift(dst, path)
	if mask.Rect != from {
		return fmt.Errorf("%w: source %v does not match selection %v", ErrInvalidParams, from, mask.Rect)
	}
	scaled := image.NewRGBA(to)
	kernel.Scale(scaled, to, pixels, from, xdraw.Src, nil)
	surface.Blend(dst, mask.Rect, opaque, image.Point{}, mask, mask.Rect.Min, surface.ModeErase)
	surface.Blend(dst, to, scaled, to.Min, nil, image.Point{}, surface.ModeNormal)
	return nil
}

// mapPoint maps pt from the from rectangle onto the to rectangle.
func mapPoint(pt image.Point, from, to image.Rectangle) image.Point {
	fx := float64(pt.X-from.Min.X) * float64(to.Dx()) / float64(from.Dx())
	fy := float64(pt.Y-from.Min.Y) * float64(to.Dy()) / float64(from.Dy())
	return image.Pt(to.Min.X+int(math.Round(fx)), to.Min.Y+int(math.Round(fy)))
}

// scaleTool resizes the active selection, or the whole image when nothing
// is selected, by dragging its bottom-right corner. Shift keeps the aspect
// ratio.
type scaleTool struct {
	anchor image.Point
	path   selection.Path
	params scaleParams
}

func (t *scaleTool) ID() tool.ID                     { return Scale }
func (t *scaleTool) Capabilities() tool.Capabilities { return selectCaps }

func (t *scaleTool) Begin(ctx *tool.Context, in tool.Input) error {
	interp := ctx.Settings.Interpolation
	if _, ok := interpolators[interp]; !ok {
		interp = tool.InterpolationBilinear
	}
	from := ctx.Surface.Bounds()
	t.path = nil
	if ctx.Selection.IsActive() {
		t.path, _ = ctx.Selection.Path()
		from, _ = ctx.Selection.Bounds()
	}
	t.anchor = in.Point()
	t.params = scaleParams{
		Path:          pointsOf(t.path),
		From:          rectOf(from),
		To:            rectOf(from),
		Interpolation: interp,
	}
	return nil
}

func (t *scaleTool) Sample(ctx *tool.Context, in tool.Input) error {
	from := toRect(t.params.From)
	d := in.Point().Sub(t.anchor)
	w, h := max(from.Dx()+d.X, 1), max(from.Dy()+d.Y, 1)
	if in.Modifiers.Has(tool.ModShift) {
		k := float64(w) / float64(from.Dx())
		h = max(int(math.Round(float64(from.Dy())*k)), 1)
	}
	t.params.To = rectOf(image.Rectangle{Min: from.Min, Max: from.Min.Add(image.Pt(w, h))})

	ctx.Surface.ResetPreview()
	if t.params.To == t.params.From {
		return nil
	}
	return t.params.apply(ctx.Surface.PreviewRGBA())
}

func (t *scaleTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if t.params.To == t.params.From {
		return nil, nil
	}
	to := toRect(t.params.To)
	return operation.New(string(Scale), ctx.Surface.Size(), t.params,
		operation.WithDescription(fmt.Sprintf("Scale to %dx%d", to.Dx(), to.Dy())))
}

// AfterCommit re-anchors the selection on the scaled pixels.
func (t *scaleTool) AfterCommit(ctx *tool.Context, op *operation.Operation) {
	if len(t.path) > 0 {
		from, to := toRect(t.params.From), toRect(t.params.To)
		scaled := make(selection.Path, len(t.path))
		for i, pt := range t.path {
			scaled[i] = mapPoint(pt, from, to)
		}
		activate(ctx, scaled)
	}
	t.path = nil
}

func (t *scaleTool) Reset(ctx *tool.Context) {
	t.path = nil
	t.params = scaleParams{}
}

func (t *scaleTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p scaleParams
	if err := decode(op, Scale, &p); err != nil {
		return err
	}
	return p.apply(dst)
}
