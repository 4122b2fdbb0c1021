package tools

import (
	"fmt"
	"image"
	"image/color"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/tool"
)

type fillParams struct {
	paint     `yaml:",inline"`
	Seed      [2]int `yaml:"seed,flow"`
	Tolerance int    `yaml:"tolerance"`
}

func (p fillParams) apply(dst *image.RGBA) error {
	mode, err := p.mode()
	if err != nil {
		return err
	}
	seed := image.Pt(p.Seed[0], p.Seed[1])
	if !seed.In(dst.Rect) {
		return fmt.Errorf("%w: seed %v outside %v", ErrInvalidParams, seed, dst.Rect)
	}
	if p.Tolerance < 0 || p.Tolerance > 255 {
		return fmt.Errorf("%w: tolerance %d", ErrInvalidParams, p.Tolerance)
	}
	paintMask(dst, floodMask(dst, seed, uint8(p.Tolerance)), p.color(), mode)
	return nil
}

// floodMask returns the 4-connected region around seed whose pixels differ
// from the seed pixel by at most tol in every channel.
func floodMask(img *image.RGBA, seed image.Point, tol uint8) *image.Alpha {
	b := img.Rect
	mask := image.NewAlpha(b)
	target := img.RGBAAt(seed.X, seed.Y)
	match := func(c color.RGBA) bool {
		return within(c.R, target.R, tol) && within(c.G, target.G, tol) &&
			within(c.B, target.B, tol) && within(c.A, target.A, tol)
	}

	stack := []image.Point{seed}
	mask.SetAlpha(seed.X, seed.Y, color.Alpha{A: 0xff})
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range [...]image.Point{{p.X - 1, p.Y}, {p.X + 1, p.Y}, {p.X, p.Y - 1}, {p.X, p.Y + 1}} {
			if !n.In(b) || mask.AlphaAt(n.X, n.Y).A != 0 || !match(img.RGBAAt(n.X, n.Y)) {
				continue
			}
			mask.SetAlpha(n.X, n.Y, color.Alpha{A: 0xff})
			stack = append(stack, n)
		}
	}
	return mask
}

func within(a, b, tol uint8) bool {
	if a > b {
		return a-b <= tol
	}
	return b-a <= tol
}

// fillTool is a paint bucket. The last sampled point is the seed, so the
// user can drag to pick the region before releasing.
type fillTool struct {
	params fillParams
	inside bool
}

func (t *fillTool) ID() tool.ID { return Fill }

func (t *fillTool) Capabilities() tool.Capabilities {
	return tool.Capabilities{UsesColor: true, UsesOperator: true}
}

func (t *fillTool) Begin(ctx *tool.Context, in tool.Input) error {
	t.params = fillParams{
		paint:     newPaint(ctx.Settings.ColorFor(in.Button), ctx.Settings.Operator),
		Tolerance: min(max(ctx.Settings.Tolerance, 0), 255),
	}
	return t.Sample(ctx, in)
}

func (t *fillTool) Sample(ctx *tool.Context, in tool.Input) error {
	p := in.Point()
	t.params.Seed = [2]int{p.X, p.Y}
	t.inside = p.In(ctx.Surface.Bounds())

	ctx.Surface.ResetPreview()
	if !t.inside {
		return nil
	}
	return t.params.apply(ctx.Surface.PreviewRGBA())
}

func (t *fillTool) Build(ctx *tool.Context, in tool.Input) (*operation.Operation, error) {
	if err := t.Sample(ctx, in); err != nil {
		return nil, err
	}
	if !t.inside {
		return nil, nil
	}
	return operation.New(string(Fill), ctx.Surface.Size(), t.params,
		operation.WithDescription(fmt.Sprintf("Fill at %d,%d", t.params.Seed[0], t.params.Seed[1])))
}

func (t *fillTool) Reset(ctx *tool.Context) {
	t.params = fillParams{}
	t.inside = false
}

func (t *fillTool) Replay(dst *image.RGBA, op *operation.Operation) error {
	var p fillParams
	if err := decode(op, Fill, &p); err != nil {
		return err
	}
	return p.apply(dst)
}
