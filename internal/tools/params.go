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

// paint is the color and compositing part shared by drawing payloads.
type paint struct {
	Color [4]uint8 `yaml:"color,flow"` // straight (non-premultiplied) RGBA
	Mode  string   `yaml:"mode"`
}

func newPaint(c color.NRGBA, mode surface.Mode) paint {
	return paint{Color: [4]uint8{c.R, c.G, c.B, c.A}, Mode: mode.String()}
}

func (p paint) color() color.NRGBA {
	return color.NRGBA{R: p.Color[0], G: p.Color[1], B: p.Color[2], A: p.Color[3]}
}

func (p paint) mode() (surface.Mode, error) {
	m, err := surface.ParseMode(p.Mode)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return m, nil
}

// decode checks that op belongs to id and unmarshals its payload.
func decode(op *operation.Operation, id tool.ID, v any) error {
	if op.ToolID() != string(id) {
		return fmt.Errorf("%w: %s given to %s", ErrToolMismatch, op, id)
	}
	return op.Decode(v)
}

// coverage rasterizes a shape drawn by fn into an alpha mask covering area
// clipped to bounds. fn draws in surface coordinates and calls Fill or
// Stroke; only area is allocated and rasterized.
func coverage(bounds, area image.Rectangle, fn func(dc *gg.Context) error) (*image.Alpha, error) {
	area = area.Intersect(bounds)
	mask := image.NewAlpha(area)
	if area.Empty() {
		return mask, nil
	}

	dc := gg.NewContext(area.Dx(), area.Dy())
	defer dc.Close()
	dc.Translate(-float64(area.Min.X), -float64(area.Min.Y))
	dc.SetColor(color.White)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	if err := fn(dc); err != nil {
		return nil, err
	}

	layer := dc.Image()
	if rgba, ok := layer.(*image.RGBA); ok {
		for y := 0; y < area.Dy(); y++ {
			src := rgba.Pix[y*rgba.Stride:]
			dst := mask.Pix[y*mask.Stride : y*mask.Stride+area.Dx()]
			for x := range dst {
				dst[x] = src[x*4+3]
			}
		}
		return mask, nil
	}
	lb := layer.Bounds()
	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {
			_, _, _, a := layer.At(lb.Min.X+x, lb.Min.Y+y).RGBA()
			mask.Pix[y*mask.Stride+x] = uint8(a >> 8)
		}
	}
	return mask, nil
}

// padded grows r by half of width plus a pixel for antialiasing.
func padded(r image.Rectangle, width float64) image.Rectangle {
	return r.Inset(-(int(math.Ceil(width/2)) + 1))
}

// paintMask composites a solid color through mask onto dst.
func paintMask(dst *image.RGBA, mask *image.Alpha, c color.Color, mode surface.Mode) {
	surface.Blend(dst, mask.Rect, image.NewUniform(c), image.Point{}, mask, mask.Rect.Min, mode)
}

func pointsOf(p []image.Point) [][2]int {
	out := make([][2]int, len(p))
	for i, pt := range p {
		out[i] = [2]int{pt.X, pt.Y}
	}
	return out
}

func rectOf(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

func toRect(r [4]int) image.Rectangle {
	return image.Rect(r[0], r[1], r[2], r[3])
}
