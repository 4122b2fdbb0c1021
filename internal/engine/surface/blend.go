package surface

import (
	"image"
	"image/color"
	"math"
)

// premul is a premultiplied RGBA pixel with channels in [0, 1].
type premul struct {
	r, g, b, a float64
}

func fromColor(c color.Color) premul {
	r, g, b, a := c.RGBA()
	return premul{
		r: float64(r) / 0xffff,
		g: float64(g) / 0xffff,
		b: float64(b) / 0xffff,
		a: float64(a) / 0xffff,
	}
}

func (p premul) scale(k float64) premul {
	return premul{p.r * k, p.g * k, p.b * k, p.a * k}
}

// Blend composites src into dst over rectangle r using mode.
//
// As with image/draw, sp and mp are the points of src and mask aligned with
// r.Min. A nil mask means full coverage. Any part of r outside dst is
// clipped; an empty intersection is a no-op.
func Blend(dst *image.RGBA, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, mode Mode) {
	clipped := r.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}
	delta := clipped.Min.Sub(r.Min)
	sp = sp.Add(delta)
	mp = mp.Add(delta)

	var (
		uniform   premul
		isUniform bool
	)
	if u, ok := src.(*image.Uniform); ok {
		uniform = fromColor(u.C)
		isUniform = true
	}

	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		dy := y - clipped.Min.Y
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			dx := x - clipped.Min.X

			coverage := 1.0
			if mask != nil {
				_, _, _, ma := mask.At(mp.X+dx, mp.Y+dy).RGBA()
				if ma == 0 {
					continue
				}
				coverage = float64(ma) / 0xffff
			}

			s := uniform
			if !isUniform {
				s = fromColor(src.At(sp.X+dx, sp.Y+dy))
			}

			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			d := premul{
				r: float64(px[0]) / 255,
				g: float64(px[1]) / 255,
				b: float64(px[2]) / 255,
				a: float64(px[3]) / 255,
			}

			out := blendPixel(s, d, coverage, mode)
			a := toByte(out.a)
			px[0] = min(toByte(out.r), a)
			px[1] = min(toByte(out.g), a)
			px[2] = min(toByte(out.b), a)
			px[3] = a
		}
	}
}

func blendPixel(s, d premul, coverage float64, mode Mode) premul {
	switch mode {
	case ModeSource:
		k := 1 - coverage
		return premul{
			r: s.r*coverage + d.r*k,
			g: s.g*coverage + d.g*k,
			b: s.b*coverage + d.b*k,
			a: s.a*coverage + d.a*k,
		}
	case ModeErase:
		return d.scale(1 - s.a*coverage)
	}

	s = s.scale(coverage)
	switch mode {
	case ModeLighten:
		return separable(s, d, math.Max)
	case ModeDarken:
		return separable(s, d, math.Min)
	case ModeMultiply:
		ch := func(sc, dc float64) float64 {
			return sc*dc + sc*(1-d.a) + dc*(1-s.a)
		}
		return premul{ch(s.r, d.r), ch(s.g, d.g), ch(s.b, d.b), s.a + d.a - s.a*d.a}
	default:
		k := 1 - s.a
		return premul{s.r + d.r*k, s.g + d.g*k, s.b + d.b*k, s.a + d.a*k}
	}
}

// separable applies a separable blend function in premultiplied space.
func separable(s, d premul, pick func(float64, float64) float64) premul {
	ch := func(sc, dc float64) float64 {
		return pick(sc*d.a, dc*s.a) + sc*(1-d.a) + dc*(1-s.a)
	}
	return premul{ch(s.r, d.r), ch(s.g, d.g), ch(s.b, d.b), s.a + d.a - s.a*d.a}
}

func toByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}
