package selection

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Path is the closed outline of a selection in surface coordinates.
// A rectangle is a four-point path; anything else is treated as a polygon
// filled with the even-odd rule.
type Path []image.Point

// RectPath returns the path outlining r.
func RectPath(r image.Rectangle) Path {
	r = r.Canon()
	return Path{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Bounds returns the smallest rectangle containing every vertex.
func (p Path) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0]}
	for _, pt := range p[1:] {
		r.Min.X = min(r.Min.X, pt.X)
		r.Min.Y = min(r.Min.Y, pt.Y)
		r.Max.X = max(r.Max.X, pt.X)
		r.Max.Y = max(r.Max.Y, pt.Y)
	}
	return r
}

// IsRect reports whether the path is an axis-aligned rectangle.
func (p Path) IsRect() bool {
	if len(p) != 4 {
		return false
	}
	b := p.Bounds()
	for i, pt := range p {
		if (pt.X != b.Min.X && pt.X != b.Max.X) || (pt.Y != b.Min.Y && pt.Y != b.Max.Y) {
			return false
		}
		next := p[(i+1)%len(p)]
		if pt.X != next.X && pt.Y != next.Y {
			return false
		}
	}
	return true
}

// Valid reports whether the path encloses a non-empty area.
func (p Path) Valid() bool {
	return len(p) >= 3 && !p.Bounds().Empty()
}

// Translate returns a copy of the path moved by (dx, dy).
func (p Path) Translate(dx, dy int) Path {
	out := make(Path, len(p))
	d := image.Pt(dx, dy)
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	return append(Path(nil), p...)
}

// Mask rasterizes the path into an alpha mask covering clip ∩ Bounds().
func (p Path) Mask(clip image.Rectangle) *image.Alpha {
	b := p.Bounds().Intersect(clip)
	mask := image.NewAlpha(b)
	if b.Empty() {
		return mask
	}
	if p.IsRect() {
		for i := range mask.Pix {
			mask.Pix[i] = 0xff
		}
		return mask
	}

	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetColor(color.White)
	for i, pt := range p {
		x, y := float64(pt.X-b.Min.X), float64(pt.Y-b.Min.Y)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	if err := dc.Fill(); err != nil {
		return mask
	}

	layer := dc.Image()
	lb := layer.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := layer.At(lb.Min.X+x, lb.Min.Y+y).RGBA()
			mask.SetAlpha(b.Min.X+x, b.Min.Y+y, color.Alpha{A: uint8(a >> 8)})
		}
	}
	return mask
}

// Lift copies the pixels of src under p into a detached image. The copy's
// bounds are p.Bounds() ∩ src.Bounds(); pixels outside the outline are
// transparent and edge pixels are scaled by the mask coverage.
func Lift(src *image.RGBA, p Path) (*image.RGBA, *image.Alpha) {
	mask := p.Mask(src.Bounds())
	b := mask.Rect
	content := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			si := src.PixOffset(x, y)
			di := content.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				content.Pix[di+c] = uint8((uint32(src.Pix[si+c])*m + 127) / 255)
			}
		}
	}
	return content, mask
}
