package tool

import (
	"image/color"

	"github.com/dshills/pigment/internal/engine/surface"
)

// Interpolation names understood by transform tools.
const (
	InterpolationNearest    = "nearest"
	InterpolationApprox     = "approx"
	InterpolationBilinear   = "bilinear"
	InterpolationCatmullRom = "catmullrom"
)

// Settings is the snapshot of user-facing tool parameters taken when an
// edit starts. It is a value type; tools never observe later changes.
type Settings struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
	Operator  surface.Mode

	// LineWidth is the stroke width in pixels for drawing tools.
	LineWidth float64

	// FillShapes makes shape tools fill instead of outline.
	FillShapes bool

	// Tolerance is the per-channel difference the fill tool still treats
	// as the same color (0-255).
	Tolerance int

	// Interpolation selects the resampling kernel for transform tools.
	Interpolation string
}

// DefaultSettings returns black on white, normal compositing, 1px lines.
func DefaultSettings() Settings {
	return Settings{
		Primary:       color.NRGBA{A: 0xff},
		Secondary:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Operator:      surface.ModeNormal,
		LineWidth:     1,
		Interpolation: InterpolationBilinear,
	}
}

// ColorFor returns the color a button paints with: the secondary button
// uses the secondary color, everything else the primary.
func (s Settings) ColorFor(b Button) color.NRGBA {
	if b == ButtonSecondary {
		return s.Secondary
	}
	return s.Primary
}
