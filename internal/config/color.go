package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is
// optional. Alpha defaults to opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	alpha := uint8(0xff)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatColor renders c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatColor(c color.NRGBA) string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.A != 0xff {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}
