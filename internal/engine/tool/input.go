package tool

import (
	"image"
	"math"
	"strings"
	"time"
)

// Button identifies the pointer button that drives an edit.
type Button uint8

const (
	// ButtonNone indicates no button, e.g. a synthetic event.
	ButtonNone Button = iota
	// ButtonPrimary is the primary (left) button.
	ButtonPrimary
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonSecondary is the secondary (right) button.
	ButtonSecondary
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Modifier represents keyboard modifier keys held during input.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns a "+" joined list such as "shift+ctrl".
func (m Modifier) String() string {
	if m == ModNone {
		return "none"
	}
	var parts []string
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	return strings.Join(parts, "+")
}

// Input is one pointer sample in surface coordinates.
type Input struct {
	X, Y      float64
	Button    Button
	Modifiers Modifier
	Time      time.Time
}

// At returns a primary-button input at (x, y).
func At(x, y float64) Input {
	return Input{X: x, Y: y, Button: ButtonPrimary}
}

// Point returns the pixel containing the input position.
func (in Input) Point() image.Point {
	return image.Pt(int(math.Floor(in.X)), int(math.Floor(in.Y)))
}
