package surface

import (
	"fmt"
	"strings"
)

// Mode selects how source pixels are combined with the destination.
type Mode uint8

const (
	// ModeNormal draws the source over the destination (source-over).
	ModeNormal Mode = iota
	// ModeSource replaces the destination with the source.
	ModeSource
	// ModeErase removes destination coverage where the source is opaque.
	ModeErase
	// ModeLighten keeps the lighter of source and destination per channel.
	ModeLighten
	// ModeDarken keeps the darker of source and destination per channel.
	ModeDarken
	// ModeMultiply multiplies source and destination channels.
	ModeMultiply
)

var modeNames = [...]string{
	ModeNormal:   "normal",
	ModeSource:   "source",
	ModeErase:    "erase",
	ModeLighten:  "lighten",
	ModeDarken:   "darken",
	ModeMultiply: "multiply",
}

// String returns the mode name used in configuration and payloads.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeSource, ModeErase, ModeLighten, ModeDarken, ModeMultiply}
}

// ParseMode parses a mode name. Matching is case-insensitive; "over" is
// accepted as an alias for normal and "clear" for erase.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "over":
		return ModeNormal, nil
	case "source", "src", "replace":
		return ModeSource, nil
	case "erase", "clear":
		return ModeErase, nil
	case "lighten":
		return ModeLighten, nil
	case "darken":
		return ModeDarken, nil
	case "multiply":
		return ModeMultiply, nil
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
