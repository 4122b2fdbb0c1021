package tools

import (
	"image"
	"image/color"
	"testing"

	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

func surfaceMode(t *testing.T, name string) surface.Mode {
	t.Helper()
	m, err := surface.ParseMode(name)
	if err != nil {
		t.Fatalf("ParseMode(%q) failed: %v", name, err)
	}
	return m
}

func TestPencilStroke(t *testing.T) {
	h := newTestHost(t, 10, 10)
	s := tool.DefaultSettings()
	s.LineWidth = 2

	outcome := h.drag(Pencil, s, 0, image.Pt(1, 4), image.Pt(4, 4), image.Pt(8, 4))
	if outcome != tool.OutcomeCommitted {
		t.Fatalf("outcome = %v, want committed", outcome)
	}
	if got := h.at(5, 4); got.R > 64 {
		t.Errorf("pixel on the stroke = %v, want dark", got)
	}
	if got := h.at(5, 8); got != white {
		t.Errorf("pixel off the stroke = %v, want white", got)
	}
	h.checkReplay()
}

func TestPencilClickIsElided(t *testing.T) {
	h := newTestHost(t, 10, 10)
	if got := h.drag(Pencil, tool.DefaultSettings(), 0, image.Pt(3, 3), image.Pt(3, 3)); got != tool.OutcomeElided {
		t.Errorf("outcome = %v, want elided", got)
	}
	if len(h.ops) != 0 {
		t.Error("zero-length stroke was committed")
	}
}

func TestEraser(t *testing.T) {
	h := newTestHost(t, 10, 10)
	s := tool.DefaultSettings()
	s.LineWidth = 2
	s.Operator = surface.ModeMultiply // ignored by the eraser

	h.drag(Eraser, s, 0, image.Pt(1, 4), image.Pt(8, 4))
	if got := h.at(5, 4); got.A > 64 {
		t.Errorf("erased pixel = %v, want transparent", got)
	}
	if got := h.at(5, 8); got != white {
		t.Errorf("pixel off the stroke = %v, want white", got)
	}
	h.checkReplay()
}

func TestLine(t *testing.T) {
	h := newTestHost(t, 10, 10)
	s := settingsWith(red)
	s.LineWidth = 2

	// Intermediate samples do not bend the line.
	h.drag(Line, s, 0, image.Pt(1, 1), image.Pt(1, 8), image.Pt(8, 1))
	if got := h.at(1, 5); got != white {
		t.Errorf("pixel on an intermediate sample = %v, want white", got)
	}
	if got := h.at(5, 1); got.G > 64 || got.R < 192 {
		t.Errorf("pixel on the line = %v, want red", got)
	}
	h.checkReplay()
}

func TestLineZeroLengthIsElided(t *testing.T) {
	h := newTestHost(t, 10, 10)
	if got := h.drag(Line, tool.DefaultSettings(), 0, image.Pt(2, 2), image.Pt(6, 6), image.Pt(2, 2)); got != tool.OutcomeElided {
		t.Errorf("outcome = %v, want elided", got)
	}
}

func TestSnap45(t *testing.T) {
	tests := []struct {
		end  [2]float64
		want [2]float64
	}{
		{[2]float64{10, 1}, [2]float64{10, 0}},
		{[2]float64{7, 6}, [2]float64{7, 7}},
		{[2]float64{0, -5}, [2]float64{0, -5}},
	}
	for _, tt := range tests {
		got := snap45([2]float64{0, 0}, tt.end)
		if got != tt.want {
			t.Errorf("snap45(%v) = %v, want %v", tt.end, got, tt.want)
		}
	}
}

func TestRectangle(t *testing.T) {
	tests := []struct {
		name   string
		fill   bool
		mods   tool.Modifier
		center color.RGBA
	}{
		{name: "outline", center: white},
		{name: "filled setting", fill: true, center: color.RGBA{255, 0, 0, 255}},
		{name: "shift fills", mods: tool.ModShift, center: color.RGBA{255, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(t, 12, 12)
			s := settingsWith(red)
			s.FillShapes = tt.fill

			h.drag(Rectangle, s, tt.mods, image.Pt(1, 1), image.Pt(8, 8))
			if got := h.at(4, 4); got != tt.center {
				t.Errorf("center = %v, want %v", got, tt.center)
			}
			if got := h.at(1, 4); got.R < 192 || got.G > 64 {
				t.Errorf("edge = %v, want red", got)
			}
			if got := h.at(11, 11); got != white {
				t.Errorf("outside = %v, want white", got)
			}
			h.checkReplay()
		})
	}
}

func TestRectangleDegenerateIsElided(t *testing.T) {
	h := newTestHost(t, 10, 10)
	if got := h.drag(Rectangle, tool.DefaultSettings(), 0, image.Pt(1, 3), image.Pt(8, 3)); got != tool.OutcomeElided {
		t.Errorf("outcome = %v, want elided", got)
	}
}
