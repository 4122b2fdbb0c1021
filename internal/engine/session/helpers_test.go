package session

import (
	"image"
	"image/color"
	"testing"

	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/tools"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func mustNew(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	s, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func in(x, y int) tool.Input {
	return tool.At(float64(x)+0.5, float64(y)+0.5)
}

func withColor(s *Session, c color.NRGBA) {
	st := s.Settings()
	st.Primary = c
	s.SetSettings(st)
}

// drag switches to id and runs press, moves and release through pts.
func drag(t *testing.T, s *Session, id tool.ID, pts ...image.Point) tool.Outcome {
	t.Helper()
	if err := s.SwitchTool(id); err != nil {
		t.Fatalf("SwitchTool(%s) failed: %v", id, err)
	}
	if err := s.Press(in(pts[0].X, pts[0].Y)); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	for _, p := range pts[1 : len(pts)-1] {
		if err := s.Move(in(p.X, p.Y)); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
	}
	last := pts[len(pts)-1]
	outcome, err := s.Release(in(last.X, last.Y))
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	return outcome
}

func fill(t *testing.T, s *Session, c color.NRGBA, x, y int) {
	t.Helper()
	withColor(s, c)
	if got := drag(t, s, tools.Fill, image.Pt(x, y), image.Pt(x, y)); got != tool.OutcomeCommitted {
		t.Fatalf("fill outcome = %v, want committed", got)
	}
}

func uniform(img *image.RGBA, c color.RGBA) bool {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			if img.RGBAAt(x, y) != c {
				return false
			}
		}
	}
	return true
}
