package tools

import (
	"image"
	"image/color"
	"testing"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/selection"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.NRGBA{R: 255, A: 255}
)

// testHost records commits and keeps the stable buffer before each commit
// so tests can check replay against it.
type testHost struct {
	t         *testing.T
	surf      *surface.Surface
	sel       *selection.Selection
	operating *tool.Machine
	ops       []*operation.Operation
	before    []*image.RGBA
}

func newTestHost(t *testing.T, w, h int) *testHost {
	t.Helper()
	s, err := surface.New(w, h, white)
	if err != nil {
		t.Fatalf("surface.New failed: %v", err)
	}
	return &testHost{t: t, surf: s, sel: selection.New()}
}

func (h *testHost) Surface() *surface.Surface       { return h.surf }
func (h *testHost) Selection() *selection.Selection { return h.sel }

func (h *testHost) Acquire(m *tool.Machine) error {
	h.operating = m
	return nil
}

func (h *testHost) Release(m *tool.Machine) { h.operating = nil }

func (h *testHost) Commit(op *operation.Operation, caps tool.Capabilities) error {
	h.before = append(h.before, h.surf.Stable())
	h.ops = append(h.ops, op)
	h.surf.CommitPreview()
	if !caps.AcceptsSelection {
		h.sel.Deactivate()
	}
	return nil
}

func (h *testHost) Notify(m *tool.Machine, s tool.State) {}

func (h *testHost) machine(id tool.ID) *tool.Machine {
	h.t.Helper()
	b, err := NewRegistry().New(id)
	if err != nil {
		h.t.Fatalf("New(%s) failed: %v", id, err)
	}
	return tool.NewMachine(b, h)
}

// drag runs start, one sample per intermediate point and finish.
func (h *testHost) drag(id tool.ID, settings tool.Settings, mods tool.Modifier, pts ...image.Point) tool.Outcome {
	h.t.Helper()
	m := h.machine(id)
	in := func(p image.Point) tool.Input {
		i := tool.At(float64(p.X)+0.5, float64(p.Y)+0.5)
		i.Modifiers = mods
		return i
	}
	if err := m.Start(in(pts[0]), settings); err != nil {
		h.t.Fatalf("Start(%s) failed: %v", id, err)
	}
	for _, p := range pts[1 : len(pts)-1] {
		if err := m.Sample(in(p)); err != nil {
			h.t.Fatalf("Sample(%s) failed: %v", id, err)
		}
	}
	outcome, err := m.Finish(in(pts[len(pts)-1]))
	if err != nil {
		h.t.Fatalf("Finish(%s) failed: %v", id, err)
	}
	return outcome
}

// checkReplay verifies that replaying the last operation on the stable
// state before it reproduces the current stable buffer.
func (h *testHost) checkReplay() {
	h.t.Helper()
	if len(h.ops) == 0 {
		h.t.Fatal("no operation committed")
	}
	dst := surface.Clone(h.before[len(h.before)-1])
	if err := NewRegistry().Replay(dst, h.ops[len(h.ops)-1]); err != nil {
		h.t.Fatalf("Replay failed: %v", err)
	}
	if !surface.Equal(dst, h.surf.StableRGBA()) {
		h.t.Error("replay does not reproduce the committed pixels")
	}
}

func (h *testHost) at(x, y int) color.RGBA {
	return h.surf.StableRGBA().RGBAAt(x, y)
}

func settingsWith(c color.NRGBA) tool.Settings {
	s := tool.DefaultSettings()
	s.Primary = c
	return s
}
