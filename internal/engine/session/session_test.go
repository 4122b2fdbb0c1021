package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/dshills/pigment/internal/engine"
	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/logging"
	"github.com/dshills/pigment/internal/metrics"
	"github.com/dshills/pigment/internal/tools"
)

func TestNewValidates(t *testing.T) {
	if _, err := New(0, 5); !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("New(0, 5) error = %v, want ErrInvalidSize", err)
	}
	if _, err := New(4, 4, WithInitialTool("airbrush")); !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("New with unknown tool error = %v, want ErrUnknownTool", err)
	}
}

func TestOpen(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 9, 8))
	img.SetRGBA(5, 5, color.RGBA{R: 255, A: 255})
	s, err := Open(img)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Size() != image.Pt(4, 3) {
		t.Errorf("Size = %v, want (4,3)", s.Size())
	}
	if got := s.StableImage().RGBAAt(0, 0); got.R != 255 {
		t.Errorf("pixel = %v, want the decoded red", got)
	}
	if s.CanUndo() || s.HistoryLen() != 0 {
		t.Error("an opened image has no history")
	}
}

func TestSwitchTool(t *testing.T) {
	s := mustNew(t, 8, 8)
	if err := s.SwitchTool("airbrush"); !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("SwitchTool(unknown) error = %v, want ErrUnknownTool", err)
	}

	_ = s.SwitchTool(tools.Pencil)
	_ = s.Press(in(1, 1))
	err := s.SwitchTool(tools.Fill)
	if !errors.Is(err, engine.ErrToolBusy) {
		t.Fatalf("SwitchTool while busy error = %v, want ErrToolBusy", err)
	}
	if s.ActiveTool().ID() != tools.Pencil {
		t.Error("failed switch changed the active tool")
	}
	if !s.ActiveTool().HasOngoingOperation() {
		t.Error("switch must not cancel implicitly")
	}

	s.Escape()
	if err := s.SwitchTool(tools.Fill); err != nil {
		t.Fatalf("SwitchTool after cancel failed: %v", err)
	}
	if s.ActiveTool().ID() != tools.Fill {
		t.Errorf("active tool = %s, want fill", s.ActiveTool().ID())
	}
}

func TestEditStartedOnInactiveTool(t *testing.T) {
	s := mustNew(t, 8, 8)
	if err := s.SwitchTool(tools.Fill); err != nil {
		t.Fatalf("SwitchTool failed: %v", err)
	}
	pencil, err := s.Tool(tools.Pencil)
	if err != nil {
		t.Fatalf("Tool(pencil) failed: %v", err)
	}
	if err := pencil.Start(in(1, 1), s.Settings()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := pencil.Sample(in(5, 5)); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	if err := s.SwitchTool(tools.Line); !errors.Is(err, engine.ErrToolBusy) {
		t.Errorf("SwitchTool error = %v, want ErrToolBusy", err)
	}

	s.Escape()
	if pencil.HasOngoingOperation() || s.Busy() {
		t.Fatal("Escape did not cancel the pencil edit")
	}
	if !surface.Equal(s.Surface().PreviewRGBA(), s.Surface().StableRGBA()) {
		t.Error("preview differs from stable after Escape")
	}
	if s.HistoryLen() != 0 {
		t.Errorf("HistoryLen = %d, want 0", s.HistoryLen())
	}
	if err := s.SwitchTool(tools.Line); err != nil {
		t.Errorf("SwitchTool after Escape failed: %v", err)
	}
}

func TestInputRouting(t *testing.T) {
	s := mustNew(t, 8, 8)
	if err := s.Move(in(1, 1)); err != nil {
		t.Errorf("hover Move error = %v, want nil", err)
	}
	if _, err := s.Release(in(1, 1)); !errors.Is(err, engine.ErrWrongToolContext) {
		t.Errorf("Release without Press error = %v, want ErrWrongToolContext", err)
	}
	_ = s.Press(in(1, 1))
	if err := s.Press(in(2, 2)); !errors.Is(err, engine.ErrWrongToolContext) {
		t.Errorf("second Press error = %v, want ErrWrongToolContext", err)
	}
	s.Escape()
	s.Escape() // idle escape is a no-op
	if s.Busy() {
		t.Error("session busy after Escape")
	}
}

func TestHistoryRequestsWhileBusy(t *testing.T) {
	s := mustNew(t, 8, 8)
	fill(t, s, red, 0, 0)
	_ = s.SwitchTool(tools.Pencil)
	_ = s.Press(in(1, 1))

	if err := s.Undo(); !errors.Is(err, engine.ErrToolBusy) {
		t.Errorf("Undo while busy error = %v, want ErrToolBusy", err)
	}
	if err := s.ClearHistory(); !errors.Is(err, engine.ErrToolBusy) {
		t.Errorf("ClearHistory while busy error = %v, want ErrToolBusy", err)
	}
	if s.CanUndo() {
		t.Error("CanUndo should be false while busy")
	}
	s.Escape()
	if !s.CanUndo() {
		t.Error("CanUndo should be true after Escape")
	}
}

func TestHistoryBoundaryIsRecoverable(t *testing.T) {
	s := mustNew(t, 4, 4)
	events := 0
	s.Subscribe(func(Event) { events++ })

	for _, move := range []func() error{s.Undo, s.Redo} {
		err := move()
		if !errors.Is(err, engine.ErrHistoryBoundary) || !engine.IsRecoverable(err) {
			t.Errorf("error = %v, want recoverable ErrHistoryBoundary", err)
		}
	}
	if events != 0 {
		t.Errorf("boundary no-ops emitted %d events", events)
	}
}

func TestCommitClearsIncompatibleSelection(t *testing.T) {
	s := mustNew(t, 8, 8)
	drag(t, s, tools.RectSelect, image.Pt(1, 1), image.Pt(5, 5))
	if !s.Selection().IsActive() {
		t.Fatal("selection not active")
	}
	drag(t, s, tools.MoveSelection, image.Pt(2, 2), image.Pt(3, 3))
	if !s.Selection().IsActive() {
		t.Error("moving the selection should keep it active")
	}

	withColor(s, red)
	drag(t, s, tools.Pencil, image.Pt(0, 7), image.Pt(7, 7))
	if s.Selection().IsActive() {
		t.Error("pencil commit should clear the selection")
	}
}

func TestUndoClearsSelection(t *testing.T) {
	s := mustNew(t, 8, 8)
	fill(t, s, red, 0, 0)
	drag(t, s, tools.RectSelect, image.Pt(1, 1), image.Pt(5, 5))
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if s.Selection().IsActive() {
		t.Error("undo should clear the selection")
	}
}

func TestPublicCommit(t *testing.T) {
	src := mustNew(t, 6, 6)
	fill(t, src, red, 0, 0)
	withColor(src, blue)
	drag(t, src, tools.Line, image.Pt(0, 0), image.Pt(5, 5))

	dst := mustNew(t, 6, 6)
	for _, op := range src.Operations() {
		if err := dst.Commit(op); err != nil {
			t.Fatalf("Commit(%s) failed: %v", op, err)
		}
	}
	if dst.Digest() != src.Digest() {
		t.Error("committing the same operations produced different pixels")
	}
	if dst.HistoryLen() != 2 || dst.Surface().Dirty() {
		t.Errorf("history = %d dirty = %v", dst.HistoryLen(), dst.Surface().Dirty())
	}

	small := mustNew(t, 3, 3)
	if err := small.Commit(src.Operations()[0]); !errors.Is(err, engine.ErrReplayFailure) {
		t.Errorf("Commit of a foreign-sized op error = %v, want ErrReplayFailure", err)
	}
	if small.HistoryLen() != 0 {
		t.Error("failed Commit changed history")
	}

	unknown, _ := operation.New("airbrush", image.Pt(6, 6), nil)
	if err := dst.Commit(unknown); !errors.Is(err, tools.ErrUnknownTool) {
		t.Errorf("Commit of unknown tool error = %v, want ErrUnknownTool", err)
	}
}

func TestJumpToAndRetry(t *testing.T) {
	s := mustNew(t, 4, 4)
	fill(t, s, red, 0, 0)
	fill(t, s, green, 0, 0)
	fill(t, s, blue, 0, 0)

	if err := s.JumpTo(1); err != nil {
		t.Fatalf("JumpTo failed: %v", err)
	}
	if got := s.StableImage().RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel after JumpTo(1) = %v, want red", got)
	}
	if err := s.JumpTo(9); err == nil {
		t.Error("JumpTo out of range should fail")
	}
	if err := s.Retry(); err != nil || s.Degraded() {
		t.Errorf("Retry = %v, degraded %v", err, s.Degraded())
	}
	entries := s.Entries()
	if len(entries) != 3 || !entries[0].Applied || entries[1].Applied {
		t.Errorf("Entries = %+v", entries)
	}
}

func TestClearHistory(t *testing.T) {
	s := mustNew(t, 4, 4)
	fill(t, s, red, 0, 0)
	digest := s.Digest()
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if s.HistoryLen() != 0 || s.CanUndo() {
		t.Error("history should be empty")
	}
	if s.Digest() != digest {
		t.Error("ClearHistory changed the image")
	}
	if _, _, err := s.Journal(); !errors.Is(err, ErrJournalUnavailable) {
		t.Errorf("Journal after clear error = %v, want ErrJournalUnavailable", err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	s := mustNew(t, 8, 8)
	fill(t, s, red, 0, 0)
	withColor(s, blue)
	drag(t, s, tools.Rectangle, image.Pt(1, 1), image.Pt(6, 6))
	drag(t, s, tools.Pencil, image.Pt(0, 7), image.Pt(7, 0))
	_ = s.Undo()

	header, ops, err := s.Journal()
	if err != nil {
		t.Fatalf("Journal failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("journal has %d operations, want the 2 applied", len(ops))
	}

	var buf bytes.Buffer
	if err := operation.WriteJournal(&buf, header, ops); err != nil {
		t.Fatalf("WriteJournal failed: %v", err)
	}
	h2, ops2, err := operation.ReadJournal(&buf)
	if err != nil {
		t.Fatalf("ReadJournal failed: %v", err)
	}

	replayed := mustNew(t, h2.Width, h2.Height)
	for _, op := range ops2 {
		if err := replayed.Commit(op); err != nil {
			t.Fatalf("Commit(%s) failed: %v", op, err)
		}
	}
	if replayed.Digest() != s.Digest() {
		t.Error("journal replay does not reproduce the image")
	}
}

func TestJournalUnavailableAfterTrim(t *testing.T) {
	s := mustNew(t, 4, 4, WithMaxHistory(2))
	fill(t, s, red, 0, 0)
	fill(t, s, green, 0, 0)
	fill(t, s, blue, 0, 0)
	if s.HistoryLen() != 2 {
		t.Errorf("HistoryLen = %d, want 2", s.HistoryLen())
	}
	if _, _, err := s.Journal(); !errors.Is(err, ErrJournalUnavailable) {
		t.Errorf("Journal error = %v, want ErrJournalUnavailable", err)
	}

	opened, _ := Open(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if _, _, err := opened.Journal(); !errors.Is(err, ErrJournalUnavailable) {
		t.Errorf("Journal of an opened image error = %v, want ErrJournalUnavailable", err)
	}
}

func TestObservers(t *testing.T) {
	s := mustNew(t, 4, 4)
	var kinds []EventKind
	unsubscribe := s.Subscribe(func(e Event) {
		if e.Kind != EventToolState {
			kinds = append(kinds, e.Kind)
		}
	})

	fill(t, s, red, 0, 0)
	_ = s.Undo()
	want := []EventKind{EventToolChanged, EventHistoryChanged, EventImageChanged, EventHistoryChanged, EventImageChanged}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	unsubscribe()
	_ = s.Redo()
	if len(kinds) != len(want) {
		t.Error("observer called after unsubscribe")
	}
}

func TestSettingsSnapshot(t *testing.T) {
	s := mustNew(t, 4, 4)
	withColor(s, red)
	_ = s.SwitchTool(tools.Fill)
	_ = s.Press(in(0, 0))
	withColor(s, blue) // does not affect the edit in progress
	if _, err := s.Release(in(0, 0)); err != nil {
		t.Fatal(err)
	}
	if got := s.StableImage().RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel = %v, want the red from the snapshot", got)
	}
}

func TestSetSettingsConcurrent(t *testing.T) {
	s := mustNew(t, 4, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(w float64) {
			defer wg.Done()
			st := tool.DefaultSettings()
			st.LineWidth = w
			s.SetSettings(st)
		}(float64(i + 1))
	}
	for i := 0; i < 100; i++ {
		_ = s.Settings()
	}
	wg.Wait()
	if w := s.Settings().LineWidth; w < 1 || w > 4 {
		t.Errorf("LineWidth = %v", w)
	}
}

func TestLoggingAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Output: &buf})
	m := metrics.New()
	s := mustNew(t, 4, 4, WithLogger(logger), WithMetrics(m))

	fill(t, s, red, 0, 0)
	drag(t, s, tools.Line, image.Pt(1, 1), image.Pt(1, 1))
	_ = s.Undo()

	out := buf.String()
	for _, want := range []string{"operation committed", "edit elided", "session=" + s.ID().String()} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q", want)
		}
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"pigment_operations_committed_total", "pigment_operations_elided_total", "pigment_history_moves_total"} {
		if !names[want] {
			t.Errorf("metric %s not recorded", want)
		}
	}
}

var _ logrus.FieldLogger = logging.Discard()
