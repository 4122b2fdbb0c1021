package selection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var red = color.RGBA{255, 0, 0, 255}

func checkerboard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2, 2, 5, 5), image.NewUniform(red), image.Point{}, draw.Src)
	return img
}

func TestInactiveAccessors(t *testing.T) {
	s := New()
	if s.IsActive() {
		t.Fatal("new selection should be inactive")
	}
	if _, err := s.Pixels(); !errors.Is(err, ErrInactive) {
		t.Errorf("Pixels error = %v, want ErrInactive", err)
	}
	if _, err := s.Path(); !errors.Is(err, ErrInactive) {
		t.Errorf("Path error = %v, want ErrInactive", err)
	}
	if _, err := s.Placement(); !errors.Is(err, ErrInactive) {
		t.Errorf("Placement error = %v, want ErrInactive", err)
	}
}

func TestActivateCapturesDetachedCopy(t *testing.T) {
	src := checkerboard()
	s := New()
	if err := s.Activate(RectPath(image.Rect(2, 2, 5, 5)), src); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	pixels, err := s.Pixels()
	if err != nil {
		t.Fatalf("Pixels failed: %v", err)
	}
	if pixels.Bounds() != image.Rect(2, 2, 5, 5) {
		t.Errorf("content bounds = %v, want (2,2)-(5,5)", pixels.Bounds())
	}
	if got := pixels.RGBAAt(3, 3); got != red {
		t.Errorf("content pixel = %v, want red", got)
	}

	src.SetRGBA(3, 3, color.RGBA{0, 0, 255, 255})
	if got := pixels.RGBAAt(3, 3); got != red {
		t.Error("content should be detached from the source surface")
	}
}

func TestActivateRejectsEmptyPath(t *testing.T) {
	src := checkerboard()
	tests := []struct {
		name string
		path Path
	}{
		{"no points", nil},
		{"two points", Path{{0, 0}, {5, 5}}},
		{"zero width", RectPath(image.Rect(3, 0, 3, 5))},
		{"outside surface", RectPath(image.Rect(20, 20, 30, 30))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if err := s.Activate(tt.path, src); !errors.Is(err, ErrEmptyPath) {
				t.Errorf("Activate error = %v, want ErrEmptyPath", err)
			}
			if s.IsActive() {
				t.Error("selection should stay inactive")
			}
		})
	}
}

func TestTranslateAndPlacement(t *testing.T) {
	s := New()
	if err := s.Activate(RectPath(image.Rect(2, 2, 5, 5)), checkerboard()); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	s.Translate(3, -1)
	s.Translate(1, 0)

	if got := s.Offset(); got != image.Pt(4, -1) {
		t.Errorf("Offset = %v, want (4,-1)", got)
	}
	placement, _ := s.Placement()
	if placement != image.Rect(6, 1, 9, 4) {
		t.Errorf("Placement = %v, want (6,1)-(9,4)", placement)
	}
}

func TestDeactivateDropsContent(t *testing.T) {
	s := New()
	_ = s.Activate(RectPath(image.Rect(0, 0, 2, 2)), checkerboard())
	s.Translate(1, 1)
	s.Deactivate()

	if s.IsActive() {
		t.Error("selection should be inactive")
	}
	if s.Offset() != (image.Point{}) {
		t.Error("offset should reset on deactivate")
	}
	s.Translate(5, 5)
	if s.Offset() != (image.Point{}) {
		t.Error("Translate on inactive selection should be ignored")
	}
}

func TestRectPathIsRect(t *testing.T) {
	if !RectPath(image.Rect(5, 5, 1, 1)).IsRect() {
		t.Error("RectPath should be a rectangle")
	}
	bowtie := Path{{0, 0}, {4, 0}, {0, 4}, {4, 4}}
	if bowtie.IsRect() {
		t.Error("bowtie should not be a rectangle")
	}
	triangle := Path{{0, 0}, {4, 0}, {0, 4}}
	if triangle.IsRect() {
		t.Error("triangle should not be a rectangle")
	}
}

func TestPolygonMask(t *testing.T) {
	triangle := Path{{0, 0}, {8, 0}, {0, 8}}
	mask := triangle.Mask(image.Rect(0, 0, 10, 10))

	if mask.Rect != image.Rect(0, 0, 8, 8) {
		t.Fatalf("mask bounds = %v, want (0,0)-(8,8)", mask.Rect)
	}
	if a := mask.AlphaAt(1, 1).A; a == 0 {
		t.Error("pixel inside the triangle should be covered")
	}
	if a := mask.AlphaAt(7, 7).A; a != 0 {
		t.Errorf("pixel outside the triangle has coverage %d", a)
	}
}

func TestLiftClipsToSource(t *testing.T) {
	content, mask := Lift(checkerboard(), RectPath(image.Rect(8, 8, 15, 15)))
	if content.Bounds() != image.Rect(8, 8, 10, 10) {
		t.Errorf("content bounds = %v, want (8,8)-(10,10)", content.Bounds())
	}
	if mask.Rect != content.Bounds() {
		t.Errorf("mask bounds %v != content bounds %v", mask.Rect, content.Bounds())
	}
}

func TestPathTranslateCopies(t *testing.T) {
	p := RectPath(image.Rect(0, 0, 2, 2))
	moved := p.Translate(1, 1)
	if p[0] != (image.Point{}) {
		t.Error("Translate must not modify the receiver")
	}
	if moved.Bounds() != image.Rect(1, 1, 3, 3) {
		t.Errorf("moved bounds = %v", moved.Bounds())
	}
}
