package surface

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Surface owns the two raster buffers of one open image.
//
// The stable buffer holds the last committed pixels; the preview buffer is
// the working copy shown while an edit is in progress. Both buffers always
// share the same bounds, anchored at the origin.
//
// A Surface is not safe for concurrent use.
type Surface struct {
	stable  *image.RGBA
	preview *image.RGBA
}

// New creates a surface of the given size with both buffers filled with fill.
// A nil fill leaves the surface transparent.
func New(width, height int, fill color.Color) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	stable := image.NewRGBA(image.Rect(0, 0, width, height))
	if fill != nil {
		draw.Draw(stable, stable.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}
	return &Surface{stable: stable, preview: Clone(stable)}, nil
}

// FromImage creates a surface whose stable buffer is a copy of img.
// The copy is re-anchored at the origin.
func FromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}
	stable := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(stable, stable.Bounds(), img, b.Min, draw.Src)
	return &Surface{stable: stable, preview: Clone(stable)}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.stable.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.stable.Rect.Dy() }

// Bounds returns the surface bounds.
func (s *Surface) Bounds() image.Rectangle { return s.stable.Rect }

// Size returns the surface dimensions as a point.
func (s *Surface) Size() image.Point { return s.stable.Rect.Size() }

// ResetPreview discards any live edit by copying stable into preview.
func (s *Surface) ResetPreview() {
	copy(s.preview.Pix, s.stable.Pix)
}

// CommitPreview promotes the preview buffer to stable.
func (s *Surface) CommitPreview() {
	copy(s.stable.Pix, s.preview.Pix)
}

// Dirty reports whether the preview differs from stable.
func (s *Surface) Dirty() bool {
	return !bytes.Equal(s.stable.Pix, s.preview.Pix)
}

// Composite blends src into the preview buffer over region, with the
// source's origin aligned to region.Min. Out-of-bounds parts are clipped.
func (s *Surface) Composite(region image.Rectangle, src image.Image, mode Mode) {
	Blend(s.preview, region, src, src.Bounds().Min, nil, image.Point{}, mode)
}

// CompositeMasked is Composite with an alpha mask aligned like src.
func (s *Surface) CompositeMasked(region image.Rectangle, src, mask image.Image, mode Mode) {
	Blend(s.preview, region, src, src.Bounds().Min, mask, mask.Bounds().Min, mode)
}

// StableRGBA returns the live stable buffer. Only history replay may write
// to it; everyone else should use Stable.
func (s *Surface) StableRGBA() *image.RGBA { return s.stable }

// PreviewRGBA returns the live preview buffer for tools that render directly.
func (s *Surface) PreviewRGBA() *image.RGBA { return s.preview }

// Stable returns a copy of the stable buffer, suitable for saving.
func (s *Surface) Stable() *image.RGBA { return Clone(s.stable) }

// Preview returns a copy of the preview buffer.
func (s *Surface) Preview() *image.RGBA { return Clone(s.preview) }

// SetStable overwrites the stable buffer and resets the preview.
func (s *Surface) SetStable(img image.Image) error {
	if img.Bounds().Size() != s.Size() {
		return fmt.Errorf("%w: got %v, want %v", ErrDimensionMismatch, img.Bounds().Size(), s.Size())
	}
	draw.Draw(s.stable, s.stable.Rect, img, img.Bounds().Min, draw.Src)
	s.ResetPreview()
	return nil
}

// Digest returns the hex SHA-256 of the stable buffer.
func (s *Surface) Digest() string { return Digest(s.stable) }

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// Equal reports whether a and b have the same bounds and pixels.
func Equal(a, b *image.RGBA) bool {
	if !a.Rect.Eq(b.Rect) {
		return false
	}
	rowLen := a.Rect.Dx() * 4
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		ai := a.PixOffset(a.Rect.Min.X, y)
		bi := b.PixOffset(b.Rect.Min.X, y)
		if !bytes.Equal(a.Pix[ai:ai+rowLen], b.Pix[bi:bi+rowLen]) {
			return false
		}
	}
	return true
}

// Digest returns the hex SHA-256 of the pixel rows of img.
func Digest(img *image.RGBA) string {
	h := sha256.New()
	rowLen := img.Rect.Dx() * 4
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		h.Write(img.Pix[i : i+rowLen])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Copy overwrites dst with src. Both must share bounds.
func Copy(dst, src *image.RGBA) {
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
}
