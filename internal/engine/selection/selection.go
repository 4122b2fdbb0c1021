// Package selection implements the editing session's selection: a region of
// the surface that is either active or not, with a detached copy of the
// pixels it covers and a translation offset used while it is dragged.
//
// The session owns the Selection; tools only hold a reference to it.
package selection

import (
	"fmt"
	"image"
)

// Selection is a region of a surface with its own pixel content.
//
// When inactive, the path, pixels and mask are stale and every accessor
// returns ErrInactive.
type Selection struct {
	active bool
	path   Path
	pixels *image.RGBA
	mask   *image.Alpha
	offset image.Point
}

// New creates an empty, inactive selection.
func New() *Selection {
	return &Selection{}
}

// Activate marks the selection active and captures a detached copy of the
// pixels of src under path. The offset is reset.
func (s *Selection) Activate(path Path, src *image.RGBA) error {
	if !path.Valid() {
		return fmt.Errorf("%w: %d points", ErrEmptyPath, len(path))
	}
	pixels, mask := Lift(src, path)
	if mask.Rect.Empty() {
		return fmt.Errorf("%w: %v outside %v", ErrEmptyPath, path.Bounds(), src.Bounds())
	}
	s.active = true
	s.path = path.Clone()
	s.pixels = pixels
	s.mask = mask
	s.offset = image.Point{}
	return nil
}

// Deactivate marks the selection inactive and drops its content.
func (s *Selection) Deactivate() {
	s.active = false
	s.path = nil
	s.pixels = nil
	s.mask = nil
	s.offset = image.Point{}
}

// IsActive reports whether the selection is active.
func (s *Selection) IsActive() bool { return s.active }

// Translate moves the selection's placement by (dx, dy). The surface is not
// touched; tools composite the content themselves.
func (s *Selection) Translate(dx, dy int) {
	if !s.active {
		return
	}
	s.offset = s.offset.Add(image.Pt(dx, dy))
}

// Offset returns the current drag translation.
func (s *Selection) Offset() image.Point { return s.offset }

// Path returns a copy of the outline the selection was activated with,
// without the drag offset applied.
func (s *Selection) Path() (Path, error) {
	if !s.active {
		return nil, ErrInactive
	}
	return s.path.Clone(), nil
}

// Pixels returns the detached content, in surface coordinates of the
// original outline.
func (s *Selection) Pixels() (*image.RGBA, error) {
	if !s.active {
		return nil, ErrInactive
	}
	return s.pixels, nil
}

// Mask returns the coverage mask matching Pixels.
func (s *Selection) Mask() (*image.Alpha, error) {
	if !s.active {
		return nil, ErrInactive
	}
	return s.mask, nil
}

// Bounds returns the bounds of the captured content, without offset.
func (s *Selection) Bounds() (image.Rectangle, error) {
	if !s.active {
		return image.Rectangle{}, ErrInactive
	}
	return s.mask.Rect, nil
}

// Placement returns where the content currently sits on the surface.
func (s *Selection) Placement() (image.Rectangle, error) {
	if !s.active {
		return image.Rectangle{}, ErrInactive
	}
	return s.mask.Rect.Add(s.offset), nil
}
