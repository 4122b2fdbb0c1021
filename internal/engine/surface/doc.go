// Package surface implements the pixel surface of an open image.
//
// A Surface holds two buffers: stable (the last committed state, the only
// thing a codec may persist) and preview (the working copy a tool mutates
// while an operation is in progress). Tools composite into the preview with
// an explicit Mode; history replay writes the stable buffer directly.
//
//	s, _ := surface.New(640, 480, color.White)
//	s.Composite(image.Rect(10, 10, 20, 20), image.NewUniform(red), surface.ModeNormal)
//	s.CommitPreview()
//
// Blend is exported so replay code can apply the exact same compositing to
// a detached buffer that tools apply to the preview.
package surface
