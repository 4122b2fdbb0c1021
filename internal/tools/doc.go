// Package tools provides the closed set of editing tools and the Registry
// that creates them and replays their operations.
//
// Every tool renders through a single apply function per payload type. The
// live preview calls it on a freshly reset preview buffer after each sample,
// and history replay calls it on the stable buffer, so a committed
// operation always reproduces exactly what the user saw when the edit
// finished.
//
// Drawing tools rasterize with github.com/gogpu/gg into a coverage layer
// and composite that layer with the chosen mode. Selection tools change the
// session's Selection and never record an operation. Transform tools work
// on the active selection and re-anchor it after committing.
package tools
