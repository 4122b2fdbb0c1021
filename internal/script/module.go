package script

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pigment/internal/config"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/tools"
)

// moduleName is both the global table and the require name of the API.
const moduleName = "pigment"

// register builds the pigment table, sets it as a global and preloads it
// for require.
func (r *Runner) register(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"tool":          r.tool,
		"tools":         r.tools,
		"color":         r.color,
		"secondary":     r.secondary,
		"operator":      r.operator,
		"width":         r.width,
		"fill_shapes":   r.fillShapes,
		"tolerance":     r.tolerance,
		"interpolation": r.interpolation,
		"press":         r.press,
		"move":          r.move,
		"release":       r.release,
		"cancel":        r.cancel,
		"undo":          r.undo,
		"redo":          r.redo,
		"jump":          r.jump,
		"cursor":        r.cursor,
		"length":        r.length,
		"commit_count":  r.commitCount,
		"can_undo":      r.canUndo,
		"can_redo":      r.canRedo,
		"select_rect":   r.selectRect,
		"deselect":      r.deselect,
		"selected":      r.selected,
		"size":          r.size,
		"pixel":         r.pixel,
		"digest":        r.digest,
	}

	mod := L.SetFuncs(L.NewTable(), funcs)
	L.SetGlobal(moduleName, mod)
	L.PreloadModule(moduleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
}

// raise turns a Go error into a Lua error naming the API function.
func raise(L *lua.LState, fn string, err error) int {
	L.RaiseError("%s: %v", fn, err)
	return 0
}

// updateSettings applies fn to a copy of the session settings.
func (r *Runner) updateSettings(fn func(*tool.Settings)) {
	s := r.sess.Settings()
	fn(&s)
	r.sess.SetSettings(s)
}

// tool(id) -> nil
// Switches the active tool.
func (r *Runner) tool(L *lua.LState) int {
	id := L.CheckString(1)
	if err := r.sess.SwitchTool(tool.ID(id)); err != nil {
		return raise(L, "tool", err)
	}
	return 0
}

// tools() -> {ids}
func (r *Runner) tools(L *lua.LState) int {
	tbl := L.NewTable()
	for i, id := range r.sess.Tools() {
		tbl.RawSetInt(i+1, lua.LString(id))
	}
	L.Push(tbl)
	return 1
}

// color(hex) -> nil
// Sets the primary color.
func (r *Runner) color(L *lua.LState) int {
	c, err := config.ParseColor(L.CheckString(1))
	if err != nil {
		return raise(L, "color", err)
	}
	r.updateSettings(func(s *tool.Settings) { s.Primary = c })
	return 0
}

// secondary(hex) -> nil
func (r *Runner) secondary(L *lua.LState) int {
	c, err := config.ParseColor(L.CheckString(1))
	if err != nil {
		return raise(L, "secondary", err)
	}
	r.updateSettings(func(s *tool.Settings) { s.Secondary = c })
	return 0
}

// operator(mode) -> nil
func (r *Runner) operator(L *lua.LState) int {
	mode, err := surface.ParseMode(L.CheckString(1))
	if err != nil {
		return raise(L, "operator", err)
	}
	r.updateSettings(func(s *tool.Settings) { s.Operator = mode })
	return 0
}

// width(n) -> nil
func (r *Runner) width(L *lua.LState) int {
	w := float64(L.CheckNumber(1))
	if w <= 0 {
		L.ArgError(1, "width must be positive")
		return 0
	}
	r.updateSettings(func(s *tool.Settings) { s.LineWidth = w })
	return 0
}

// fill_shapes(bool) -> nil
func (r *Runner) fillShapes(L *lua.LState) int {
	on := L.CheckBool(1)
	r.updateSettings(func(s *tool.Settings) { s.FillShapes = on })
	return 0
}

// tolerance(n) -> nil
func (r *Runner) tolerance(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 || n > 255 {
		L.ArgError(1, "tolerance must be within 0-255")
		return 0
	}
	r.updateSettings(func(s *tool.Settings) { s.Tolerance = n })
	return 0
}

// interpolation(name) -> nil
func (r *Runner) interpolation(L *lua.LState) int {
	name := L.CheckString(1)
	if !slices.Contains(tools.Interpolations(), name) {
		L.ArgError(1, fmt.Sprintf("unknown interpolation %q", name))
		return 0
	}
	r.updateSettings(func(s *tool.Settings) { s.Interpolation = name })
	return 0
}

// input reads the pointer arguments shared by press, move and release:
// (x, y [, button [, modifiers]]) where button is "primary",
// "secondary" or "middle" and modifiers is e.g. "shift+ctrl".
func input(L *lua.LState) tool.Input {
	in := tool.At(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	switch b := L.OptString(3, "primary"); b {
	case "primary":
	case "secondary":
		in.Button = tool.ButtonSecondary
	case "middle":
		in.Button = tool.ButtonMiddle
	default:
		L.ArgError(3, fmt.Sprintf("unknown button %q", b))
	}
	for _, name := range strings.Split(L.OptString(4, ""), "+") {
		switch strings.TrimSpace(name) {
		case "":
		case "shift":
			in.Modifiers |= tool.ModShift
		case "ctrl":
			in.Modifiers |= tool.ModCtrl
		case "alt":
			in.Modifiers |= tool.ModAlt
		default:
			L.ArgError(4, fmt.Sprintf("unknown modifier %q", name))
		}
	}
	return in
}

// press(x, y [, button [, modifiers]]) -> nil
func (r *Runner) press(L *lua.LState) int {
	if err := r.sess.Press(input(L)); err != nil {
		return raise(L, "press", err)
	}
	return 0
}

// move(x, y [, button [, modifiers]]) -> nil
func (r *Runner) move(L *lua.LState) int {
	if err := r.sess.Move(input(L)); err != nil {
		return raise(L, "move", err)
	}
	return 0
}

// release(x, y [, button [, modifiers]]) -> "committed" | "elided"
func (r *Runner) release(L *lua.LState) int {
	outcome, err := r.sess.Release(input(L))
	if err != nil {
		return raise(L, "release", err)
	}
	if outcome == tool.OutcomeCommitted {
		r.commits++
	}
	L.Push(lua.LString(outcome.String()))
	return 1
}

// cancel() -> nil
func (r *Runner) cancel(L *lua.LState) int {
	r.sess.Escape()
	return 0
}

// undo() -> nil
func (r *Runner) undo(L *lua.LState) int {
	if err := r.sess.Undo(); err != nil {
		return raise(L, "undo", err)
	}
	return 0
}

// redo() -> nil
func (r *Runner) redo(L *lua.LState) int {
	if err := r.sess.Redo(); err != nil {
		return raise(L, "redo", err)
	}
	return 0
}

// jump(n) -> nil
// Moves the history cursor so that n operations are applied.
func (r *Runner) jump(L *lua.LState) int {
	if err := r.sess.JumpTo(L.CheckInt(1)); err != nil {
		return raise(L, "jump", err)
	}
	return 0
}

// cursor() -> n
func (r *Runner) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(r.sess.Cursor()))
	return 1
}

// length() -> n
func (r *Runner) length(L *lua.LState) int {
	L.Push(lua.LNumber(r.sess.HistoryLen()))
	return 1
}

// commit_count() -> n
// Returns how many edits this script committed through release.
func (r *Runner) commitCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.commits))
	return 1
}

func (r *Runner) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.sess.CanUndo()))
	return 1
}

func (r *Runner) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(r.sess.CanRedo()))
	return 1
}

// select_rect(x, y, w, h) -> nil
// Drags out a rectangle selection and restores the previous tool.
func (r *Runner) selectRect(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	w, h := L.CheckInt(3), L.CheckInt(4)
	if w <= 0 || h <= 0 {
		L.ArgError(3, "width and height must be positive")
		return 0
	}

	prev := r.sess.ActiveTool().ID()
	if err := r.sess.SwitchTool(tools.RectSelect); err != nil {
		return raise(L, "select_rect", err)
	}
	defer func() { _ = r.sess.SwitchTool(prev) }()

	if err := r.sess.Press(tool.At(float64(x), float64(y))); err != nil {
		return raise(L, "select_rect", err)
	}
	if _, err := r.sess.Release(tool.At(float64(x+w), float64(y+h))); err != nil {
		return raise(L, "select_rect", err)
	}
	return 0
}

// deselect() -> nil
func (r *Runner) deselect(L *lua.LState) int {
	if r.sess.Busy() {
		L.RaiseError("deselect: edit in progress")
		return 0
	}
	r.sess.Selection().Deactivate()
	return 0
}

// selected() -> bool
func (r *Runner) selected(L *lua.LState) int {
	L.Push(lua.LBool(r.sess.Selection().IsActive()))
	return 1
}

// size() -> width, height
func (r *Runner) size(L *lua.LState) int {
	sz := r.sess.Size()
	L.Push(lua.LNumber(sz.X))
	L.Push(lua.LNumber(sz.Y))
	return 2
}

// pixel(x, y [, "preview"]) -> hex
// Returns the stable (or preview) pixel as "#rrggbb[aa]".
func (r *Runner) pixel(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	img := r.sess.Surface().StableRGBA()
	if L.OptString(3, "stable") == "preview" {
		img = r.sess.Surface().PreviewRGBA()
	}
	if !image.Pt(x, y).In(img.Rect) {
		L.ArgError(1, fmt.Sprintf("(%d, %d) outside the surface", x, y))
		return 0
	}
	c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
	L.Push(lua.LString(config.FormatColor(c)))
	return 1
}

// digest() -> hex
// Returns the SHA-256 of the stable buffer.
func (r *Runner) digest(L *lua.LState) int {
	L.Push(lua.LString(r.sess.Digest()))
	return 1
}
