// Package script automates an editing session with Lua.
//
// Scripts run in a gopher-lua state with only the base, package, table,
// string and math libraries open. File loading is removed and require only
// resolves those libraries and the pigment module, which is also available
// as a global:
//
//	pigment.tool("rectangle")
//	pigment.color("#ff0000")
//	pigment.press(2, 2)
//	pigment.move(6, 4)
//	print(pigment.release(8, 8))   -- "committed"
//	pigment.undo()
//	print(pigment.cursor(), pigment.length(), pigment.digest())
//
// API errors, such as undo at the oldest state or switching tools during
// an edit, raise Lua errors and can be caught with pcall.
package script
