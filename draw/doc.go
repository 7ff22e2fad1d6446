// Package draw holds the vocabulary shared by the rest of this module:
// points and rectangles, the Plan 9 channel descriptor (Pix), premultiplied
// display colors, Porter-Duff compositing operators, and line end styles.
//
// These are pure value types with no dependency on the image store, the
// rasterizer, or the wire codec, so that every other package in this module
// can import draw without pulling in the compositor itself.
package draw
