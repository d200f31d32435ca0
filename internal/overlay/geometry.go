// Package overlay holds the floating window's position, size, and
// drag/resize gesture state, and enforces minimum-size and screen-bound
// invariants on every mutation.
package overlay

// Direction identifies which corner anchors an active resize gesture.
type Direction int

const (
	DirNone Direction = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

const (
	MinWidth  = 10
	MinHeight = 5

	DefaultWidth  = 40
	DefaultHeight = 10
	DefaultX      = 10
	DefaultY      = 5

	// ContentMargin is the window chrome (border plus padding), in cells
	// total per axis, subtracted from the rectangle before sizing the
	// tenant PTY so the child never draws into the frame.
	ContentMargin = 4
)

// Rect is the overlay position and size in screen cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Bounds is the size of the host terminal.
type Bounds struct {
	Width, Height int
}

// Window is the overlay rectangle plus transient gesture state. Owned
// exclusively by the event loop; no synchronization needed.
type Window struct {
	Rect Rect

	dragging  bool
	offsetX   int
	offsetY   int
	resizing  bool
	direction Direction
}

// NewWindow returns a window at the default geometry.
func NewWindow() *Window {
	return &Window{
		Rect: Rect{X: DefaultX, Y: DefaultY, Width: DefaultWidth, Height: DefaultHeight},
	}
}

// ResizeTo applies a requested rectangle, clamped into bounds. Requests
// below the minimum size are dropped outright. The ordering matters:
// clamp the origin into bounds, derive the maximum extent from it,
// clamp the extent, then re-clamp the origin against the final extent.
// The result is fully on-screen and never under-size, even when bounds
// shrink below the current rect.
func (w *Window) ResizeTo(x, y, width, height int, b Bounds) {
	if width < MinWidth || height < MinHeight {
		return
	}

	x = min(max(x, 0), max(0, b.Width-1))
	y = min(max(y, 0), max(0, b.Height-1))

	maxWidth := max(0, b.Width-x)
	maxHeight := max(0, b.Height-y)

	width = max(min(width, maxWidth), MinWidth)
	height = max(min(height, maxHeight), MinHeight)

	if x > b.Width-width {
		x = max(0, b.Width-width)
	}
	if y > b.Height-height {
		y = max(0, b.Height-height)
	}

	w.Rect = Rect{X: x, Y: y, Width: width, Height: height}
}

// MoveTo repositions the window without altering its size, keeping it
// fully inside bounds.
func (w *Window) MoveTo(x, y int, b Bounds) {
	maxX := max(0, b.Width-w.Rect.Width)
	maxY := max(0, b.Height-w.Rect.Height)
	w.Rect.X = min(max(x, 0), maxX)
	w.Rect.Y = min(max(y, 0), maxY)
}

// Contains reports whether a screen position falls inside the window.
func (w *Window) Contains(x, y int) bool {
	r := w.Rect
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ContentSize returns the PTY geometry for the current rectangle: the
// visible size minus chrome, floored at one cell.
func (w *Window) ContentSize() (rows, cols int) {
	rows = max(1, w.Rect.Height-ContentMargin)
	cols = max(1, w.Rect.Width-ContentMargin)
	return rows, cols
}
