package overlay

// PointerDown classifies a press inside the window. Proximity to two
// adjacent edges means a corner resize, with corner priority over plain
// dragging; anywhere else starts a drag, recording the offset between
// pointer and origin. Callers check Contains first.
func (w *Window) PointerDown(x, y int) {
	r := w.Rect
	nearLeft := x <= r.X+1
	nearRight := x >= r.X+r.Width-2
	nearTop := y <= r.Y+1
	nearBottom := y >= r.Y+r.Height-2

	switch {
	case nearLeft && nearTop:
		w.resizing, w.direction = true, TopLeft
	case nearRight && nearTop:
		w.resizing, w.direction = true, TopRight
	case nearLeft && nearBottom:
		w.resizing, w.direction = true, BottomLeft
	case nearRight && nearBottom:
		w.resizing, w.direction = true, BottomRight
	default:
		w.dragging = true
		w.offsetX = x - r.X
		w.offsetY = y - r.Y
	}
}

// PointerDrag advances an active gesture to the given pointer position.
// It reports whether the rectangle changed and whether its dimensions
// changed (so callers know to resize the tenant PTY).
func (w *Window) PointerDrag(x, y int, b Bounds) (moved, resized bool) {
	switch {
	case w.resizing:
		return w.dragResize(x, y, b)
	case w.dragging:
		before := w.Rect
		maxX := max(0, b.Width-w.Rect.Width)
		maxY := max(0, b.Height-w.Rect.Height)
		w.Rect.X = min(max(0, x-w.offsetX), maxX)
		w.Rect.Y = min(max(0, y-w.offsetY), maxY)
		return w.Rect != before, false
	}
	return false, false
}

// dragResize recomputes the rectangle for the anchored corner. The
// edges opposite the corner stay fixed while the dragged corner follows
// the pointer, with each axis floored at the minimum. Invalid
// intermediate rectangles are discarded, leaving the previous valid one.
func (w *Window) dragResize(x, y int, b Bounds) (moved, resized bool) {
	r := w.Rect
	var nx, ny, nw, nh int

	switch w.direction {
	case TopLeft:
		nx = max(0, min(x, r.X+r.Width-MinWidth))
		ny = max(0, min(y, r.Y+r.Height-MinHeight))
		nw = max(r.X+r.Width-nx, MinWidth)
		nh = max(r.Y+r.Height-ny, MinHeight)
	case TopRight:
		nx = r.X
		ny = max(0, min(y, r.Y+r.Height-MinHeight))
		nw = max(x-r.X, MinWidth)
		nh = max(r.Y+r.Height-ny, MinHeight)
	case BottomLeft:
		nx = max(0, min(x, r.X+r.Width-MinWidth))
		ny = r.Y
		nw = max(r.X+r.Width-nx, MinWidth)
		nh = max(y-r.Y, MinHeight)
	case BottomRight:
		nx, ny = r.X, r.Y
		nw = max(x-r.X, MinWidth)
		nh = max(y-r.Y, MinHeight)
	default:
		return false, false
	}

	if nw < MinWidth || nh < MinHeight {
		return false, false
	}
	w.ResizeTo(nx, ny, nw, nh, b)
	return w.Rect != r, w.Rect.Width != r.Width || w.Rect.Height != r.Height
}

// PointerUp ends any gesture unconditionally.
func (w *Window) PointerUp() {
	w.dragging = false
	w.resizing = false
	w.direction = DirNone
}

// Dragging reports whether a drag gesture is active.
func (w *Window) Dragging() bool { return w.dragging }

// Resizing reports whether a corner resize gesture is active.
func (w *Window) Resizing() bool { return w.resizing }

// ResizeDirection returns the anchored corner of an active resize, or
// DirNone.
func (w *Window) ResizeDirection() Direction { return w.direction }
