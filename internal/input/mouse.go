package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/popsh-dev/popsh/internal/overlay"
)

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// sgrButtons maps sticky buttons to their SGR codes in forwarding
// order.
var sgrButtons = []struct {
	mask tcell.ButtonMask
	code int
}{
	{tcell.Button1, 0}, // left
	{tcell.Button3, 1}, // middle
	{tcell.Button2, 2}, // right
}

// HandleMouse routes one mouse event. While the overlay is visible the
// event drives the gesture machine: left press inside starts a drag or
// corner resize, left press outside hides the overlay, drags update
// geometry (resizing the tenant when dimensions change), release ends
// the gesture. While hidden, events are forwarded to the owner as SGR
// sequences, but only when the owner has mouse reporting on; otherwise
// they are dropped so a mouse-unaware program never sees them.
func (r *Router) HandleMouse(ev *tcell.EventMouse, bounds overlay.Bounds) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	prev := r.buttons
	r.buttons = buttons &^ wheelMask

	cur := r.leases.Current()
	if cur != nil && cur.Visible() {
		w := cur.Window
		leftWas := prev&tcell.Button1 != 0
		leftIs := buttons&tcell.Button1 != 0
		switch {
		case leftIs && !leftWas:
			if w.Contains(x, y) {
				w.PointerDown(x, y)
			} else {
				cur.Hide()
			}
		case leftIs && leftWas:
			if _, resized := w.PointerDrag(x, y, bounds); resized {
				cur.ResizeContent()
			}
		case leftWas:
			w.PointerUp()
		}
		return
	}

	if !r.mouse.Enabled() {
		return
	}

	if buttons&tcell.WheelUp != 0 {
		r.owner.Send(encodeSGR(64, x, y, true))
	}
	if buttons&tcell.WheelDown != 0 {
		r.owner.Send(encodeSGR(65, x, y, true))
	}
	for _, b := range sgrButtons {
		was := prev&b.mask != 0
		is := buttons&b.mask != 0
		switch {
		case is && !was:
			r.owner.Send(encodeSGR(b.code, x, y, true))
		case is && was:
			r.owner.Send(encodeSGR(b.code+32, x, y, true))
		case was:
			r.owner.Send(encodeSGR(b.code, x, y, false))
		}
	}
}

// encodeSGR renders one SGR mouse report. Coordinates on the wire are
// one-based; press and drag use final byte 'M', release 'm'.
func encodeSGR(code, x, y int, press bool) []byte {
	final := byte('m')
	if press {
		final = 'M'
	}
	return fmt.Appendf(nil, "\x1b[<%d;%d;%d%c", code, x+1, y+1, final)
}
