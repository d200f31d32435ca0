package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/popsh-dev/popsh/internal/lease"
	"github.com/popsh-dev/popsh/internal/overlay"
)

// Sink receives encoded input bytes, normally the owner session.
type Sink interface {
	Send(data []byte)
}

// Router dispatches terminal events. Keys go to whichever shell has
// focus (the tenant while the overlay is visible, the owner otherwise),
// except for the summon hotkey and, while visible, the geometry
// chords. Mouse events drive overlay gestures while visible and are
// forwarded to the owner, mouse-mode permitting, while hidden.
// Methods run on the event loop only.
type Router struct {
	owner  Sink
	leases *lease.Manager
	mouse  *MouseMode

	// Previous sticky button state; tcell reports mouse state, not
	// transitions, so press/drag/release are derived by diffing.
	buttons tcell.ButtonMask
}

// NewRouter wires a router over the owner sink, the lease manager, and
// the owner's mouse-mode tracker.
func NewRouter(owner Sink, leases *lease.Manager, mouse *MouseMode) *Router {
	return &Router{owner: owner, leases: leases, mouse: mouse}
}

// HandleKey routes one key event. Home always summons, never forwards.
func (r *Router) HandleKey(ev *tcell.EventKey, bounds overlay.Bounds) {
	if ev.Key() == tcell.KeyHome {
		r.leases.Summon()
		return
	}

	cur := r.leases.Current()
	visible := cur != nil && cur.Visible()
	if visible && r.handleGeometryKey(ev, cur, bounds) {
		return
	}

	data := EncodeKey(ev.Key(), ev.Rune(), ev.Modifiers())
	if len(data) == 0 {
		return
	}
	if visible {
		cur.Session.Send(data)
	} else {
		r.owner.Send(data)
	}
}

// handleGeometryKey intercepts Shift+arrow (resize by one cell) and
// Ctrl+arrow (move by one cell) while the overlay is visible. It
// reports false for any other chord so the key falls through to normal
// encoding.
func (r *Router) handleGeometryKey(ev *tcell.EventKey, l *lease.Lease, bounds overlay.Bounds) bool {
	rect := l.Window.Rect
	switch {
	case ev.Modifiers()&tcell.ModShift != 0:
		switch ev.Key() {
		case tcell.KeyLeft:
			l.Window.ResizeTo(rect.X, rect.Y, rect.Width-1, rect.Height, bounds)
		case tcell.KeyRight:
			l.Window.ResizeTo(rect.X, rect.Y, rect.Width+1, rect.Height, bounds)
		case tcell.KeyUp:
			l.Window.ResizeTo(rect.X, rect.Y, rect.Width, rect.Height-1, bounds)
		case tcell.KeyDown:
			l.Window.ResizeTo(rect.X, rect.Y, rect.Width, rect.Height+1, bounds)
		default:
			return false
		}
		l.ResizeContent()
		return true
	case ev.Modifiers()&tcell.ModCtrl != 0:
		switch ev.Key() {
		case tcell.KeyLeft:
			l.Window.MoveTo(rect.X-1, rect.Y, bounds)
		case tcell.KeyRight:
			l.Window.MoveTo(rect.X+1, rect.Y, bounds)
		case tcell.KeyUp:
			l.Window.MoveTo(rect.X, rect.Y-1, bounds)
		case tcell.KeyDown:
			l.Window.MoveTo(rect.X, rect.Y+1, bounds)
		default:
			return false
		}
		return true
	}
	return false
}
