// Package lease ties one tenant shell to its screen model and overlay
// window, and tracks the tenant's lifecycle: a lease is active until
// its session dies, after which it is dead for good and the manager
// replaces it with a fresh one.
package lease

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/popsh-dev/popsh/internal/overlay"
	"github.com/popsh-dev/popsh/internal/pty"
	"github.com/popsh-dev/popsh/internal/screen"
)

// Config describes how to spawn a tenant shell.
type Config struct {
	Command    string
	Args       []string
	WorkingDir string
	Env        []string

	// Geometry is the starting rectangle for every lease, including
	// renewals. A rectangle below the minimum size is ignored in favor
	// of the built-in default.
	Geometry overlay.Rect
}

// Lease bundles a tenant session with the screen model that consumes
// its output and the overlay window that frames it. All fields are
// owned by the event loop; the session synchronizes internally.
type Lease struct {
	ID      uuid.UUID
	Session *pty.Session
	Screen  *screen.Model
	Window  *overlay.Window

	visible bool
	dead    bool
}

// New spawns a tenant at the default overlay geometry. The PTY and the
// screen model start at the window's content size so the tenant never
// observes a mismatched viewport.
func New(cfg Config) (*Lease, error) {
	window := overlay.NewWindow()
	if cfg.Geometry.Width >= overlay.MinWidth && cfg.Geometry.Height >= overlay.MinHeight {
		window.Rect = cfg.Geometry
	}
	rows, cols := window.ContentSize()
	model := screen.New(rows, cols)

	session, err := pty.Start(pty.StartOptions{
		Command:    cfg.Command,
		Args:       cfg.Args,
		WorkingDir: cfg.WorkingDir,
		Env:        cfg.Env,
		Rows:       uint16(rows),
		Cols:       uint16(cols),
	}, model)
	if err != nil {
		return nil, fmt.Errorf("spawn tenant: %w", err)
	}

	return &Lease{
		ID:      uuid.New(),
		Session: session,
		Screen:  model,
		Window:  window,
	}, nil
}

// Expired reports whether the tenant has died. Death latches: once
// observed, the lease stays dead and visibility is forced off so a
// stale toggle can never show a corpse. A dead lease is never revived;
// the manager builds a replacement instead.
func (l *Lease) Expired() bool {
	if l.dead {
		l.visible = false
		return true
	}
	select {
	case <-l.Session.Done():
		l.dead = true
		l.visible = false
		return true
	default:
		return false
	}
}

// Toggle flips overlay visibility. It reports false without flipping
// when the lease is dead.
func (l *Lease) Toggle() bool {
	if l.Expired() {
		return false
	}
	l.visible = !l.visible
	return true
}

// Visible reports whether the overlay should be drawn.
func (l *Lease) Visible() bool {
	if l.Expired() {
		return false
	}
	return l.visible
}

// Hide turns the overlay off without affecting the tenant.
func (l *Lease) Hide() {
	l.visible = false
}

// ResizeContent pushes the window's current content size to the screen
// model and then to the tenant PTY. The model resizes first so output
// racing the PTY resize lands on a grid that can already hold it.
func (l *Lease) ResizeContent() {
	rows, cols := l.Window.ContentSize()
	l.Screen.Resize(rows, cols)
	l.Session.Resize(rows, cols)
}

// Close releases the tenant session. Safe on dead leases.
func (l *Lease) Close() {
	l.Session.Close()
}
