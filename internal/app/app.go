// Package app runs the event loop that ties everything together: the
// host screen, the owner shell session, the lease manager for the
// floating overlay shell, and the input router between them.
package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/popsh-dev/popsh/internal/input"
	"github.com/popsh-dev/popsh/internal/lease"
	"github.com/popsh-dev/popsh/internal/overlay"
	"github.com/popsh-dev/popsh/internal/pty"
	"github.com/popsh-dev/popsh/internal/screen"
)

const frameInterval = 50 * time.Millisecond

// Options selects the shell and starting overlay geometry.
type Options struct {
	Shell     string   // Owner and tenant shell; empty means $SHELL
	ShellArgs []string // Arguments for the tenant shell
	Geometry  overlay.Rect
}

// App owns the whole terminal for its lifetime. The owner session is
// the root of the process: its death ends Run, while tenant deaths only
// drop the overlay.
type App struct {
	screen     tcell.Screen
	guard      *screenGuard
	owner      *pty.Session
	ownerModel *screen.Model
	mouse      *input.MouseMode
	leases     *lease.Manager
	router     *input.Router
}

// New takes over the host terminal and spawns the owner shell sized to
// it. The tenant spawn is attempted too, but its failure is not fatal;
// the first summon retries.
func New(opts Options) (*App, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return newApp(sc, opts)
}

func newApp(sc tcell.Screen, opts Options) (*App, error) {
	if err := sc.Init(); err != nil {
		return nil, fmt.Errorf("initialize terminal: %w", err)
	}
	guard := &screenGuard{screen: sc}
	sc.EnableMouse()
	sc.Clear()

	cols, rows := sc.Size()
	ownerModel := screen.New(rows, cols)
	mouse := input.NewMouseMode(os.Getenv("TERM"))

	owner, err := pty.Start(pty.StartOptions{
		Command: opts.Shell,
		Rows:    uint16(rows),
		Cols:    uint16(cols),
	}, &input.Sniffer{Mode: mouse, Next: ownerModel})
	if err != nil {
		guard.Release()
		return nil, fmt.Errorf("spawn owner shell: %w", err)
	}

	leases := lease.NewManager(lease.Config{
		Command:  opts.Shell,
		Args:     opts.ShellArgs,
		Geometry: opts.Geometry,
	})
	leases.Init()

	return &App{
		screen:     sc,
		guard:      guard,
		owner:      owner,
		ownerModel: ownerModel,
		mouse:      mouse,
		leases:     leases,
		router:     input.NewRouter(owner, leases, mouse),
	}, nil
}

// Run drives the event loop until the owner shell exits. Events are
// pumped from a dedicated goroutine because PollEvent blocks; rendering
// happens on a fixed cadence rather than per event so a chatty tenant
// cannot starve input handling.
func (a *App) Run() error {
	defer a.Close()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.owner.Done():
			log.Printf("[App] Owner shell exited (code %d)", a.owner.ExitCode())
			return nil
		case ev := <-events:
			a.handleEvent(ev)
		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	w, h := a.screen.Size()
	bounds := overlay.Bounds{Width: w, Height: h}

	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.router.HandleKey(ev, bounds)
	case *tcell.EventMouse:
		a.router.HandleMouse(ev, bounds)
	case *tcell.EventResize:
		cols, rows := ev.Size()
		a.ownerModel.Resize(rows, cols)
		a.owner.Resize(rows, cols)
		if l := a.leases.Current(); l != nil {
			r := l.Window.Rect
			l.Window.ResizeTo(r.X, r.Y, r.Width, r.Height, overlay.Bounds{Width: cols, Height: rows})
			l.ResizeContent()
		}
		a.screen.Sync()
	}
}

// Close stops both shells and hands the terminal back.
func (a *App) Close() {
	a.leases.Close()
	a.owner.Close()
	a.guard.Release()
}
