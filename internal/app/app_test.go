package app

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/popsh-dev/popsh/internal/pty"
)

func requireEventually(t *testing.T, cond func() bool, timeout time.Duration, step time.Duration, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s", message)
		}
		time.Sleep(step)
	}
}

// skipIfNoPTY skips the test if PTY operations are not available
// (e.g., in sandboxed environments, containers without /dev/ptmx access).
func skipIfNoPTY(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("PTY tests rely on POSIX shell")
	}
	s, err := pty.Start(pty.StartOptions{Command: "/bin/sh", Args: []string{"-c", "exit 0"}}, nil)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "operation not permitted") ||
			strings.Contains(msg, "permission denied") ||
			strings.Contains(msg, "no such file or directory") {
			t.Skipf("PTY not available in this environment: %v", err)
		}
	}
	if s != nil {
		_ = s.Stop(100 * time.Millisecond)
	}
}

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	a, err := newApp(sim, Options{Shell: "/bin/sh", ShellArgs: []string{"-c", "sleep 30"}})
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	t.Cleanup(a.Close)
	if !a.leases.Alive() {
		t.Fatal("tenant did not spawn")
	}
	return a, sim
}

func runeAt(sim tcell.SimulationScreen, x, y int) rune {
	ch, _, _, _ := sim.GetContent(x, y)
	return ch
}

func TestSummonDrawsOverlayFrame(t *testing.T) {
	skipIfNoPTY(t)
	a, sim := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	if !a.leases.Visible() {
		t.Fatal("Home did not summon the overlay")
	}
	a.draw()

	// Default rect (10,5) 40x10; the border sits one cell in.
	if got := runeAt(sim, 11, 6); got != '╭' {
		t.Fatalf("top-left border = %q", got)
	}
	if got := runeAt(sim, 48, 6); got != '╮' {
		t.Fatalf("top-right border = %q", got)
	}
	if got := runeAt(sim, 11, 13); got != '╰' {
		t.Fatalf("bottom-left border = %q", got)
	}
	if got := runeAt(sim, 48, 13); got != '╯' {
		t.Fatalf("bottom-right border = %q", got)
	}

	// Caption "s:10:40" right-aligned on the bottom edge.
	caption := ""
	for x := 41; x < 48; x++ {
		caption += string(runeAt(sim, x, 13))
	}
	if caption != "s:10:40" {
		t.Fatalf("caption = %q", caption)
	}
}

func TestClickOutsideHidesOverlayFrame(t *testing.T) {
	skipIfNoPTY(t)
	a, sim := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	a.draw()
	a.handleEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	a.handleEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	if a.leases.Visible() {
		t.Fatal("click outside did not hide the overlay")
	}
	a.draw()

	if got := runeAt(sim, 11, 6); got == '╭' {
		t.Fatal("overlay frame still drawn after hide")
	}
}

func TestResizeEventReclampsOverlay(t *testing.T) {
	skipIfNoPTY(t)
	a, _ := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	a.handleEvent(tcell.NewEventResize(30, 12))

	if rows, cols := a.ownerModel.Size(); rows != 12 || cols != 30 {
		t.Fatalf("owner model %dx%d, want 12x30", rows, cols)
	}
	requireEventually(t, func() bool {
		rows, cols := a.owner.Size()
		return rows == 12 && cols == 30
	}, 5*time.Second, 10*time.Millisecond, "owner PTY never resized")

	l := a.leases.Current()
	r := l.Window.Rect
	if r.X+r.Width > 30 || r.Y+r.Height > 12 {
		t.Fatalf("overlay escaped shrunken bounds: %+v", r)
	}
	wantRows, wantCols := l.Window.ContentSize()
	if rows, cols := l.Screen.Size(); rows != wantRows || cols != wantCols {
		t.Fatalf("tenant screen %dx%d, want %dx%d", rows, cols, wantRows, wantCols)
	}
}

func TestOwnerOutputReachesScreen(t *testing.T) {
	skipIfNoPTY(t)

	sim := tcell.NewSimulationScreen("UTF-8")
	a, err := newApp(sim, Options{Shell: "/bin/sh"})
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	t.Cleanup(a.Close)

	a.owner.Send([]byte("printf popshmarker\n"))
	requireEventually(t, func() bool {
		a.draw()
		snap := a.ownerModel.Snapshot()
		for _, row := range snap.Cells {
			line := ""
			for _, cell := range row {
				line += string(cellRune(cell.Ch))
			}
			if strings.Contains(line, "popshmarker") {
				return true
			}
		}
		return false
	}, 5*time.Second, 25*time.Millisecond, "owner output never reached the screen model")
}
