package input

import (
	"strings"
	"sync/atomic"

	"github.com/popsh-dev/popsh/internal/pty"
)

// DECSET/DECRST private modes that imply the owner application wants
// mouse reporting: X10 tracking, button-event tracking, any-event
// tracking, UTF-8 mouse mode, and SGR extended mode.
var (
	mouseSetSeqs = []string{
		"\x1b[?9h", "\x1b[?1000h", "\x1b[?1002h", "\x1b[?1003h", "\x1b[?1005h", "\x1b[?1006h",
	}
	mouseResetSeqs = []string{
		"\x1b[?9l", "\x1b[?1000l", "\x1b[?1002l", "\x1b[?1003l", "\x1b[?1005l", "\x1b[?1006l",
	}
)

const (
	altScreenEnter = "\x1b[?1049h"
	altScreenLeave = "\x1b[?1049l"
)

// MouseMode tracks whether the owner application has asked the terminal
// for mouse reporting. The flag is written from the owner session's
// reader goroutine and read from the event loop, so it is a single
// atomic scalar rather than locked state.
type MouseMode struct {
	enabled atomic.Bool

	// Full-screen programs on xterm-like terminals typically want the
	// mouse as soon as they enter the alternate screen, often before
	// they issue an explicit tracking mode. Elsewhere the alternate
	// screen alone proves nothing.
	assumeOnAltScreen bool
}

// NewMouseMode returns a tracker tuned by the host TERM value.
func NewMouseMode(term string) *MouseMode {
	return &MouseMode{assumeOnAltScreen: strings.Contains(term, "xterm")}
}

// Observe scans one output chunk for mode changes. The latest
// occurrence in the chunk wins, so a program that enables and then
// disables tracking within one read leaves the flag off. This is a
// substring heuristic, not a parser: a sequence split across two reads
// is missed.
func (m *MouseMode) Observe(p []byte) {
	s := string(p)

	lastSet := -1
	for _, seq := range mouseSetSeqs {
		if i := strings.LastIndex(s, seq); i > lastSet {
			lastSet = i
		}
	}
	if m.assumeOnAltScreen {
		if i := strings.LastIndex(s, altScreenEnter); i > lastSet {
			lastSet = i
		}
	}

	lastReset := -1
	for _, seq := range mouseResetSeqs {
		if i := strings.LastIndex(s, seq); i > lastReset {
			lastReset = i
		}
	}
	if i := strings.LastIndex(s, altScreenLeave); i > lastReset {
		lastReset = i
	}

	if lastSet < 0 && lastReset < 0 {
		return
	}
	m.enabled.Store(lastSet > lastReset)
}

// Enabled reports whether mouse events should be forwarded to the
// owner.
func (m *MouseMode) Enabled() bool {
	return m.enabled.Load()
}

// Sniffer is output-sink middleware: it feeds each chunk to the mouse
// tracker and then hands it unchanged to the next sink. A rejected
// chunk is re-observed on retry, which is harmless since Observe is
// idempotent for identical input.
type Sniffer struct {
	Mode *MouseMode
	Next pty.OutputSink
}

func (s *Sniffer) Process(p []byte) error {
	s.Mode.Observe(p)
	if s.Next == nil {
		return nil
	}
	return s.Next.Process(p)
}
