package input

import (
	"bytes"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/popsh-dev/popsh/internal/lease"
	"github.com/popsh-dev/popsh/internal/overlay"
)

type captureSink struct {
	sent [][]byte
}

func (c *captureSink) Send(data []byte) {
	c.sent = append(c.sent, append([]byte(nil), data...))
}

func (c *captureSink) joined() []byte {
	return bytes.Join(c.sent, nil)
}

func hiddenRouter() (*Router, *captureSink, *MouseMode) {
	owner := &captureSink{}
	mode := NewMouseMode("xterm-256color")
	// No Init: there is no lease, as after a failed startup spawn.
	r := NewRouter(owner, lease.NewManager(lease.Config{}), mode)
	return r, owner, mode
}

var testBounds = overlay.Bounds{Width: 120, Height: 40}

func TestMouseDroppedWhileModeOff(t *testing.T) {
	r, owner, _ := hiddenRouter()

	r.HandleMouse(tcell.NewEventMouse(5, 10, tcell.Button1, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(6, 11, tcell.Button1, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(6, 11, tcell.ButtonNone, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(6, 11, tcell.WheelUp, tcell.ModNone), testBounds)

	if len(owner.sent) != 0 {
		t.Fatalf("forwarded %d mouse reports with mouse mode off", len(owner.sent))
	}
}

func TestMouseForwardedAsSGRWhileModeOn(t *testing.T) {
	r, owner, mode := hiddenRouter()
	mode.Observe([]byte("\x1b[?1000h"))

	// Left press at column 5, row 10: one-based on the wire.
	r.HandleMouse(tcell.NewEventMouse(5, 10, tcell.Button1, tcell.ModNone), testBounds)
	// Motion with the button held is a drag.
	r.HandleMouse(tcell.NewEventMouse(6, 11, tcell.Button1, tcell.ModNone), testBounds)
	// Release uses the lowercase final byte.
	r.HandleMouse(tcell.NewEventMouse(6, 11, tcell.ButtonNone, tcell.ModNone), testBounds)

	want := [][]byte{
		[]byte("\x1b[<0;6;11M"),
		[]byte("\x1b[<32;7;12M"),
		[]byte("\x1b[<0;7;12m"),
	}
	if len(owner.sent) != len(want) {
		t.Fatalf("got %d reports, want %d: %q", len(owner.sent), len(want), owner.sent)
	}
	for i := range want {
		if !bytes.Equal(owner.sent[i], want[i]) {
			t.Fatalf("report %d = %q, want %q", i, owner.sent[i], want[i])
		}
	}
}

func TestWheelAndSecondaryButtons(t *testing.T) {
	r, owner, mode := hiddenRouter()
	mode.Observe([]byte("\x1b[?1006h"))

	r.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(2, 3, tcell.Button3, tcell.ModNone), testBounds) // middle
	r.HandleMouse(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone), testBounds)
	r.HandleMouse(tcell.NewEventMouse(2, 3, tcell.Button2, tcell.ModNone), testBounds) // right
	r.HandleMouse(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone), testBounds)

	want := [][]byte{
		[]byte("\x1b[<64;1;1M"),
		[]byte("\x1b[<65;1;1M"),
		[]byte("\x1b[<1;3;4M"),
		[]byte("\x1b[<1;3;4m"),
		[]byte("\x1b[<2;3;4M"),
		[]byte("\x1b[<2;3;4m"),
	}
	if len(owner.sent) != len(want) {
		t.Fatalf("got %d reports, want %d: %q", len(owner.sent), len(want), owner.sent)
	}
	for i := range want {
		if !bytes.Equal(owner.sent[i], want[i]) {
			t.Fatalf("report %d = %q, want %q", i, owner.sent[i], want[i])
		}
	}
}

func TestKeysGoToOwnerWhileHidden(t *testing.T) {
	r, owner, _ := hiddenRouter()

	r.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), testBounds)
	r.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), testBounds)

	if got, want := owner.joined(), []byte("a\x1b[1;2D"); !bytes.Equal(got, want) {
		t.Fatalf("owner received %q, want %q", got, want)
	}
}

func TestUnmappedKeyForwardsNothing(t *testing.T) {
	r, owner, _ := hiddenRouter()
	r.HandleKey(tcell.NewEventKey(tcell.KeyF64, 0, tcell.ModNone), testBounds)
	if len(owner.sent) != 0 {
		t.Fatalf("unmapped key produced %q", owner.sent)
	}
}
