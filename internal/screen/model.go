// Package screen keeps a terminal emulation state in sync with a live
// PTY output stream. Byte-stream interpretation is delegated to the
// vt10x engine; this package only mediates sizing and concurrent access.
package screen

import (
	"sync"

	"github.com/hinshun/vt10x"
)

// Cell is one character cell of the emulated screen.
type Cell struct {
	Ch rune
	FG vt10x.Color
	BG vt10x.Color
}

// Snapshot is a deep copy of the emulated screen, safe to render without
// holding the model lock.
type Snapshot struct {
	Rows, Cols    int
	Cells         [][]Cell
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// Model wraps a vt10x terminal sized to (rows, cols). The session reader
// loop is the sole writer (Process), the render path the sole reader
// (Snapshot); an RWMutex mediates the pairing.
type Model struct {
	mu   sync.RWMutex
	term vt10x.Terminal
	rows int
	cols int
}

// New creates a screen model with the given geometry.
func New(rows, cols int) *Model {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Model{
		term: vt10x.New(vt10x.WithSize(cols, rows)),
		rows: rows,
		cols: cols,
	}
}

// Process feeds a raw output chunk through the emulation engine. It
// implements pty.OutputSink: callers hand over the entire accumulated
// buffer since the last successful call, so escape sequences split
// across read boundaries parse correctly.
func (m *Model) Process(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.term.Write(p)
	return err
}

// Resize reshapes the backing buffer. Content reflow is delegated to the
// engine. Must run before the next Process call after a geometry change,
// or cursor addressing drifts.
func (m *Model) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term.Resize(cols, rows)
	m.rows = rows
	m.cols = cols
}

// Size returns the current model geometry.
func (m *Model) Size() (rows, cols int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows, m.cols
}

// Snapshot copies the visible grid and cursor state under a read lock.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cur := m.term.Cursor()
	snap := Snapshot{
		Rows:          m.rows,
		Cols:          m.cols,
		CursorX:       cur.X,
		CursorY:       cur.Y,
		CursorVisible: m.term.CursorVisible(),
		Cells:         make([][]Cell, m.rows),
	}
	for y := 0; y < m.rows; y++ {
		row := make([]Cell, m.cols)
		for x := 0; x < m.cols; x++ {
			g := m.term.Cell(x, y)
			row[x] = Cell{Ch: g.Char, FG: g.FG, BG: g.BG}
		}
		snap.Cells[y] = row
	}
	return snap
}
