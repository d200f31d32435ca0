package screen_test

import (
	"testing"

	"github.com/popsh-dev/popsh/internal/screen"
)

func rowString(snap screen.Snapshot, y, n int) string {
	out := make([]rune, 0, n)
	for x := 0; x < n; x++ {
		out = append(out, snap.Cells[y][x].Ch)
	}
	return string(out)
}

func TestProcessUpdatesCellsAndCursor(t *testing.T) {
	m := screen.New(5, 20)

	if err := m.Process([]byte("hello")); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	snap := m.Snapshot()
	if got := rowString(snap, 0, 5); got != "hello" {
		t.Fatalf("expected first row to start with %q, got %q", "hello", got)
	}
	if snap.CursorX != 5 || snap.CursorY != 0 {
		t.Fatalf("unexpected cursor position (%d, %d)", snap.CursorX, snap.CursorY)
	}
}

func TestProcessHandlesCursorAddressing(t *testing.T) {
	m := screen.New(5, 20)

	// CUP to row 2, column 3 then write.
	if err := m.Process([]byte("\x1b[2;3Hx")); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	snap := m.Snapshot()
	if snap.Cells[1][2].Ch != 'x' {
		t.Fatalf("expected 'x' at (2,1), got %q", snap.Cells[1][2].Ch)
	}
}

func TestProcessAcceptsChunkedEscapeSequences(t *testing.T) {
	m := screen.New(5, 20)

	// The supervisor re-delivers the whole accumulated buffer, so a
	// sequence arriving in one piece after accumulation must parse.
	if err := m.Process([]byte("\x1b[2;")); err != nil {
		t.Fatalf("process failed on partial sequence: %v", err)
	}
	if err := m.Process([]byte("1Hab")); err != nil {
		t.Fatalf("process failed on remainder: %v", err)
	}

	snap := m.Snapshot()
	if snap.Cells[1][0].Ch != 'a' || snap.Cells[1][1].Ch != 'b' {
		t.Fatalf("expected \"ab\" on second row, got %q", rowString(snap, 1, 2))
	}
}

func TestResizeChangesGeometry(t *testing.T) {
	m := screen.New(5, 20)
	m.Resize(10, 40)

	rows, cols := m.Size()
	if rows != 10 || cols != 40 {
		t.Fatalf("expected 10x40 after resize, got %dx%d", rows, cols)
	}

	snap := m.Snapshot()
	if snap.Rows != 10 || snap.Cols != 40 {
		t.Fatalf("snapshot geometry mismatch: %dx%d", snap.Rows, snap.Cols)
	}
	if len(snap.Cells) != 10 || len(snap.Cells[0]) != 40 {
		t.Fatalf("snapshot grid mismatch: %dx%d", len(snap.Cells), len(snap.Cells[0]))
	}
}

func TestGeometryFloorsAtOneCell(t *testing.T) {
	m := screen.New(0, -3)
	rows, cols := m.Size()
	if rows != 1 || cols != 1 {
		t.Fatalf("expected 1x1 floor, got %dx%d", rows, cols)
	}

	m.Resize(0, 0)
	rows, cols = m.Size()
	if rows != 1 || cols != 1 {
		t.Fatalf("expected 1x1 floor after resize, got %dx%d", rows, cols)
	}
}
