package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hinshun/vt10x"

	"github.com/popsh-dev/popsh/internal/screen"
)

var overlayBorderStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)

// draw composites one frame: the owner screen fills the terminal, and
// the overlay, when visible, sits on top with its frame and caption.
// The hardware cursor follows whichever shell has focus.
func (a *App) draw() {
	a.screen.Clear()

	snap := a.ownerModel.Snapshot()
	a.blit(0, 0, snap.Rows, snap.Cols, snap)

	cursorX, cursorY := snap.CursorX, snap.CursorY
	showCursor := snap.CursorVisible

	if l := a.leases.Current(); l != nil && l.Visible() {
		r := l.Window.Rect
		a.drawFrame(r.X, r.Y, r.Width, r.Height)

		ts := l.Screen.Snapshot()
		contentRows := min(ts.Rows, r.Height-4)
		contentCols := min(ts.Cols, r.Width-4)
		a.blit(r.X+2, r.Y+2, contentRows, contentCols, ts)

		if ts.CursorVisible && ts.CursorX < contentCols && ts.CursorY < contentRows {
			cursorX, cursorY = r.X+2+ts.CursorX, r.Y+2+ts.CursorY
			showCursor = true
		} else {
			showCursor = false
		}
	}

	if showCursor {
		a.screen.ShowCursor(cursorX, cursorY)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

// blit copies the top-left rows x cols of a snapshot to the screen at
// (x, y).
func (a *App) blit(x, y, rows, cols int, snap screen.Snapshot) {
	for row := 0; row < rows && row < snap.Rows; row++ {
		for col := 0; col < cols && col < snap.Cols; col++ {
			cell := snap.Cells[row][col]
			a.screen.SetContent(x+col, y+row, cellRune(cell.Ch), nil, cellStyle(cell))
		}
	}
}

// drawFrame clears the overlay rectangle and draws its rounded border
// one cell in from the edge, with the size caption on the bottom edge.
func (a *App) drawFrame(x, y, width, height int) {
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			a.screen.SetContent(x+col, y+row, ' ', nil, tcell.StyleDefault)
		}
	}

	left, right := x+1, x+width-2
	top, bottom := y+1, y+height-2
	for col := left + 1; col < right; col++ {
		a.screen.SetContent(col, top, '─', nil, overlayBorderStyle)
		a.screen.SetContent(col, bottom, '─', nil, overlayBorderStyle)
	}
	for row := top + 1; row < bottom; row++ {
		a.screen.SetContent(left, row, '│', nil, overlayBorderStyle)
		a.screen.SetContent(right, row, '│', nil, overlayBorderStyle)
	}
	a.screen.SetContent(left, top, '╭', nil, overlayBorderStyle)
	a.screen.SetContent(right, top, '╮', nil, overlayBorderStyle)
	a.screen.SetContent(left, bottom, '╰', nil, overlayBorderStyle)
	a.screen.SetContent(right, bottom, '╯', nil, overlayBorderStyle)

	caption := fmt.Sprintf("s:%d:%d", height, width)
	start := right - len(caption)
	if start > left {
		for i, ch := range caption {
			a.screen.SetContent(start+i, bottom, ch, nil, overlayBorderStyle)
		}
	}
}

func cellRune(ch rune) rune {
	if ch == 0 {
		return ' '
	}
	return ch
}

func cellStyle(c screen.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(toTcellColor(c.FG)).
		Background(toTcellColor(c.BG))
}

// toTcellColor maps emulator colors onto tcell's space: terminal
// defaults stay defaults, the 256-color palette maps by index, and
// anything else is truecolor.
func toTcellColor(c vt10x.Color) tcell.Color {
	switch {
	case c == vt10x.DefaultFG, c == vt10x.DefaultBG, c == vt10x.DefaultCursor:
		return tcell.ColorDefault
	case c < 256:
		return tcell.PaletteColor(int(c))
	default:
		return tcell.NewHexColor(int32(c))
	}
}
