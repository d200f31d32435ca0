package app

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// screenGuard restores the host terminal (cooked mode, primary screen,
// mouse capture off) exactly once, on whichever exit path runs first.
type screenGuard struct {
	screen tcell.Screen
	once   sync.Once
}

func (g *screenGuard) Release() {
	g.once.Do(g.screen.Fini)
}
