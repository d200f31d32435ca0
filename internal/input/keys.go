// Package input translates host terminal events into the byte
// sequences interactive programs expect, and routes them to the owner
// or tenant shell depending on overlay state.
package input

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// EncodeKey maps a key event to its wire bytes. The mapping is a total,
// deterministic function: the same key and modifiers always produce the
// same sequence. Home returns nil because it is the summon hotkey and
// never reaches a shell; unknown keys also return nil.
func EncodeKey(key tcell.Key, r rune, mods tcell.ModMask) []byte {
	switch key {
	case tcell.KeyRune:
		if mods&tcell.ModCtrl != 0 {
			return []byte{byte(r) & 0x1f}
		}
		buf := make([]byte, 0, utf8.UTFMax+1)
		if mods&tcell.ModAlt != 0 {
			buf = append(buf, 0x1b)
		}
		return utf8.AppendRune(buf, r)
	case tcell.KeyEnter:
		return []byte{0x0d}
	case tcell.KeyTab:
		return []byte{0x09}
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyBackspace:
		return []byte{0x08}
	case tcell.KeyBackspace2:
		// Most terminals send DEL for the backspace key; the tenant
		// contract wants BS either way.
		return []byte{0x08}
	case tcell.KeyEscape:
		return []byte{0x1b}
	case tcell.KeyUp:
		return arrowSeq('A', mods)
	case tcell.KeyDown:
		return arrowSeq('B', mods)
	case tcell.KeyRight:
		return arrowSeq('C', mods)
	case tcell.KeyLeft:
		return arrowSeq('D', mods)
	case tcell.KeyHome:
		return nil
	case tcell.KeyEnd:
		return []byte("\x1b[F")
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyInsert:
		return []byte("\x1b[2~")
	case tcell.KeyF1:
		return []byte("\x1bOP")
	case tcell.KeyF2:
		return []byte("\x1bOQ")
	case tcell.KeyF3:
		return []byte("\x1bOR")
	case tcell.KeyF4:
		return []byte("\x1bOS")
	case tcell.KeyF5:
		return []byte("\x1b[15~")
	case tcell.KeyF6:
		return []byte("\x1b[17~")
	case tcell.KeyF7:
		return []byte("\x1b[18~")
	case tcell.KeyF8:
		return []byte("\x1b[19~")
	case tcell.KeyF9:
		return []byte("\x1b[20~")
	case tcell.KeyF10:
		return []byte("\x1b[21~")
	case tcell.KeyF11:
		return []byte("\x1b[23~")
	case tcell.KeyF12:
		return []byte("\x1b[24~")
	}

	// Ctrl+letter arrives as a dedicated key code carrying its control
	// byte. Tab, Enter, and Backspace alias into this range but were
	// handled above.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return []byte{byte(key)}
	}
	return nil
}

func arrowSeq(final byte, mods tcell.ModMask) []byte {
	switch {
	case mods&tcell.ModShift != 0:
		return []byte{0x1b, '[', '1', ';', '2', final}
	case mods&tcell.ModCtrl != 0:
		return []byte{0x1b, '[', '1', ';', '5', final}
	}
	return []byte{0x1b, '[', final}
}
