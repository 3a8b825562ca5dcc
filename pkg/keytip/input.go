package keytip

import (
	"strings"
	"unicode/utf8"
)

// Named keys understood by the controller.
const (
	KeyAlt       = "Alt"
	KeyMeta      = "Meta"
	KeyControl   = "Control"
	KeyShift     = "Shift"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

func (m Modifier) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		bit  Modifier
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModMeta, "meta"}, {ModShift, "shift"}} {
		if m.Has(p.bit) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "+")
}

// KeyEvent is a platform-neutral key press or release.
type KeyEvent struct {
	// Key is a single character or a named key such as KeyEscape.
	Key    string
	Mods   Modifier
	Repeat bool
}

// IsModifierKey reports whether the event is for a modifier key itself.
func (e KeyEvent) IsModifierKey() bool {
	switch e.Key {
	case KeyAlt, KeyMeta, KeyControl, KeyShift:
		return true
	}
	return false
}

// IsPrintable reports whether Key is a single character.
func (e KeyEvent) IsPrintable() bool {
	return utf8.RuneCountInString(e.Key) == 1
}

// ClickEvent is a pointer press somewhere on the host.
type ClickEvent struct {
	X, Y          int
	InsideOverlay bool
}

// Disposition tells the caller whether the host may still see an event.
type Disposition int

const (
	PassThrough Disposition = iota
	Consumed
)

func (d Disposition) String() string {
	if d == Consumed {
		return "consumed"
	}
	return "pass-through"
}
