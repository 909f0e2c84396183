// Package keys turns raw terminal input into key events.
//
// Key names follow the bubbletea conventions ("ctrl+s", "up", "enter", ...) so
// that bindings declared with bubbles/key can be matched directly against them.
package keys

import (
	"unicode/utf8"
)

// Type identifies a non-printable key.
type Type int

const (
	Runes Type = iota // printable text, see Key.Runes
	Ctrl              // control character, see Key.Ctrl
	Enter
	Tab
	ShiftTab
	Backspace
	Delete
	Escape
	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
	CtrlLeft
	CtrlRight
	Unknown
)

var typeNames = map[Type]string{
	Enter:     "enter",
	Tab:       "tab",
	ShiftTab:  "shift+tab",
	Backspace: "backspace",
	Delete:    "delete",
	Escape:    "esc",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	Home:      "home",
	End:       "end",
	PageUp:    "pgup",
	PageDown:  "pgdown",
	CtrlLeft:  "ctrl+left",
	CtrlRight: "ctrl+right",
	Unknown:   "unknown",
}

// Key is a single decoded key press.
type Key struct {
	Type  Type
	Rune  rune // set when Type == Runes
	Ctrl  byte // letter for control keys, 'c' for ctrl+c
	Alt   bool
	Bytes string // raw bytes the key was decoded from
}

// String returns the bubbletea style name of the key.
func (k Key) String() string {
	var s string
	switch k.Type {
	case Runes:
		s = string(k.Rune)
	case Ctrl:
		s = "ctrl+" + string(rune(k.Ctrl))
	default:
		s = typeNames[k.Type]
	}
	if k.Alt {
		return "alt+" + s
	}
	return s
}

// IsPrintable reports whether the key inserts text.
func (k Key) IsPrintable() bool {
	return k.Type == Runes && !k.Alt && k.Rune >= ' ' && k.Rune != utf8.RuneError
}

const (
	codeTab = 9
	codeLF  = 10
	codeCR  = 13
	codeESC = 27
	codeDEL = 127
)

// Decode splits data into keys. Incomplete or unknown escape sequences are
// reported as Unknown keys and never as text.
func Decode(data string) []Key {
	var out []Key
	for i := 0; i < len(data); {
		k, n := decodeOne(data[i:])
		k.Bytes = data[i : i+n]
		out = append(out, k)
		i += n
	}
	return out
}

func decodeOne(s string) (Key, int) {
	c := s[0]
	switch {
	case c == codeCR:
		if len(s) > 1 && s[1] == codeLF {
			return Key{Type: Enter}, 2
		}
		return Key{Type: Enter}, 1
	case c == codeLF:
		return Key{Type: Enter}, 1
	case c == codeTab:
		return Key{Type: Tab}, 1
	case c == codeDEL:
		return Key{Type: Backspace}, 1
	case c == codeESC:
		return decodeEscape(s)
	case c == 0:
		return Key{Type: Ctrl, Ctrl: '@'}, 1
	case c < 32:
		// ctrl+a .. ctrl+z, ctrl+h included (8)
		if c <= 26 {
			return Key{Type: Ctrl, Ctrl: 'a' + c - 1}, 1
		}
		return Key{Type: Unknown}, 1
	}

	r, n := utf8.DecodeRuneInString(s)
	return Key{Type: Runes, Rune: r}, n
}

// decodeEscape handles ESC, ESC [ ... and ESC O ... sequences.
func decodeEscape(s string) (Key, int) {
	if len(s) == 1 {
		return Key{Type: Escape}, 1
	}

	switch s[1] {
	case '[':
		return decodeCSI(s)
	case 'O':
		if len(s) < 3 {
			return Key{Type: Unknown}, len(s)
		}
		if t, ok := finalKeys[s[2]]; ok {
			return Key{Type: t}, 3
		}
		return Key{Type: Unknown}, 3
	case codeESC:
		return Key{Type: Escape}, 1
	}

	// alt+<key>
	k, n := decodeOne(s[1:])
	if k.Type == Runes || k.Type == Ctrl {
		k.Alt = true
		return k, n + 1
	}
	return Key{Type: Escape}, 1
}

var finalKeys = map[byte]Type{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
	'H': Home,
	'F': End,
	'Z': ShiftTab,
}

var tildeKeys = map[string]Type{
	"1": Home,
	"7": Home,
	"4": End,
	"8": End,
	"3": Delete,
	"5": PageUp,
	"6": PageDown,
}

func decodeCSI(s string) (Key, int) {
	// parameters are digits and ';', the final byte is in 0x40..0x7e
	i := 2
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == ';') {
		i++
	}
	if i >= len(s) {
		return Key{Type: Unknown}, len(s)
	}
	params, final := s[2:i], s[i]
	n := i + 1

	if final == '~' {
		if t, ok := tildeKeys[params]; ok {
			return Key{Type: t}, n
		}
		return Key{Type: Unknown}, n
	}

	t, ok := finalKeys[final]
	if !ok {
		return Key{Type: Unknown}, n
	}

	// modifiers: 1;5 is ctrl, 1;3 is alt
	switch params {
	case "1;5", "5":
		switch t {
		case Left:
			return Key{Type: CtrlLeft}, n
		case Right:
			return Key{Type: CtrlRight}, n
		}
	case "1;3", "3":
		return Key{Type: t, Alt: true}, n
	}
	return Key{Type: t}, n
}
