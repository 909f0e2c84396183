package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func names(ks []Key) []string {
	var out []string
	for _, k := range ks {
		out = append(out, k.String())
	}
	return out
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"printable", "ls", []string{"l", "s"}},
		{"utf8", "é", []string{"é"}},
		{"enter cr", "\r", []string{"enter"}},
		{"enter crlf", "\r\n", []string{"enter"}},
		{"enter lf", "\n", []string{"enter"}},
		{"ctrl keys", "\x03\x0c\x15\x17", []string{"ctrl+c", "ctrl+l", "ctrl+u", "ctrl+w"}},
		{"ctrl+h is not backspace", "\x08\x7f", []string{"ctrl+h", "backspace"}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []string{"up", "down", "right", "left"}},
		{"application cursor", "\x1bOA\x1bOH", []string{"up", "home"}},
		{"home end tilde", "\x1b[1~\x1b[4~", []string{"home", "end"}},
		{"paging and delete", "\x1b[5~\x1b[6~\x1b[3~", []string{"pgup", "pgdown", "delete"}},
		{"ctrl arrows", "\x1b[1;5C\x1b[1;5D", []string{"ctrl+right", "ctrl+left"}},
		{"lone escape", "\x1b", []string{"esc"}},
		{"alt rune", "\x1bb", []string{"alt+b"}},
		{"tab and shift tab", "\t\x1b[Z", []string{"tab", "shift+tab"}},
		{"unknown csi is swallowed", "\x1b[99zq", []string{"unknown", "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(Decode(tt.input)))
		})
	}
}

func TestKeyPrintable(t *testing.T) {
	ks := Decode("a\x01\x1bb ")
	assert.True(t, ks[0].IsPrintable())
	assert.False(t, ks[1].IsPrintable())
	assert.False(t, ks[2].IsPrintable())
	assert.True(t, ks[3].IsPrintable())
}

func TestKeyMatchesBinding(t *testing.T) {
	save := key.NewBinding(key.WithKeys("ctrl+s"))
	ks := Decode("\x13")
	assert.True(t, key.Matches(ks[0], save))
	assert.Equal(t, "\x13", ks[0].Bytes)
}
