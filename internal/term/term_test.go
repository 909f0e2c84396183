package term

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestSequences(t *testing.T) {
	tests := []struct {
		name     string
		write    func(*strings.Builder)
		expected string
	}{
		{"move", func(b *strings.Builder) { MoveCursor(b, 3, 7) }, "\x1b[3;7H"},
		{"clear screen", func(b *strings.Builder) { ClearScreen(b) }, "\x1b[2J\x1b[1;1H"},
		{"clear line", func(b *strings.Builder) { ClearLine(b) }, "\r\x1b[2K"},
		{"clear right", func(b *strings.Builder) { ClearLineRight(b) }, "\x1b[0K"},
		{"back", func(b *strings.Builder) { MoveCursorBack(b, 4) }, "\x1b[4D"},
		{"back zero", func(b *strings.Builder) { MoveCursorBack(b, 0) }, ""},
		{"forward", func(b *strings.Builder) { MoveCursorForward(b, 2) }, "\x1b[2C"},
		{"forward negative", func(b *strings.Builder) { MoveCursorForward(b, -1) }, ""},
		{"hide", func(b *strings.Builder) { HideCursor(b) }, "\x1b[?25l"},
		{"show", func(b *strings.Builder) { ShowCursor(b) }, "\x1b[?25h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			tt.write(&b)
			assert.Equal(t, tt.expected, b.String())
		})
	}
}

func TestColors(t *testing.T) {
	red := Color("error", Red)
	assert.NotEqual(t, "error", red)
	assert.Equal(t, "error", ansi.Strip(red))

	assert.Equal(t, "dir", ansi.Strip(Bold("dir", Blue)))
	assert.Contains(t, Bold("x", nil), "\x1b[1m")
}
