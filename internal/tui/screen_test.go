package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenText(t *testing.T) {
	s := NewScreen(4, 20)
	s.Write("hello\r\nworld")
	assert.Equal(t, []string{"hello", "world", "", ""}, s.Lines())
	row, col := s.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 5, col)

	s.Write("\b\bX\tY")
	assert.Equal(t, "worXd   Y", s.Lines()[1])
}

func TestScreenWrap(t *testing.T) {
	s := NewScreen(3, 5)
	s.Write("abcdefg")
	assert.Equal(t, []string{"abcde", "fg", ""}, s.Lines())

	s = NewScreen(3, 5)
	s.Write("abcde\r\nx")
	assert.Equal(t, []string{"abcde", "x", ""}, s.Lines(), "a full line does not wrap twice")
}

func TestScreenScrolls(t *testing.T) {
	s := NewScreen(2, 10)
	s.Write("a\r\nb\r\nc")
	assert.Equal(t, []string{"b", "c"}, s.Lines())
}

func TestScreenControlSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clear and home", "junk\x1b[2J\x1b[1;1Hxy", "xy"},
		{"column", "xy\x1b[1Gz", "zy"},
		{"erase right", "abc\x1b[2D\x1b[K", "a"},
		{"erase left", "abc\x1b[2D\x1b[1K", "  c"},
		{"erase line", "abc\x1b[2K", ""},
		{"forward", "a\x1b[3Cb", "a   b"},
		{"save and restore", "ab\x1b[s\x1b[1;10Hz\x1b[uc", "abc      z"},
		{"colors are not text", "\x1b[1;34mblue\x1b[0m", "blue"},
		{"carriage return redraw", "$ ech\r\x1b[K$ echo", "$ echo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(3, 20)
			s.Write(tt.input)
			assert.Equal(t, tt.expected, s.Lines()[0])
		})
	}
}

func TestScreenCursorMovement(t *testing.T) {
	s := NewScreen(5, 10)
	s.Write("\x1b[3;4H")
	row, col := s.Cursor()
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, col)

	s.Write("\x1b[A\x1b[2D")
	row, col = s.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	s.Write("\x1b[9B\x1b[99C")
	row, col = s.Cursor()
	assert.Equal(t, 4, row, "clamped to the last row")
	assert.Equal(t, 9, col)

	s.Write("\x1b[E")
	row, col = s.Cursor()
	assert.Equal(t, 4, row)
	assert.Equal(t, 0, col)
}

func TestScreenSplitSequence(t *testing.T) {
	s := NewScreen(2, 10)
	s.Write("old")
	s.Write("\x1b[")
	assert.Equal(t, "old", s.Lines()[0])
	s.Write("2J\x1b[Hnew")
	assert.Equal(t, "new", s.Lines()[0])
}

func TestScreenRender(t *testing.T) {
	s := NewScreen(1, 6)
	s.Write("\x1b[1mA\x1b[0mB")
	out := s.Render()
	assert.Contains(t, out, "\x1b[1mA")
	assert.Contains(t, out, "\x1b[7m ", "the cursor is drawn reversed")

	s.Write("\x1b[?25l")
	assert.NotContains(t, s.Render(), "\x1b[7m")
	s.Write("\x1b[?25h")
	assert.Contains(t, s.Render(), "\x1b[7m")
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(3, 10)
	s.Write("first\r\nsecond\r\nthird")
	s.Resize(2, 4)
	assert.Equal(t, []string{"firs", "seco"}, s.Lines())
	row, col := s.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 3, col)

	s.Resize(3, 8)
	assert.Equal(t, "firs", s.Lines()[0])
	assert.Equal(t, 3, len(s.Lines()))
	assert.Equal(t, strings.Repeat(" ", 8), strings.Split(s.Render(), "\n")[2], "blank rows are padded")
}
