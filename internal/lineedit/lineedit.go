// Package lineedit is the single line input buffer behind the shell and
// remote session prompts.
package lineedit

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"deskshell/internal/term"
)

// Buffer holds the line being typed and the cursor, as a rune offset.
type Buffer struct {
	line   []rune
	cursor int

	// screen position of the last render, relative to the prompt's first
	// row: the cursor and the end of the text
	row, col       int
	endRow, endCol int
}

func (b *Buffer) String() string { return string(b.line) }
func (b *Buffer) Cursor() int    { return b.cursor }
func (b *Buffer) Len() int       { return len(b.line) }

// Set replaces the line and moves the cursor to its end.
func (b *Buffer) Set(s string) {
	b.line = []rune(s)
	b.cursor = len(b.line)
}

// SetWithCursor replaces the line, clamping cursor.
func (b *Buffer) SetWithCursor(s string, cursor int) {
	b.line = []rune(s)
	b.cursor = max(0, min(cursor, len(b.line)))
}

func (b *Buffer) Reset() {
	b.line = b.line[:0]
	b.cursor = 0
}

// Insert inserts s at the cursor.
func (b *Buffer) Insert(s string) {
	r := []rune(s)
	line := make([]rune, 0, len(b.line)+len(r))
	line = append(line, b.line[:b.cursor]...)
	line = append(line, r...)
	line = append(line, b.line[b.cursor:]...)
	b.line = line
	b.cursor += len(r)
}

// Backspace deletes the rune before the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.line = append(b.line[:b.cursor-1], b.line[b.cursor:]...)
	b.cursor--
	return true
}

// Delete deletes the rune under the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.line) {
		return false
	}
	b.line = append(b.line[:b.cursor], b.line[b.cursor+1:]...)
	return true
}

func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

func (b *Buffer) Right() bool {
	if b.cursor >= len(b.line) {
		return false
	}
	b.cursor++
	return true
}

func (b *Buffer) Home() { b.cursor = 0 }
func (b *Buffer) End()  { b.cursor = len(b.line) }

// KillToStart deletes everything before the cursor.
func (b *Buffer) KillToStart() {
	b.line = append([]rune(nil), b.line[b.cursor:]...)
	b.cursor = 0
}

// DeleteWordBack deletes the word before the cursor and the blanks after it.
func (b *Buffer) DeleteWordBack() {
	start := b.cursor
	for start > 0 && unicode.IsSpace(b.line[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(b.line[start-1]) {
		start--
	}
	b.line = append(b.line[:start], b.line[b.cursor:]...)
	b.cursor = start
}

// WordLeft moves to the start of the previous word.
func (b *Buffer) WordLeft() {
	for b.cursor > 0 && unicode.IsSpace(b.line[b.cursor-1]) {
		b.cursor--
	}
	for b.cursor > 0 && !unicode.IsSpace(b.line[b.cursor-1]) {
		b.cursor--
	}
}

// WordRight moves past the end of the next word.
func (b *Buffer) WordRight() {
	for b.cursor < len(b.line) && unicode.IsSpace(b.line[b.cursor]) {
		b.cursor++
	}
	for b.cursor < len(b.line) && !unicode.IsSpace(b.line[b.cursor]) {
		b.cursor++
	}
}

// Render redraws the prompt and the text, which wrap over as many rows of
// a cols wide terminal as they need, then puts the cursor at its offset.
// It starts from the position the previous Render left the cursor at.
func (b *Buffer) Render(prompt string, cols int) string {
	cols = max(cols, 1)
	var sb strings.Builder
	term.MoveCursorUp(&sb, b.row)
	sb.WriteString("\r")
	term.ClearScreenDown(&sb)
	sb.WriteString(prompt)
	sb.WriteString(string(b.line))

	promptWidth := ansi.StringWidth(prompt)
	end := promptWidth + ansi.StringWidth(string(b.line))
	if end > 0 && end%cols == 0 {
		// leave the pending wrap so that the cursor sits on the next row
		sb.WriteString(term.Newline)
	}
	b.endRow, b.endCol = end/cols, end%cols

	at := promptWidth + ansi.StringWidth(string(b.line[:b.cursor]))
	b.row, b.col = at/cols, at%cols
	if b.row == b.endRow {
		term.MoveCursorBack(&sb, b.endCol-b.col)
	} else {
		term.MoveCursorUp(&sb, b.endRow-b.row)
		sb.WriteString("\r")
		term.MoveCursorForward(&sb, b.col)
	}
	return sb.String()
}

// Leave moves the cursor past the end of the rendered text, writes suffix
// and starts a new terminal line. The next Render starts from there.
func (b *Buffer) Leave(suffix string) string {
	var sb strings.Builder
	if b.endRow > b.row {
		term.MoveCursorDown(&sb, b.endRow-b.row)
		sb.WriteString("\r")
		term.MoveCursorForward(&sb, b.endCol)
	} else {
		term.MoveCursorForward(&sb, b.endCol-b.col)
	}
	sb.WriteString(suffix)
	sb.WriteString(term.Newline)
	b.Forget()
	return sb.String()
}

// Forget drops the position of the last render, for when the terminal
// cursor moved elsewhere, for example after clearing the screen.
func (b *Buffer) Forget() {
	b.row, b.col, b.endRow, b.endCol = 0, 0, 0, 0
}
