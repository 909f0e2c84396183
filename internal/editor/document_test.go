package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	d := NewDocument("abc\ndef")
	d.SetCursor(0, 1)

	d.InsertChar('X')
	d.InsertNewline()
	d.DeleteBack()
	d.MoveEnd()
	d.DeleteForward()
	d.DeleteBack()
	d.ReplaceSpan(0, 0, 2, "yy")
	d.InsertText("é!")

	require.Equal(t, "yyé!bdef", d.Text())
	final, finalCursor := d.Text(), d.Cursor()
	assert.Equal(t, Position{Row: 0, Col: 4}, finalCursor)

	for i := 0; i < 7; i++ {
		require.True(t, d.Undo(), "undo %d", i)
	}
	assert.False(t, d.CanUndo())
	assert.Equal(t, "abc\ndef", d.Text())
	assert.Equal(t, Position{Row: 0, Col: 1}, d.Cursor())

	for i := 0; i < 7; i++ {
		require.True(t, d.Redo(), "redo %d", i)
	}
	assert.False(t, d.CanRedo())
	assert.Equal(t, final, d.Text())
	assert.Equal(t, finalCursor, d.Cursor())
}

func TestUndoRedoRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		initial := "first line\n\tsecond\n\nlast"
		d := NewDocument(initial)

		edits := 0
		var afterLastEdit Position
		for i := 0; i < 60; i++ {
			before := len(d.undo)
			switch rng.Intn(9) {
			case 0, 1:
				d.InsertChar([]rune("aé\t ")[rng.Intn(4)])
			case 2:
				d.InsertNewline()
			case 3:
				d.DeleteBack()
			case 4:
				d.DeleteForward()
			case 5:
				d.MoveLeft()
			case 6:
				d.MoveRight()
			case 7:
				d.MoveUp()
			case 8:
				d.SetCursor(rng.Intn(d.LineCount()), rng.Intn(8))
			}
			if len(d.undo) > before {
				edits++
				afterLastEdit = d.Cursor()
			}
		}
		final := d.Text()

		for i := 0; i < edits; i++ {
			require.True(t, d.Undo())
		}
		require.Equal(t, initial, d.Text(), "round %d", round)

		for i := 0; i < edits; i++ {
			require.True(t, d.Redo())
		}
		require.Equal(t, final, d.Text(), "round %d", round)
		require.Equal(t, afterLastEdit, d.Cursor(), "round %d", round)
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	d := NewDocument("")
	d.InsertText("ab")
	d.Undo()
	require.True(t, d.CanRedo())

	d.InsertChar('z')
	assert.False(t, d.CanRedo())
	assert.Equal(t, "z", d.Text())
}

func TestCursorMovementAcrossLines(t *testing.T) {
	d := NewDocument("ab\ncdef\ng")

	d.SetCursor(1, 0)
	d.MoveLeft()
	assert.Equal(t, Position{Row: 0, Col: 2}, d.Cursor())

	d.MoveRight()
	assert.Equal(t, Position{Row: 1, Col: 0}, d.Cursor())

	d.MoveEnd()
	d.MoveDown()
	assert.Equal(t, Position{Row: 2, Col: 1}, d.Cursor(), "column is clamped")

	d.MoveDown()
	assert.Equal(t, Position{Row: 2, Col: 1}, d.Cursor())

	d.SetCursor(-4, 99)
	assert.Equal(t, Position{Row: 0, Col: 2}, d.Cursor())
}

func TestWordMovement(t *testing.T) {
	d := NewDocument("foo.bar  baz\nqux")
	d.WordRight()
	assert.Equal(t, 3, d.Cursor().Col)
	d.WordRight()
	assert.Equal(t, 7, d.Cursor().Col)
	d.WordRight()
	assert.Equal(t, 12, d.Cursor().Col)
	d.WordRight()
	assert.Equal(t, Position{Row: 1, Col: 0}, d.Cursor())

	d.WordLeft()
	assert.Equal(t, Position{Row: 0, Col: 12}, d.Cursor())
	d.WordLeft()
	assert.Equal(t, 9, d.Cursor().Col)
}

func TestEnsureVisibleScrollsMinimally(t *testing.T) {
	d := NewDocument("0\n1\n2\n3\n4\n5\n6\n7\n8\n9")

	d.SetCursor(5, 0)
	d.EnsureVisible(3)
	assert.Equal(t, 3, d.Top())

	d.SetCursor(4, 0)
	d.EnsureVisible(3)
	assert.Equal(t, 3, d.Top(), "cursor already visible")

	d.SetCursor(1, 0)
	d.EnsureVisible(3)
	assert.Equal(t, 1, d.Top())
}

func TestModifiedFlag(t *testing.T) {
	d := NewDocument("x")
	assert.False(t, d.Modified())
	d.InsertChar('y')
	assert.True(t, d.Modified())
	d.MarkSaved()
	assert.False(t, d.Modified())
}
