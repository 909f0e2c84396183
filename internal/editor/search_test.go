package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		query    string
		expected []Match
	}{
		{"repeated", []string{"abcabc"}, "abc", []Match{{0, 0, 3}, {0, 3, 3}}},
		{"overlapping", []string{"aaaa"}, "aa", []Match{{0, 0, 2}, {0, 1, 2}, {0, 2, 2}}},
		{"case insensitive", []string{"Go go GO"}, "go", []Match{{0, 0, 2}, {0, 3, 2}, {0, 6, 2}}},
		{"several lines", []string{"x", "ax", "héx"}, "x", []Match{{0, 0, 1}, {1, 1, 1}, {2, 2, 1}}},
		{"empty query", []string{"abc"}, "", nil},
		{"no match", []string{"abc"}, "zz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindAll(tt.lines, tt.query))
		})
	}
}

func TestFindNextAndPrevWrap(t *testing.T) {
	matches := []Match{{0, 2, 1}, {1, 0, 1}, {3, 5, 1}}

	assert.Equal(t, 0, FindNext(matches, Position{0, 0}))
	assert.Equal(t, 0, FindNext(matches, Position{0, 2}))
	assert.Equal(t, 1, FindNext(matches, Position{0, 3}))
	assert.Equal(t, 0, FindNext(matches, Position{3, 6}), "wraps to the first")

	assert.Equal(t, 1, FindPrev(matches, Position{3, 5}))
	assert.Equal(t, 2, FindPrev(matches, Position{0, 2}), "wraps to the last")

	assert.Equal(t, -1, FindNext(nil, Position{}))
	assert.Equal(t, -1, FindPrev(nil, Position{}))
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		content, query, replacement, expected string
		count                                 int
	}{
		{"abcabc", "abc", "X", "XX", 2},
		{"aaaa", "aa", "X", "XX", 2},
		{"one Two\ntwo two", "two", "2", "one 2\n2 2", 3},
		{"abc", "abc", "abcabc", "abcabc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			d := NewDocument(tt.content)
			n := d.ReplaceAll(FindAll(d.Lines(), tt.query), tt.query, tt.replacement)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, tt.expected, d.Text())

			// one undo step restores everything
			assert.True(t, d.Undo())
			assert.Equal(t, tt.content, d.Text())
			assert.False(t, d.CanUndo())

			assert.True(t, d.Redo())
			assert.Equal(t, tt.expected, d.Text())
		})
	}
}

func TestReplaceOneChecksText(t *testing.T) {
	d := NewDocument("hello world")
	m := FindAll(d.Lines(), "world")[0]

	assert.True(t, d.ReplaceOne(m, "world", "there"))
	assert.Equal(t, "hello there", d.Text())
	assert.Equal(t, Position{Row: 0, Col: 11}, d.Cursor())

	assert.False(t, d.ReplaceOne(m, "world", "again"), "stale match")
	assert.Equal(t, "hello there", d.Text())
}
