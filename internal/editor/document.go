package editor

import (
	"strings"
	"unicode"
)

// Position is a cursor location. Col counts runes.
type Position struct {
	Row, Col int
}

// Less orders positions in reading order.
func (p Position) Less(o Position) bool {
	return p.Row < o.Row || p.Row == o.Row && p.Col < o.Col
}

// Range is a span on a single row, [Start.Col, End.Col).
type Range struct {
	Start, End Position
}

// OpKind identifies an edit of the undo log.
type OpKind int

const (
	InsertChar OpKind = iota // insert Text (no newline) at Row/Col
	InsertLine               // split the line at Row/Col
	DeleteChar               // remove Text at Row/Col
	DeleteLine               // join Row with the next line, Col is the join column
	Replace                  // swap Old for Text at Row/Col
)

// Op is a reversible edit. Before and After are the cursor positions around
// the forward edit; undo restores Before and redo restores After.
type Op struct {
	Kind   OpKind
	Row    int
	Col    int
	Text   string
	Old    string
	Before Position
	After  Position
	Group  int // ops sharing a non-zero group are undone together
}

// Document is a line buffer with a cursor, a scroll offset and an undo log.
type Document struct {
	lines     []string
	cursor    Position
	top       int
	selection *Range
	modified  bool

	undo  []Op
	redo  []Op
	group int
	open  int // current group, 0 outside BeginGroup/EndGroup
}

// NewDocument splits content into lines. An empty content is one empty line.
func NewDocument(content string) *Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return &Document{lines: strings.Split(content, "\n")}
}

// Text joins the lines back with "\n".
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

func (d *Document) Lines() []string {
	return d.lines
}

func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

func (d *Document) Cursor() Position {
	return d.cursor
}

// Top returns the first visible line.
func (d *Document) Top() int {
	return d.top
}

func (d *Document) Modified() bool {
	return d.modified
}

// MarkSaved clears the modified flag.
func (d *Document) MarkSaved() {
	d.modified = false
}

func (d *Document) Selection() *Range {
	return d.selection
}

func (d *Document) SetSelection(r *Range) {
	d.selection = r
}

func (d *Document) CanUndo() bool { return len(d.undo) > 0 }
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

func (d *Document) lineLen(row int) int {
	return len([]rune(d.lines[row]))
}

// SetCursor moves the cursor, clamping it to the buffer.
func (d *Document) SetCursor(row, col int) {
	row = clamp(row, 0, len(d.lines)-1)
	col = clamp(col, 0, d.lineLen(row))
	d.cursor = Position{Row: row, Col: col}
}

// cursor movement

func (d *Document) MoveUp() {
	d.SetCursor(d.cursor.Row-1, d.cursor.Col)
}

func (d *Document) MoveDown() {
	d.SetCursor(d.cursor.Row+1, d.cursor.Col)
}

func (d *Document) MoveLeft() {
	switch {
	case d.cursor.Col > 0:
		d.cursor.Col--
	case d.cursor.Row > 0:
		d.SetCursor(d.cursor.Row-1, d.lineLen(d.cursor.Row-1))
	}
}

func (d *Document) MoveRight() {
	switch {
	case d.cursor.Col < d.lineLen(d.cursor.Row):
		d.cursor.Col++
	case d.cursor.Row < len(d.lines)-1:
		d.SetCursor(d.cursor.Row+1, 0)
	}
}

func (d *Document) MoveHome() {
	d.cursor.Col = 0
}

func (d *Document) MoveEnd() {
	d.cursor.Col = d.lineLen(d.cursor.Row)
}

func (d *Document) PageUp(rows int) {
	d.SetCursor(d.cursor.Row-max(rows, 1), d.cursor.Col)
}

func (d *Document) PageDown(rows int) {
	d.SetCursor(d.cursor.Row+max(rows, 1), d.cursor.Col)
}

// WordLeft moves to the start of the previous word, crossing line bounds.
func (d *Document) WordLeft() {
	if d.cursor.Col == 0 {
		d.MoveLeft()
		return
	}
	line := []rune(d.lines[d.cursor.Row])
	col := d.cursor.Col
	for col > 0 && !isWordRune(line[col-1]) {
		col--
	}
	for col > 0 && isWordRune(line[col-1]) {
		col--
	}
	d.cursor.Col = col
}

// WordRight moves past the end of the next word, crossing line bounds.
func (d *Document) WordRight() {
	line := []rune(d.lines[d.cursor.Row])
	if d.cursor.Col == len(line) {
		d.MoveRight()
		return
	}
	col := d.cursor.Col
	for col < len(line) && !isWordRune(line[col]) {
		col++
	}
	for col < len(line) && isWordRune(line[col]) {
		col++
	}
	d.cursor.Col = col
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// EnsureVisible scrolls by the minimal amount that keeps the cursor row
// within the viewport.
func (d *Document) EnsureVisible(viewportRows int) {
	if viewportRows < 1 {
		viewportRows = 1
	}
	switch {
	case d.cursor.Row < d.top:
		d.top = d.cursor.Row
	case d.cursor.Row >= d.top+viewportRows:
		d.top = d.cursor.Row - viewportRows + 1
	}
	d.top = clamp(d.top, 0, max(len(d.lines)-1, 0))
}

// edits

// InsertText inserts s, which must not contain a newline, at the cursor.
func (d *Document) InsertText(s string) {
	if s == "" {
		return
	}
	c := d.cursor
	d.record(Op{
		Kind: InsertChar, Row: c.Row, Col: c.Col, Text: s,
		Before: c, After: Position{Row: c.Row, Col: c.Col + len([]rune(s))},
	})
}

func (d *Document) InsertChar(r rune) {
	d.InsertText(string(r))
}

// InsertNewline splits the current line at the cursor.
func (d *Document) InsertNewline() {
	c := d.cursor
	d.record(Op{Kind: InsertLine, Row: c.Row, Col: c.Col, Before: c, After: Position{Row: c.Row + 1}})
}

// DeleteBack removes the rune before the cursor, joining with the previous
// line at column 0.
func (d *Document) DeleteBack() {
	c := d.cursor
	switch {
	case c.Col > 0:
		r := []rune(d.lines[c.Row])[c.Col-1]
		at := Position{Row: c.Row, Col: c.Col - 1}
		d.record(Op{Kind: DeleteChar, Row: at.Row, Col: at.Col, Text: string(r), Before: c, After: at})
	case c.Row > 0:
		at := Position{Row: c.Row - 1, Col: d.lineLen(c.Row - 1)}
		d.record(Op{Kind: DeleteLine, Row: at.Row, Col: at.Col, Before: c, After: at})
	}
}

// DeleteForward removes the rune under the cursor, joining with the next
// line at the end of a line.
func (d *Document) DeleteForward() {
	c := d.cursor
	switch {
	case c.Col < d.lineLen(c.Row):
		r := []rune(d.lines[c.Row])[c.Col]
		d.record(Op{Kind: DeleteChar, Row: c.Row, Col: c.Col, Text: string(r), Before: c, After: c})
	case c.Row < len(d.lines)-1:
		d.record(Op{Kind: DeleteLine, Row: c.Row, Col: c.Col, Before: c, After: c})
	}
}

// ReplaceSpan swaps length runes at row/col for text, leaving the cursor
// after the replacement.
func (d *Document) ReplaceSpan(row, col, length int, text string) {
	line := []rune(d.lines[row])
	old := string(line[col : col+length])
	d.record(Op{
		Kind: Replace, Row: row, Col: col, Text: text, Old: old,
		Before: d.cursor, After: Position{Row: row, Col: col + len([]rune(text))},
	})
}

// BeginGroup starts an undo group: every edit until EndGroup is undone and
// redone as a single step.
func (d *Document) BeginGroup() {
	d.group++
	d.open = d.group
}

func (d *Document) EndGroup() {
	d.open = 0
}

func (d *Document) record(op Op) {
	op.Group = d.open
	d.apply(op, false)
	d.cursor = op.After
	d.undo = append(d.undo, op)
	d.redo = d.redo[:0]
	d.modified = true
}

// Undo reverts the newest edit (or group of edits). It reports whether
// anything was undone.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	group := d.undo[len(d.undo)-1].Group
	for len(d.undo) > 0 {
		op := d.undo[len(d.undo)-1]
		if op.Group != group {
			break
		}
		d.undo = d.undo[:len(d.undo)-1]
		d.apply(op, true)
		d.cursor = op.Before
		d.redo = append(d.redo, op)
		if group == 0 {
			break
		}
	}
	d.selection = nil
	d.modified = true
	return true
}

// Redo reapplies the newest undone edit (or group of edits).
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	group := d.redo[len(d.redo)-1].Group
	for len(d.redo) > 0 {
		op := d.redo[len(d.redo)-1]
		if op.Group != group {
			break
		}
		d.redo = d.redo[:len(d.redo)-1]
		d.apply(op, false)
		d.cursor = op.After
		d.undo = append(d.undo, op)
		if group == 0 {
			break
		}
	}
	d.selection = nil
	d.modified = true
	return true
}

// apply performs op, or its inverse when inverse is set.
func (d *Document) apply(op Op, inverse bool) {
	kind := op.Kind
	if inverse {
		switch kind {
		case InsertChar:
			kind = DeleteChar
		case DeleteChar:
			kind = InsertChar
		case InsertLine:
			kind = DeleteLine
		case DeleteLine:
			kind = InsertLine
		}
	}

	line := []rune(d.lines[op.Row])
	switch kind {
	case InsertChar:
		d.lines[op.Row] = string(line[:op.Col]) + op.Text + string(line[op.Col:])
	case DeleteChar:
		n := len([]rune(op.Text))
		d.lines[op.Row] = string(line[:op.Col]) + string(line[op.Col+n:])
	case InsertLine:
		head, tail := string(line[:op.Col]), string(line[op.Col:])
		d.lines[op.Row] = head
		d.lines = append(d.lines[:op.Row+1], append([]string{tail}, d.lines[op.Row+1:]...)...)
	case DeleteLine:
		d.lines[op.Row] = string(line) + d.lines[op.Row+1]
		d.lines = append(d.lines[:op.Row+1], d.lines[op.Row+2:]...)
	case Replace:
		from, to := op.Old, op.Text
		if inverse {
			from, to = op.Text, op.Old
		}
		n := len([]rune(from))
		d.lines[op.Row] = string(line[:op.Col]) + to + string(line[op.Col+n:])
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
