package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const tabWidth = 8

type cell struct {
	r     rune
	style string // SGR sequence active when the rune was written
}

// Screen is a character grid fed with the output of a shell. It understands
// the sequences the shell, the editor and the ssh sessions emit: carriage
// return, line feed, backspace, tab, cursor movement and positioning,
// erasing, SGR attributes, cursor save/restore and cursor visibility.
type Screen struct {
	rows, cols int
	grid       [][]cell

	row, col     int
	wrapPending  bool
	style        string
	savedRow     int
	savedCol     int
	cursorHidden bool

	// pending holds an escape sequence split across two writes.
	pending string
}

func NewScreen(rows, cols int) *Screen {
	s := &Screen{}
	s.Resize(rows, cols)
	return s
}

// Resize keeps the top left part of the content.
func (s *Screen) Resize(rows, cols int) {
	rows, cols = max(rows, 1), max(cols, 1)
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = blankRow(cols)
		if i < len(s.grid) {
			copy(grid[i], s.grid[i])
		}
	}
	s.grid, s.rows, s.cols = grid, rows, cols
	s.row, s.col = min(s.row, rows-1), min(s.col, cols-1)
	s.wrapPending = false
}

func blankRow(cols int) []cell {
	row := make([]cell, cols)
	for i := range row {
		row[i] = cell{r: ' '}
	}
	return row
}

// Cursor returns the zero based cursor position.
func (s *Screen) Cursor() (row, col int) { return s.row, s.col }

// Write interprets data.
func (s *Screen) Write(data string) {
	data = s.pending + data
	s.pending = ""

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '\x1b':
			n, ok := s.escape(data[i:])
			if !ok {
				s.pending = data[i:]
				return
			}
			i += n
			continue
		case c == '\r':
			s.col, s.wrapPending = 0, false
		case c == '\n':
			s.lineFeed()
		case c == '\b':
			if s.col > 0 {
				s.col--
			}
			s.wrapPending = false
		case c == '\t':
			s.col = min((s.col/tabWidth+1)*tabWidth, s.cols-1)
		case c < ' ' || c == 0x7f:
			// other control characters are ignored
		default:
			r, n := utf8.DecodeRuneInString(data[i:])
			s.put(r)
			i += n
			continue
		}
		i++
	}
}

func (s *Screen) put(r rune) {
	if s.wrapPending {
		s.col = 0
		s.lineFeed()
	}
	s.grid[s.row][s.col] = cell{r: r, style: s.style}
	if s.col == s.cols-1 {
		s.wrapPending = true
		return
	}
	s.col++
}

func (s *Screen) lineFeed() {
	s.wrapPending = false
	if s.row < s.rows-1 {
		s.row++
		return
	}
	copy(s.grid, s.grid[1:])
	s.grid[s.rows-1] = blankRow(s.cols)
}

// escape handles the sequence at the start of seq and returns its length.
// ok is false when seq is incomplete.
func (s *Screen) escape(seq string) (n int, ok bool) {
	if len(seq) < 2 {
		return 0, false
	}
	switch seq[1] {
	case '[':
	case '7':
		s.savedRow, s.savedCol = s.row, s.col
		return 2, true
	case '8':
		s.row, s.col = s.savedRow, s.savedCol
		return 2, true
	default:
		return 2, true
	}

	i := 2
	for i < len(seq) && (seq[i] >= '0' && seq[i] <= '9' || seq[i] == ';' || seq[i] == '?') {
		i++
	}
	if i >= len(seq) {
		return 0, false
	}
	s.csi(seq[2:i], seq[i])
	return i + 1, true
}

func (s *Screen) csi(params string, final byte) {
	private := strings.HasPrefix(params, "?")
	if private {
		if params == "?25" {
			s.cursorHidden = final == 'l'
		}
		return
	}

	args := parseParams(params)
	arg := func(i, def int) int {
		if i < len(args) && args[i] > 0 {
			return args[i]
		}
		return def
	}
	if final != 'm' {
		s.wrapPending = false
	}

	switch final {
	case 'A':
		s.row = max(0, s.row-arg(0, 1))
	case 'B':
		s.row = min(s.rows-1, s.row+arg(0, 1))
	case 'C':
		s.col = min(s.cols-1, s.col+arg(0, 1))
	case 'D':
		s.col = max(0, s.col-arg(0, 1))
	case 'E':
		s.row, s.col = min(s.rows-1, s.row+arg(0, 1)), 0
	case 'G':
		s.col = min(s.cols, arg(0, 1)) - 1
	case 'H', 'f':
		s.row = min(s.rows, arg(0, 1)) - 1
		s.col = min(s.cols, arg(1, 1)) - 1
	case 'J':
		s.eraseDisplay(arg(0, 0))
	case 'K':
		s.eraseLine(s.row, arg(0, 0))
	case 'm':
		if params == "" || params == "0" {
			s.style = ""
		} else {
			s.style += "\x1b[" + params + "m"
		}
	case 's':
		s.savedRow, s.savedCol = s.row, s.col
	case 'u':
		s.row, s.col = s.savedRow, s.savedCol
	}
}

func parseParams(params string) []int {
	if params == "" {
		return nil
	}
	fields := strings.Split(params, ";")
	out := make([]int, len(fields))
	for i, f := range fields {
		out[i], _ = strconv.Atoi(f)
	}
	return out
}

// eraseDisplay follows ED: 0 erases below the cursor, 1 above, 2 all.
func (s *Screen) eraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLine(s.row, 0)
		for r := s.row + 1; r < s.rows; r++ {
			s.grid[r] = blankRow(s.cols)
		}
	case 1:
		for r := 0; r < s.row; r++ {
			s.grid[r] = blankRow(s.cols)
		}
		s.eraseLine(s.row, 1)
	case 2, 3:
		for r := range s.grid {
			s.grid[r] = blankRow(s.cols)
		}
	}
}

// eraseLine follows EL: 0 erases right of the cursor, 1 left, 2 the line.
func (s *Screen) eraseLine(row, mode int) {
	from, to := 0, s.cols
	switch mode {
	case 0:
		from = s.col
	case 1:
		to = s.col + 1
	}
	for c := from; c < to; c++ {
		s.grid[row][c] = cell{r: ' '}
	}
}

// Lines returns the text of every row without attributes or trailing
// blanks.
func (s *Screen) Lines() []string {
	out := make([]string, s.rows)
	for i, row := range s.grid {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.r)
		}
		out[i] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// Render returns the rows with their attributes, the cursor shown reversed.
func (s *Screen) Render() string {
	var sb strings.Builder
	for r, row := range s.grid {
		if r > 0 {
			sb.WriteByte('\n')
		}
		current := ""
		for c, cl := range row {
			style := cl.style
			if !s.cursorHidden && r == s.row && c == s.col {
				style += "\x1b[7m"
			}
			if style != current {
				sb.WriteString("\x1b[0m")
				sb.WriteString(style)
				current = style
			}
			sb.WriteRune(cl.r)
		}
		if current != "" {
			sb.WriteString("\x1b[0m")
		}
	}
	return sb.String()
}
