package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"deskshell/internal/highlight"
	"deskshell/internal/model"
	"deskshell/internal/term"
)

const tabWidth = 4

type styles struct {
	statusBar lipgloss.Style
	modeBar   lipgloss.Style
	flash     lipgloss.Style
	prompt    lipgloss.Style
	key       lipgloss.Style
	desc      lipgloss.Style
}

// newStyles renders with a fixed ANSI profile: the output goes to a remote
// terminal, not to the process stdout.
func newStyles() styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	return styles{
		statusBar: r.NewStyle().Reverse(true),
		modeBar:   r.NewStyle(),
		flash:     r.NewStyle().Reverse(true).Bold(true),
		prompt:    r.NewStyle().Bold(true),
		key:       r.NewStyle().Reverse(true),
		desc:      r.NewStyle(),
	}
}

func newHelp(s styles) help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Ellipsis = "…"
	h.Styles = help.Styles{
		Ellipsis:       s.desc,
		ShortKey:       s.key,
		ShortDesc:      s.desc,
		ShortSeparator: s.desc,
		FullKey:        s.key,
		FullDesc:       s.desc,
		FullSeparator:  s.desc,
	}
	return h
}

// segment is a run of text drawn with one style.
type segment struct {
	text  string
	style func(string) string
}

func plain(s string) string { return s }

func matchStyle(s string) string {
	return termenv.String(s).Reverse().String()
}

func currentMatchStyle(s string) string {
	return termenv.String(s).Background(termenv.ANSIYellow).Foreground(termenv.ANSIBlack).String()
}

func (e *Editor) gutterWidth() int {
	return len(fmt.Sprint(e.doc.LineCount())) + 2
}

func (e *Editor) render() {
	var b strings.Builder
	d := e.doc
	d.EnsureVisible(e.textRows())
	cur := d.Cursor()
	gutter := e.gutterWidth()
	width := max(e.cols-gutter, 1)
	top := d.Top()

	term.HideCursor(&b)
	term.MoveCursor(&b, 1, 1)
	b.WriteString(e.statusBar())

	cursorY, cursorX := 0, 0
	for i := 0; i < e.textRows(); i++ {
		row := top + i
		term.MoveCursor(&b, i+2, 1)
		if row >= d.LineCount() {
			b.WriteString(term.Color(model.IconPlaceholder, term.Gray))
			term.ClearLineRight(&b)
			continue
		}

		b.WriteString(term.Color(fmt.Sprintf("%*d ", gutter-1, row+1), term.Gray))

		left := 0
		if row == cur.Row {
			col := displayCol(d.Line(row), cur.Col)
			if col >= width {
				left = col - width + 1
			}
			cursorY, cursorX = i+2, gutter+col-left+1
		}
		for _, seg := range sliceSegments(e.lineSegments(row), left, width) {
			b.WriteString(seg.style(seg.text))
		}
		term.ClearLineRight(&b)
	}

	bar, barCursor := e.modeBar()
	term.MoveCursor(&b, e.rows, 1)
	b.WriteString(bar)

	if barCursor > 0 {
		term.MoveCursor(&b, e.rows, barCursor)
	} else {
		term.MoveCursor(&b, cursorY, cursorX)
	}
	term.ShowCursor(&b)

	e.output(b.String())
}

func (e *Editor) statusBar() string {
	left := " " + e.path
	if e.doc.Modified() {
		left += " " + model.IconModified
	}
	cur := e.doc.Cursor()
	right := fmt.Sprintf("Ln %d, Col %d ", cur.Row+1, cur.Col+1)

	space := e.cols - ansi.StringWidth(left) - ansi.StringWidth(right)
	if space < 1 {
		left = ansi.Truncate(left, max(e.cols-ansi.StringWidth(right)-1, 0), "…")
		space = e.cols - ansi.StringWidth(left) - ansi.StringWidth(right)
	}
	line := ansi.Truncate(left+strings.Repeat(" ", max(space, 0))+right, e.cols, "")
	return e.styles.statusBar.Width(e.cols).Render(line)
}

// modeBar returns the last row and, for modes reading input, the column of
// the input cursor.
func (e *Editor) modeBar() (string, int) {
	var (
		line   string
		cursor int
	)

	switch m := e.mode.(type) {
	case editMode:
		if e.flash != "" {
			line = e.styles.flash.Render(" " + e.flash + " ")
		} else {
			line = e.helpView(bindings.editHelp(), e.cols)
		}
	case *findMode:
		prompt := e.styles.prompt.Render("Search: ") + string(m.query)
		cursor = ansi.StringWidth(prompt) + 1
		line = prompt + "  " + matchCounter(m.matches, m.current)
		line += "  " + e.helpView(bindings.findHelp(), e.cols-ansi.StringWidth(line)-2)
	case *replaceMode:
		find := e.styles.prompt.Render("Search: ") + string(m.find)
		with := e.styles.prompt.Render("Replace with: ") + string(m.with)
		cursor = ansi.StringWidth(find) + 1
		if m.onWith {
			cursor += 2 + ansi.StringWidth(with)
		}
		line = find + "  " + with + "  " + matchCounter(m.matches, m.current)
		line += "  " + e.helpView(bindings.replaceHelp(), e.cols-ansi.StringWidth(line)-2)
	case *gotoMode:
		prompt := e.styles.prompt.Render("Go to line: ") + string(m.digits)
		cursor = ansi.StringWidth(prompt) + 1
		line = prompt + "  " + e.helpView(bindings.gotoHelp(), e.cols-ansi.StringWidth(prompt)-2)
	case quitConfirmMode:
		prompt := e.styles.prompt.Render("Save modified buffer?")
		line = prompt + "  " + e.helpView(bindings.quitHelp(), e.cols-ansi.StringWidth(prompt)-2)
	}

	if cursor > e.cols {
		cursor = e.cols
	}
	line = ansi.Truncate(line, e.cols, "")
	return e.styles.modeBar.Width(e.cols).Render(line), cursor
}

func (e *Editor) helpView(b []key.Binding, width int) string {
	if width <= 0 {
		return ""
	}
	e.help.Width = width
	return e.help.ShortHelpView(b)
}

func matchCounter(matches []Match, current int) string {
	switch {
	case len(matches) == 0:
		return "[no matches]"
	case current < 0:
		return fmt.Sprintf("[%d]", len(matches))
	}
	return fmt.Sprintf("[%d/%d]", current+1, len(matches))
}

// lineSegments returns the styled runs of a line: search matches while
// searching, syntax colors otherwise.
func (e *Editor) lineSegments(row int) []segment {
	line := e.doc.Line(row)

	var matches []Match
	switch m := e.mode.(type) {
	case *findMode:
		matches = m.matches
	case *replaceMode:
		matches = m.matches
	default:
		var segs []segment
		for _, s := range e.hl.Spans(line) {
			span := s
			segs = append(segs, segment{text: span.Text, style: func(t string) string {
				return highlight.Render([]highlight.Span{{Text: t, Class: span.Class}})
			}})
		}
		return segs
	}

	runes := []rune(line)
	marks := make([]int, len(runes))
	for _, m := range matches {
		if m.Row != row {
			continue
		}
		for i := m.Col; i < m.Col+m.Length && i < len(marks); i++ {
			marks[i] = 1
		}
	}
	if sel := e.doc.Selection(); sel != nil && sel.Start.Row == row {
		for i := sel.Start.Col; i < sel.End.Col && i < len(marks); i++ {
			marks[i] = 2
		}
	}

	styleOf := [...]func(string) string{plain, matchStyle, currentMatchStyle}
	var segs []segment
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && marks[j] == marks[i] {
			j++
		}
		segs = append(segs, segment{text: string(runes[i:j]), style: styleOf[marks[i]]})
		i = j
	}
	return segs
}

// sliceSegments expands tabs and keeps the cells in [left, left+width).
func sliceSegments(segs []segment, left, width int) []segment {
	var out []segment
	pos := 0
	for _, s := range segs {
		text := []rune(strings.ReplaceAll(s.text, "\t", strings.Repeat(" ", tabWidth)))
		start, end := pos, pos+len(text)
		pos = end

		from, to := max(start, left), min(end, left+width)
		if from >= to {
			continue
		}
		out = append(out, segment{text: string(text[from-start : to-start]), style: s.style})
	}
	return out
}

// displayCol is the screen column of rune offset col once tabs are expanded.
func displayCol(line string, col int) int {
	n := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			n += tabWidth
		} else {
			n++
		}
	}
	return n
}
