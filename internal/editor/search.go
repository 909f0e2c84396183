package editor

import (
	"sort"
	"unicode"
)

// Match is an occurrence of a query. Col and Length count runes.
type Match struct {
	Row, Col, Length int
}

func (m Match) Start() Position { return Position{Row: m.Row, Col: m.Col} }

// FindAll returns every case-insensitive occurrence of query in reading
// order. The scan resumes one rune after each match start, so overlapping
// occurrences are all reported.
func FindAll(lines []string, query string) []Match {
	q := fold([]rune(query))
	if len(q) == 0 {
		return nil
	}

	var matches []Match
	for row, line := range lines {
		l := fold([]rune(line))
		for col := 0; col+len(q) <= len(l); col++ {
			if equalRunes(l[col:col+len(q)], q) {
				matches = append(matches, Match{Row: row, Col: col, Length: len(q)})
			}
		}
	}
	return matches
}

// FindNext returns the index of the first match at or after pos, wrapping
// to the first match. It returns -1 when there are no matches.
func FindNext(matches []Match, pos Position) int {
	if len(matches) == 0 {
		return -1
	}
	for i, m := range matches {
		if !m.Start().Less(pos) {
			return i
		}
	}
	return 0
}

// FindPrev returns the index of the last match strictly before pos,
// wrapping to the last match.
func FindPrev(matches []Match, pos Position) int {
	if len(matches) == 0 {
		return -1
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Start().Less(pos) {
			return i
		}
	}
	return len(matches) - 1
}

// ReplaceOne splices replacement over m if the text under m still matches
// query. It reports whether the document changed.
func (d *Document) ReplaceOne(m Match, query, replacement string) bool {
	if !d.matchesAt(m, query) {
		return false
	}
	d.ReplaceSpan(m.Row, m.Col, m.Length, replacement)
	return true
}

// ReplaceAll replaces matches from the last to the first so that earlier
// offsets stay valid. Matches overlapping an already replaced span are
// skipped. The replacements form a single undo step.
func (d *Document) ReplaceAll(matches []Match, query, replacement string) int {
	ordered := append([]Match(nil), matches...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[j].Start().Less(ordered[i].Start())
	})

	cursor := d.cursor
	d.BeginGroup()
	defer d.EndGroup()

	count := 0
	limitRow, limitCol := -1, 0
	for _, m := range ordered {
		if m.Row == limitRow && m.Col+m.Length > limitCol {
			continue
		}
		if !d.ReplaceOne(m, query, replacement) {
			continue
		}
		limitRow, limitCol = m.Row, m.Col
		count++
	}

	if count > 0 {
		d.SetCursor(cursor.Row, cursor.Col)
		d.undo[len(d.undo)-1].After = d.cursor
		d.selection = nil
	}
	return count
}

func (d *Document) matchesAt(m Match, query string) bool {
	if m.Row < 0 || m.Row >= len(d.lines) {
		return false
	}
	line := fold([]rune(d.lines[m.Row]))
	q := fold([]rune(query))
	if len(q) != m.Length || m.Col < 0 || m.Col+m.Length > len(line) {
		return false
	}
	return equalRunes(line[m.Col:m.Col+m.Length], q)
}

func fold(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[i] = unicode.ToLower(c)
	}
	return out
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
