package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"deskshell/internal/keys"
	"deskshell/internal/term"
)

type keyMap struct {
	Interrupt   key.Binding
	Clear       key.Binding
	Kill        key.Binding
	DeleteWord  key.Binding
	Complete    key.Binding
	HistoryUp   key.Binding
	HistoryDown key.Binding
	Home        key.Binding
	End         key.Binding
	WordLeft    key.Binding
	WordRight   key.Binding
	DeleteChar  key.Binding
	Backspace   key.Binding
}

var bindings = keyMap{
	Interrupt:   key.NewBinding(key.WithKeys("ctrl+c")),
	Clear:       key.NewBinding(key.WithKeys("ctrl+l")),
	Kill:        key.NewBinding(key.WithKeys("ctrl+u")),
	DeleteWord:  key.NewBinding(key.WithKeys("ctrl+w")),
	Complete:    key.NewBinding(key.WithKeys("tab")),
	HistoryUp:   key.NewBinding(key.WithKeys("up", "ctrl+p")),
	HistoryDown: key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Home:        key.NewBinding(key.WithKeys("home", "ctrl+a")),
	End:         key.NewBinding(key.WithKeys("end", "ctrl+e")),
	WordLeft:    key.NewBinding(key.WithKeys("ctrl+left", "alt+b")),
	WordRight:   key.NewBinding(key.WithKeys("ctrl+right", "alt+f")),
	DeleteChar:  key.NewBinding(key.WithKeys("delete", "ctrl+d")),
	Backspace:   key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
}

// HandleInput processes raw terminal input. While a command owns the
// terminal the input is forwarded to it untouched, including whatever
// follows the key that started it.
func (s *Shell) HandleInput(data string) {
	if s.owner != nil {
		s.owner.HandleInput(data)
		return
	}

	ks := keys.Decode(data)
	for i, k := range ks {
		s.handleKey(k)
		if s.owner != nil && i+1 < len(ks) {
			var rest strings.Builder
			for _, k := range ks[i+1:] {
				rest.WriteString(k.Bytes)
			}
			s.owner.HandleInput(rest.String())
			return
		}
	}
}

func (s *Shell) handleKey(k keys.Key) {
	switch {
	case k.Type == keys.Enter:
		s.commit()
		return
	case key.Matches(k, bindings.Interrupt):
		s.output(s.line.Leave("^C"))
		s.line.Reset()
		s.navigating = false
	case key.Matches(k, bindings.Clear):
		var sb strings.Builder
		term.ClearScreen(&sb)
		s.output(sb.String())
		s.line.Forget()
	case key.Matches(k, bindings.Complete):
		s.complete()
	case key.Matches(k, bindings.HistoryUp):
		s.historyUp()
	case key.Matches(k, bindings.HistoryDown):
		s.historyDown()
	case key.Matches(k, bindings.Home):
		s.line.Home()
	case key.Matches(k, bindings.End):
		s.line.End()
	case key.Matches(k, bindings.WordLeft):
		s.line.WordLeft()
	case key.Matches(k, bindings.WordRight):
		s.line.WordRight()
	case k.Type == keys.Left:
		s.line.Left()
	case k.Type == keys.Right:
		s.line.Right()
	case key.Matches(k, bindings.Kill):
		s.edited()
		s.line.KillToStart()
	case key.Matches(k, bindings.DeleteWord):
		s.edited()
		s.line.DeleteWordBack()
	case key.Matches(k, bindings.DeleteChar):
		s.edited()
		s.line.Delete()
	case key.Matches(k, bindings.Backspace):
		s.edited()
		s.line.Backspace()
	case k.IsPrintable():
		s.edited()
		s.line.Insert(string(k.Rune))
	default:
		return
	}
	s.redraw()
}

// edited ends history navigation: the next Up starts again from the newest
// entry with the edited line as draft.
func (s *Shell) edited() {
	s.navigating = false
}

func (s *Shell) historyUp() {
	if !s.navigating {
		s.history.StartNavigation(s.line.String())
		s.navigating = true
	}
	if entry, ok := s.history.Up(); ok {
		s.line.Set(entry)
	}
}

func (s *Shell) historyDown() {
	if !s.navigating {
		return
	}
	if entry, ok := s.history.Down(); ok {
		s.line.Set(entry)
	}
}

func (s *Shell) complete() {
	res, ok := s.completer.Complete(s.line.String(), s.line.Cursor(), s.cwd, s.home)
	if !ok {
		return
	}
	s.edited()
	s.line.SetWithCursor(res.Line, res.Cursor)
	if len(res.Candidates) > 1 {
		s.output(s.line.Leave(""))
		s.print(s.columns(res.Candidates))
	}
}

// commit runs the line typed so far.
func (s *Shell) commit() {
	line := s.line.String()
	s.output(s.line.Leave(""))
	s.line.Reset()
	s.navigating = false

	s.history.Push(line)
	s.Run(line)
	if s.owner == nil {
		s.redraw()
	}
}

// columns lays names out in rows no wider than the terminal.
func (s *Shell) columns(names []string) string {
	width := 0
	for _, n := range names {
		width = max(width, ansi.StringWidth(n))
	}
	width += 2
	perRow := max(1, s.cols/width)

	var sb strings.Builder
	for i, n := range names {
		sb.WriteString(n)
		if (i+1)%perRow == 0 || i == len(names)-1 {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(strings.Repeat(" ", width-ansi.StringWidth(n)))
	}
	return sb.String()
}
