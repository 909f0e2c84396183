// Package editor implements the full screen modal text editor started by the
// shell's edit command.
package editor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/rs/zerolog"

	"deskshell/internal/highlight"
	"deskshell/internal/keys"
	"deskshell/internal/sched"
	"deskshell/internal/vfs"
)

// FlashDuration is how long a status message stays on the mode bar.
const FlashDuration = 2 * time.Second

// Mode is the tag of the active editor mode.
type Mode int

const (
	ModeEdit Mode = iota
	ModeFind
	ModeReplace
	ModeGoto
	ModeQuitConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeFind:
		return "find"
	case ModeReplace:
		return "replace"
	case ModeGoto:
		return "goto"
	case ModeQuitConfirm:
		return "quit-confirm"
	}
	return "edit"
}

// mode is the active mode together with its own state. Exactly one is
// active at a time.
type mode interface {
	tag() Mode
}

type editMode struct{}

type findMode struct {
	origin  Position
	query   []rune
	matches []Match
	current int
}

type replaceMode struct {
	origin  Position
	find    []rune
	with    []rune
	onWith  bool
	matches []Match
	current int
}

type gotoMode struct {
	digits []rune
}

type quitConfirmMode struct{}

func (editMode) tag() Mode        { return ModeEdit }
func (*findMode) tag() Mode       { return ModeFind }
func (*replaceMode) tag() Mode    { return ModeReplace }
func (*gotoMode) tag() Mode       { return ModeGoto }
func (quitConfirmMode) tag() Mode { return ModeQuitConfirm }

// Saver writes the buffer back, see vfs.Provider.
type Saver interface {
	Write(path, content string) error
}

type Options struct {
	Path      string
	Content   string
	FS        Saver
	Scheduler sched.Scheduler
	Output    func(string) // receives whole screen redraws
	OnExit    func()       // called once, after the editor released the screen
	Logger    zerolog.Logger
	Rows      int
	Cols      int
}

// Editor owns the terminal while a file is being edited.
type Editor struct {
	path   string
	doc    *Document
	hl     *highlight.Highlighter
	fs     Saver
	sched  sched.Scheduler
	output func(string)
	onExit func()
	logger zerolog.Logger

	rows, cols int
	mode       mode

	flash       string
	flashGen    int
	cancelFlash func()

	styles styles
	help   help.Model
	closed bool
}

func New(opts Options) *Editor {
	e := &Editor{
		path:   opts.Path,
		doc:    NewDocument(opts.Content),
		hl:     highlight.New(opts.Path),
		fs:     opts.FS,
		sched:  opts.Scheduler,
		output: opts.Output,
		onExit: opts.OnExit,
		logger: opts.Logger.With().Str("file", opts.Path).Logger(),
		mode:   editMode{},
		styles: newStyles(),
	}
	e.help = newHelp(e.styles)
	e.setViewport(opts.Rows, opts.Cols)
	return e
}

// Start draws the first screen.
func (e *Editor) Start() {
	e.logger.Debug().Str("language", e.hl.Language()).Int("lines", e.doc.LineCount()).Msg("editor opened")
	e.render()
}

func (e *Editor) Document() *Document { return e.doc }
func (e *Editor) Mode() Mode          { return e.mode.tag() }
func (e *Editor) Closed() bool        { return e.closed }

// Flash returns the status message currently shown, if any.
func (e *Editor) Flash() string { return e.flash }

// SetViewport resizes the editor and redraws it.
func (e *Editor) SetViewport(rows, cols int) {
	e.setViewport(rows, cols)
	if !e.closed {
		e.render()
	}
}

func (e *Editor) setViewport(rows, cols int) {
	e.rows = max(rows, 3)
	e.cols = max(cols, 20)
}

func (e *Editor) textRows() int {
	return e.rows - 2
}

// HandleInput processes raw terminal input and redraws once.
func (e *Editor) HandleInput(data string) {
	if e.closed {
		return
	}
	for _, k := range keys.Decode(data) {
		e.handleKey(k)
		if e.closed {
			return
		}
	}
	e.render()
}

func (e *Editor) handleKey(k keys.Key) {
	switch m := e.mode.(type) {
	case editMode:
		e.handleEdit(k)
	case *findMode:
		e.handleFind(m, k)
	case *replaceMode:
		e.handleReplace(m, k)
	case *gotoMode:
		e.handleGoto(m, k)
	case quitConfirmMode:
		e.handleQuitConfirm(k)
	}
}

func (e *Editor) handleEdit(k keys.Key) {
	d := e.doc
	switch {
	case key.Matches(k, bindings.Save):
		e.save()
	case key.Matches(k, bindings.Quit):
		if d.Modified() {
			e.mode = quitConfirmMode{}
			return
		}
		e.exit()
	case key.Matches(k, bindings.Find):
		e.mode = &findMode{origin: d.Cursor(), current: -1}
	case key.Matches(k, bindings.Replace):
		e.mode = &replaceMode{origin: d.Cursor(), current: -1}
	case key.Matches(k, bindings.Goto):
		e.mode = &gotoMode{}
	case key.Matches(k, bindings.Undo):
		if !d.Undo() {
			e.setFlash("Nothing to undo")
		}
	case key.Matches(k, bindings.Redo):
		if !d.Redo() {
			e.setFlash("Nothing to redo")
		}
	case key.Matches(k, bindings.Up):
		d.MoveUp()
	case key.Matches(k, bindings.Down):
		d.MoveDown()
	case key.Matches(k, bindings.Left):
		d.MoveLeft()
	case key.Matches(k, bindings.Right):
		d.MoveRight()
	case key.Matches(k, bindings.Home):
		d.MoveHome()
	case key.Matches(k, bindings.End):
		d.MoveEnd()
	case key.Matches(k, bindings.PageUp):
		d.PageUp(e.textRows())
	case key.Matches(k, bindings.PageDown):
		d.PageDown(e.textRows())
	case key.Matches(k, bindings.WordLeft):
		d.WordLeft()
	case key.Matches(k, bindings.WordRight):
		d.WordRight()
	case k.Type == keys.Enter:
		d.InsertNewline()
	case key.Matches(k, bindings.Erase):
		d.DeleteBack()
	case key.Matches(k, bindings.Delete):
		d.DeleteForward()
	case key.Matches(k, bindings.Tab):
		d.InsertChar('\t')
	case k.IsPrintable():
		d.InsertChar(k.Rune)
	}
}

func (e *Editor) handleFind(m *findMode, k keys.Key) {
	switch {
	case key.Matches(k, bindings.Cancel):
		e.leaveSearch()
	case key.Matches(k, bindings.Confirm), key.Matches(k, bindings.Down):
		c := e.doc.Cursor()
		m.current = FindNext(m.matches, Position{Row: c.Row, Col: c.Col + 1})
		e.selectMatch(m.matches, m.current)
	case key.Matches(k, bindings.Up):
		m.current = FindPrev(m.matches, e.doc.Cursor())
		e.selectMatch(m.matches, m.current)
	case key.Matches(k, bindings.Erase):
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.matches, m.current = e.search(string(m.query), m.origin)
		}
	case k.IsPrintable():
		m.query = append(m.query, k.Rune)
		m.matches, m.current = e.search(string(m.query), m.origin)
	}
}

func (e *Editor) handleReplace(m *replaceMode, k keys.Key) {
	field := &m.find
	if m.onWith {
		field = &m.with
	}

	switch {
	case key.Matches(k, bindings.Cancel):
		e.leaveSearch()
	case key.Matches(k, bindings.NextField):
		m.onWith = !m.onWith
	case key.Matches(k, bindings.ReplaceAll):
		if len(m.find) == 0 {
			return
		}
		n := e.doc.ReplaceAll(m.matches, string(m.find), string(m.with))
		e.leaveSearch()
		e.setFlash(fmt.Sprintf("Replaced %d occurrence%s", n, plural(n)))
	case key.Matches(k, bindings.Confirm):
		if m.current < 0 {
			return
		}
		match := m.matches[m.current]
		if !e.doc.ReplaceOne(match, string(m.find), string(m.with)) {
			return
		}
		next := Position{Row: match.Row, Col: match.Col + len(m.with)}
		m.matches, m.current = e.search(string(m.find), next)
		if m.current < 0 {
			e.setFlash("No more matches")
		}
	case key.Matches(k, bindings.Erase):
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
		if !m.onWith {
			m.matches, m.current = e.search(string(m.find), m.origin)
		}
	case k.IsPrintable():
		*field = append(*field, k.Rune)
		if !m.onWith {
			m.matches, m.current = e.search(string(m.find), m.origin)
		}
	}
}

func (e *Editor) handleGoto(m *gotoMode, k keys.Key) {
	switch {
	case key.Matches(k, bindings.Cancel):
		e.mode = editMode{}
	case key.Matches(k, bindings.Confirm):
		if n, err := strconv.Atoi(string(m.digits)); err == nil {
			n = clamp(n, 1, e.doc.LineCount())
			e.doc.SetCursor(n-1, 0)
		}
		e.mode = editMode{}
	case key.Matches(k, bindings.Erase):
		if len(m.digits) > 0 {
			m.digits = m.digits[:len(m.digits)-1]
		}
	case k.IsPrintable() && k.Rune >= '0' && k.Rune <= '9':
		if len(m.digits) < 9 {
			m.digits = append(m.digits, k.Rune)
		}
	}
}

func (e *Editor) handleQuitConfirm(k keys.Key) {
	switch {
	case key.Matches(k, bindings.Yes):
		if err := e.save(); err != nil {
			e.mode = editMode{}
			return
		}
		e.exit()
	case key.Matches(k, bindings.No):
		e.exit()
	case key.Matches(k, bindings.Back), key.Matches(k, bindings.Cancel):
		e.mode = editMode{}
	}
}

// search recomputes matches for query and selects the first one at or
// after from.
func (e *Editor) search(query string, from Position) ([]Match, int) {
	matches := FindAll(e.doc.Lines(), query)
	current := FindNext(matches, from)
	e.selectMatch(matches, current)
	return matches, current
}

func (e *Editor) selectMatch(matches []Match, i int) {
	if i < 0 || i >= len(matches) {
		e.doc.SetSelection(nil)
		return
	}
	m := matches[i]
	e.doc.SetCursor(m.Row, m.Col)
	e.doc.SetSelection(&Range{Start: m.Start(), End: Position{Row: m.Row, Col: m.Col + m.Length}})
}

func (e *Editor) leaveSearch() {
	e.mode = editMode{}
	e.doc.SetSelection(nil)
}

func (e *Editor) save() error {
	if err := e.fs.Write(e.path, e.doc.Text()); err != nil {
		e.logger.Warn().Err(err).Msg("failed to save buffer")
		e.setFlash(fmt.Sprintf("Error writing %s: %s", e.path, vfs.Message(err)))
		return err
	}
	e.doc.MarkSaved()
	n := e.doc.LineCount()
	e.setFlash(fmt.Sprintf("Wrote %d line%s", n, plural(n)))
	return nil
}

// setFlash shows msg on the mode bar until FlashDuration elapses or another
// message replaces it.
func (e *Editor) setFlash(msg string) {
	e.flash = msg
	e.flashGen++
	gen := e.flashGen

	if e.cancelFlash != nil {
		e.cancelFlash()
	}
	e.cancelFlash = e.sched.AfterFunc(FlashDuration, func() {
		if e.closed || gen != e.flashGen {
			return
		}
		e.flash = ""
		e.render()
	})
}

func (e *Editor) exit() {
	e.closed = true
	if e.cancelFlash != nil {
		e.cancelFlash()
	}
	e.logger.Debug().Msg("editor closed")
	if e.onExit != nil {
		e.onExit()
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
