package editor

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Save       key.Binding
	Quit       key.Binding
	Find       key.Binding
	Replace    key.Binding
	Goto       key.Binding
	Undo       key.Binding
	Redo       key.Binding
	ReplaceAll key.Binding
	NextField  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Erase      key.Binding
	Yes        key.Binding
	No         key.Binding
	Back       key.Binding

	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	WordLeft  key.Binding
	WordRight key.Binding
	Delete    key.Binding
	Tab       key.Binding
}

var bindings = keyMap{
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^Q", "quit")),
	Find:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^F", "find")),
	Replace:    key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("^H", "replace")),
	Goto:       key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^G", "go to line")),
	Undo:       key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("^Z", "undo")),
	Redo:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^Y", "redo")),
	ReplaceAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("^A", "all")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
	Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
	Cancel:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	Erase:      key.NewBinding(key.WithKeys("backspace")),
	Yes:        key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "save")),
	No:         key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "discard")),
	Back:       key.NewBinding(key.WithKeys("c", "C", "esc"), key.WithHelp("c", "cancel")),

	Up:        key.NewBinding(key.WithKeys("up")),
	Down:      key.NewBinding(key.WithKeys("down")),
	Left:      key.NewBinding(key.WithKeys("left")),
	Right:     key.NewBinding(key.WithKeys("right")),
	Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
	End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
	PageUp:    key.NewBinding(key.WithKeys("pgup")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown")),
	WordLeft:  key.NewBinding(key.WithKeys("ctrl+left", "alt+b")),
	WordRight: key.NewBinding(key.WithKeys("ctrl+right", "alt+f")),
	Delete:    key.NewBinding(key.WithKeys("delete")),
	Tab:       key.NewBinding(key.WithKeys("tab")),
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Save, k.Quit, k.Find, k.Replace, k.Goto, k.Undo, k.Redo}
}

func (k keyMap) findHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k keyMap) replaceHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "replace")),
		k.ReplaceAll, k.NextField, k.Cancel,
	}
}

func (k keyMap) gotoHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
		k.Cancel,
	}
}

func (k keyMap) quitHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Back}
}
