// Package term writes the control sequences understood by the terminal
// device: cursor movement, erasing and SGR colors.
package term

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Newline is the device line ending.
const Newline = "\r\n"

var (
	Red     = termenv.ANSIRed
	Green   = termenv.ANSIBrightGreen
	Yellow  = termenv.ANSIYellow
	Blue    = termenv.ANSIBrightBlue
	Magenta = termenv.ANSIMagenta
	Cyan    = termenv.ANSICyan
	Gray    = termenv.ANSIBrightBlack
)

// Color returns s wrapped in a foreground color.
func Color(s string, c termenv.Color) string {
	return termenv.String(s).Foreground(c).String()
}

// Bold returns s in bold, optionally colored.
func Bold(s string, c termenv.Color) string {
	style := termenv.String(s).Bold()
	if c != nil {
		style = style.Foreground(c)
	}
	return style.String()
}

func MoveCursor(w io.Writer, row, column int) {
	fmt.Fprintf(w, termenv.CSI+termenv.CursorPositionSeq, row, column)
}

func ClearScreen(w io.Writer) {
	fmt.Fprintf(w, termenv.CSI+termenv.EraseDisplaySeq, 2)
	MoveCursor(w, 1, 1)
}

func ClearLine(w io.Writer) {
	io.WriteString(w, "\r"+termenv.CSI+termenv.EraseEntireLineSeq)
}

// ClearScreenDown erases from the cursor to the end of the screen.
func ClearScreenDown(w io.Writer) {
	fmt.Fprintf(w, termenv.CSI+termenv.EraseDisplaySeq, 0)
}

func ClearLineRight(w io.Writer) {
	io.WriteString(w, termenv.CSI+termenv.EraseLineRightSeq)
}

func MoveCursorUp(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(w, termenv.CSI+termenv.CursorUpSeq, n)
}

func MoveCursorDown(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(w, termenv.CSI+termenv.CursorDownSeq, n)
}

func MoveCursorBack(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(w, termenv.CSI+termenv.CursorBackSeq, n)
}

func MoveCursorForward(w io.Writer, n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(w, termenv.CSI+termenv.CursorForwardSeq, n)
}

func HideCursor(w io.Writer) {
	io.WriteString(w, termenv.CSI+termenv.HideCursorSeq)
}

func ShowCursor(w io.Writer) {
	io.WriteString(w, termenv.CSI+termenv.ShowCursorSeq)
}
