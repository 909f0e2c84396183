package parser

import (
	"io"
	"strings"
	"unicode"
)

// TokenKind distinguishes words from operators. A quoted "|" is a word.
type TokenKind int

const (
	Word TokenKind = iota
	Pipe
	RedirectOut
	RedirectAppend
	And
	Semicolon
)

func (k TokenKind) String() string {
	switch k {
	case Word:
		return "word"
	case Pipe:
		return "|"
	case RedirectOut:
		return ">"
	case RedirectAppend:
		return ">>"
	case And:
		return "&&"
	case Semicolon:
		return ";"
	}
	return "?"
}

// Token is a lexical unit of a command line.
type Token struct {
	Kind  TokenKind
	Value string
}

type lexState int

const (
	stateOutside lexState = iota
	stateSingleQuote
	stateDoubleQuote
)

type tokenBuffer struct {
	builder *strings.Builder
	quoted  bool // an empty quoted string still yields a token
}

func (tb *tokenBuffer) isEmpty() bool {
	return tb.builder.Len() == 0 && !tb.quoted
}

func (tb *tokenBuffer) appendRune(r rune) {
	tb.builder.WriteRune(r)
}

func (tb *tokenBuffer) flushIfNotEmpty(tokens []Token) []Token {
	if !tb.isEmpty() {
		tokens = append(tokens, Token{Kind: Word, Value: tb.builder.String()})
		tb.builder.Reset()
		tb.quoted = false
	}
	return tokens
}

// Tokenize splits a line into words and operators.
//
// Quotes consume everything literally up to the matching quote; there is no
// escape processing and an unterminated quote runs to the end of the line.
// ">>" and "&&" are recognized before "|", ">" and ";".
func Tokenize(line string) []Token {
	runes := []rune(line)
	tb := &tokenBuffer{builder: &strings.Builder{}}
	tokens := []Token{}
	state := stateOutside

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case stateSingleQuote, stateDoubleQuote:
			if (state == stateSingleQuote && ch == '\'') || (state == stateDoubleQuote && ch == '"') {
				state = stateOutside
			} else {
				tb.appendRune(ch)
			}
			continue
		}

		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case unicode.IsSpace(ch):
			tokens = tb.flushIfNotEmpty(tokens)
		case ch == '\'':
			state = stateSingleQuote
			tb.quoted = true
		case ch == '"':
			state = stateDoubleQuote
			tb.quoted = true
		case ch == '>' && next == '>':
			tokens = tb.flushIfNotEmpty(tokens)
			tokens = append(tokens, Token{Kind: RedirectAppend, Value: ">>"})
			i++
		case ch == '&' && next == '&':
			tokens = tb.flushIfNotEmpty(tokens)
			tokens = append(tokens, Token{Kind: And, Value: "&&"})
			i++
		case ch == '|':
			tokens = tb.flushIfNotEmpty(tokens)
			tokens = append(tokens, Token{Kind: Pipe, Value: "|"})
		case ch == '>':
			tokens = tb.flushIfNotEmpty(tokens)
			tokens = append(tokens, Token{Kind: RedirectOut, Value: ">"})
		case ch == ';':
			tokens = tb.flushIfNotEmpty(tokens)
			tokens = append(tokens, Token{Kind: Semicolon, Value: ";"})
		default:
			tb.appendRune(ch)
		}
	}

	return tb.flushIfNotEmpty(tokens)
}

// ExpandVariables replaces $NAME with env[NAME], or the empty string when
// the variable is unset. A "$" not followed by a name is kept as is.
func ExpandVariables(line string, env map[string]string) string {
	if !strings.Contains(line, "$") {
		return line
	}

	r := strings.NewReader(line)
	var out strings.Builder

	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if ch != '$' {
			out.WriteRune(ch)
			continue
		}

		var name strings.Builder
		for {
			c, _, err := r.ReadRune()
			if err == io.EOF {
				break
			}
			if !isNameRune(c, name.Len() == 0) {
				r.UnreadRune()
				break
			}
			name.WriteRune(c)
		}

		if name.Len() == 0 {
			out.WriteRune('$')
			continue
		}
		out.WriteString(env[name.String()])
	}

	return out.String()
}

func isNameRune(c rune, first bool) bool {
	if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	return !first && c >= '0' && c <= '9'
}
