// Package highlight colors single lines of source code for the editor.
package highlight

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/muesli/termenv"

	"deskshell/internal/term"
)

// Class is the kind of text a span holds.
type Class int

const (
	Plain Class = iota
	Comment
	String
	Number
	Keyword
	Type
	Call
	Tag
	Attr
	Key
)

var classColors = map[Class]termenv.Color{
	Comment: term.Gray,
	String:  term.Green,
	Number:  term.Magenta,
	Keyword: term.Blue,
	Type:    term.Cyan,
	Call:    term.Yellow,
	Tag:     term.Blue,
	Attr:    term.Cyan,
	Key:     term.Cyan,
}

// Span is a run of text of a single class.
type Span struct {
	Text  string
	Class Class
}

// Highlighter maps lines of one file to colored spans. The language is
// chosen once, from the file name.
type Highlighter struct {
	lexer    chroma.Lexer
	language string
}

// New picks the lexer matching filename. Unknown files are not colored.
func New(filename string) *Highlighter {
	lexer := lexers.Match(path.Base(filename))
	if lexer == nil {
		return &Highlighter{language: "text"}
	}
	return &Highlighter{
		lexer:    chroma.Coalesce(lexer),
		language: strings.ToLower(lexer.Config().Name),
	}
}

// Language returns the lowercase lexer name, "text" when unknown.
func (h *Highlighter) Language() string {
	return h.language
}

// Spans splits line into classified spans. The concatenated span text is
// always equal to line.
func (h *Highlighter) Spans(line string) []Span {
	if line == "" {
		return nil
	}
	if h.lexer == nil {
		return []Span{{Text: line}}
	}

	it, err := h.lexer.Tokenise(nil, line+"\n")
	if err != nil {
		return []Span{{Text: line}}
	}

	var tokens []chroma.Token
	for _, tok := range it.Tokens() {
		tok.Value = strings.TrimRight(tok.Value, "\n")
		if tok.Value != "" {
			tokens = append(tokens, tok)
		}
	}

	spans := make([]Span, 0, len(tokens))
	for i, tok := range tokens {
		class := h.classify(tok.Type)
		if class == Plain && tok.Type.InCategory(chroma.Name) && followedByParen(tokens[i+1:]) {
			class = Call
		}
		spans = append(spans, Span{Text: tok.Value, Class: class})
	}

	if joined := join(spans); joined != line {
		// lexers are free to rewrite text (tabs, line endings), fall back to plain
		return []Span{{Text: line}}
	}
	return merge(spans)
}

// Render returns line colored with ANSI sequences.
func (h *Highlighter) Render(line string) string {
	return Render(h.Spans(line))
}

// Render colors spans.
func Render(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if c, ok := classColors[s.Class]; ok {
			sb.WriteString(term.Color(s.Text, c))
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

func (h *Highlighter) classify(t chroma.TokenType) Class {
	switch {
	case t == chroma.NameTag && h.language == "json":
		return Key
	case t.InCategory(chroma.Comment):
		return Comment
	case t.InSubCategory(chroma.LiteralString):
		return String
	case t.InSubCategory(chroma.LiteralNumber):
		return Number
	case t == chroma.KeywordType, t == chroma.NameBuiltin, t == chroma.NameClass:
		return Type
	case t == chroma.KeywordConstant:
		return Number
	case t.InCategory(chroma.Keyword):
		return Keyword
	case t == chroma.NameFunction:
		return Call
	case t == chroma.NameTag:
		return Tag
	case t == chroma.NameAttribute, t == chroma.NameProperty:
		return Attr
	}
	return Plain
}

func followedByParen(rest []chroma.Token) bool {
	for _, tok := range rest {
		v := strings.TrimLeft(tok.Value, " \t")
		if v == "" {
			continue
		}
		return strings.HasPrefix(v, "(")
	}
	return false
}

func join(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func merge(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].Class == s.Class {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
