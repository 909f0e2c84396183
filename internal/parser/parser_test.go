package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(tokens []Token) []string {
	out := []string{}
	for _, t := range tokens {
		out = append(out, t.Value)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple command", "echo hello", []string{"echo", "hello"}},
		{"multiple spaces", "echo    hello     world", []string{"echo", "hello", "world"}},
		{"single quoted string", "echo 'hello world'", []string{"echo", "hello world"}},
		{"double quoted string", `echo "hello world"`, []string{"echo", "hello world"}},
		{"no escape processing in quotes", `echo "a\"b`, []string{"echo", `a\b`}},
		{"adjacent quoted strings", `echo "hello"'world'`, []string{"echo", "helloworld"}},
		{"empty quotes give an empty word", `echo ""`, []string{"echo", ""}},
		{"unterminated quote runs to end", `echo 'hello | world`, []string{"echo", "hello | world"}},
		{"operators without spaces", "ls|grep a>out", []string{"ls", "|", "grep", "a", ">", "out"}},
		{"two character operators", "a>>b&&c;d", []string{"a", ">>", "b", "&&", "c", ";", "d"}},
		{"quoted operator is a word", `echo "|"`, []string{"echo", "|"}},
		{"empty input", "", []string{}},
		{"only whitespace", "   \t  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, words(Tokenize(tt.input)))
		})
	}
}

func TestTokenizeKinds(t *testing.T) {
	tokens := Tokenize(`a | "|" >> x`)
	require.Len(t, tokens, 5)
	assert.Equal(t, Pipe, tokens[1].Kind)
	assert.Equal(t, Word, tokens[2].Kind)
	assert.Equal(t, RedirectAppend, tokens[3].Kind)
}

func TestExpandVariables(t *testing.T) {
	env := map[string]string{"HOME": "/home/ada", "USER": "ada", "A1": "x"}

	tests := []struct {
		input    string
		expected string
	}{
		{"echo $HOME", "echo /home/ada"},
		{"echo $USER-$A1", "echo ada-x"},
		{"echo $MISSING.", "echo ."},
		{"echo $ $1", "echo $ $1"},
		{"echo '$USER'", "echo 'ada'"},
		{"no vars", "no vars"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandVariables(tt.input, env))
		})
	}
}

func TestParsePipelineAndRedirect(t *testing.T) {
	chain := Parse("ls -la | grep foo > out.txt", nil)

	require.Len(t, chain, 1)
	cmds := chain[0].Pipeline.Commands
	require.Len(t, cmds, 2)
	assert.Equal(t, []string{"ls", "-la"}, cmds[0].Argv)
	assert.Equal(t, []string{"grep", "foo"}, cmds[1].Argv)
	assert.Equal(t, "out.txt", cmds[1].RedirectFile)
	assert.False(t, cmds[1].RedirectAppend)
	assert.Equal(t, ChainNone, chain[0].Op)

	file, appendMode, ok := chain[0].Pipeline.Redirect()
	assert.True(t, ok)
	assert.Equal(t, "out.txt", file)
	assert.False(t, appendMode)
}

func TestParseAppendRedirect(t *testing.T) {
	chain := Parse("echo hi >> log.txt", nil)
	require.Len(t, chain, 1)
	cmd := chain[0].Pipeline.Commands[0]
	assert.Equal(t, []string{"echo", "hi"}, cmd.Argv)
	assert.Equal(t, "log.txt", cmd.RedirectFile)
	assert.True(t, cmd.RedirectAppend)
}

func TestParseRedirectOnlyHonoredOnLastCommand(t *testing.T) {
	chain := Parse("echo a > x | cat", nil)
	require.Len(t, chain, 1)
	_, _, ok := chain[0].Pipeline.Redirect()
	assert.False(t, ok)
}

func TestParseChaining(t *testing.T) {
	chain := Parse("false && echo hi ; echo bye", nil)

	require.Len(t, chain, 3)
	assert.Equal(t, ChainAnd, chain[0].Op)
	assert.Equal(t, ChainSeq, chain[1].Op)
	assert.Equal(t, ChainNone, chain[2].Op)
	assert.Equal(t, []string{"echo", "bye"}, chain[2].Pipeline.Commands[0].Argv)
}

func TestParseDropsEmptyCommands(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{";;", 0},
		{"; ls", 1},
		{"ls | | wc", 1},
		{"ls &&", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Len(t, Parse(tt.input, nil), tt.expected)
		})
	}

	chain := Parse("ls | | wc", nil)
	assert.Len(t, chain[0].Pipeline.Commands, 2)
}

func TestParseExpandsBeforeTokenizing(t *testing.T) {
	chain := Parse("echo $CMD", map[string]string{"CMD": "a | wc"})
	require.Len(t, chain, 1)
	assert.Len(t, chain[0].Pipeline.Commands, 2)
}

func TestParseDanglingRedirect(t *testing.T) {
	chain := Parse("echo hi >", nil)
	require.Len(t, chain, 1)
	assert.False(t, chain[0].Pipeline.Commands[0].HasRedirect())
}

func TestExpandGlob(t *testing.T) {
	listing := map[string][]string{
		"/home/ada":      {"a.txt", "b.txt", "notes.md", ".hidden.txt", "file10.txt", "file2.txt"},
		"/home/ada/docs": {"x.go", "y.go"},
	}
	list := func(dir string) ([]string, error) {
		names, ok := listing[dir]
		if !ok {
			return nil, errors.New("no such dir")
		}
		return names, nil
	}

	tests := []struct {
		name     string
		word     string
		expected []string
	}{
		{"star", "*.md", []string{"notes.md"}},
		{"question mark", "?.txt", []string{"a.txt", "b.txt"}},
		{"natural order and no hidden", "*.txt", []string{"a.txt", "b.txt", "file2.txt", "file10.txt"}},
		{"dot pattern matches hidden", ".*", []string{".hidden.txt"}},
		{"relative dir", "docs/*.go", []string{"docs/x.go", "docs/y.go"}},
		{"absolute dir", "/home/ada/docs/x*", []string{"/home/ada/docs/x.go"}},
		{"no match keeps literal", "*.pdf", []string{"*.pdf"}},
		{"missing dir keeps literal", "nope/*", []string{"nope/*"}},
		{"brackets are literal", "[ab].txt", []string{"[ab].txt"}},
		{"no metacharacter", "a.txt", []string{"a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandGlob(tt.word, "/home/ada", list))
		})
	}
}
