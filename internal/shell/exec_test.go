package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChaining(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"false && echo hi", ""},
		{"false ; echo hi", "hi\n"},
		{"true && echo hi", "hi\n"},
		{"echo a ; echo b && echo c", "a\nb\nc\n"},
		{"nope && echo hi", "nope: command not found\n"},
		{"nope ; echo hi", "nope: command not found\nhi\n"},
		{"cat missing && echo hi", "cat: missing: No such file or directory\n"},
		{"grep zzz notes.txt && echo found", ""},
		{"grep apple notes.txt && echo found", "apple pie\napple crumble\nfound\n"},
		{"false && echo a ; echo b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, tt.expected, h.exec(tt.line))
		})
	}
}

func TestPipes(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"cat notes.txt | grep -i banana", "Banana split\n"},
		{"cat notes.txt | grep apple | wc -l", "2\n"},
		{"ls | grep txt", "notes.txt\ntodo.txt\n"},
		{"cat /tmp/numbers | sort -n | uniq -c", "      2 9\n      1 10\n      1 100\n"},
		{"echo hello | rev", "olleh\n"},
		{"nope | echo after", "nope: command not found\nafter\n"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, tt.expected, h.exec(tt.line))
		})
	}
}

func TestRedirect(t *testing.T) {
	h := newHarness(t)

	assert.Empty(t, h.exec("echo hello > out.txt"))
	content, err := h.fs.Read("/home/ada/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", content)

	h.exec("echo again >> out.txt")
	content, _ = h.fs.Read("/home/ada/out.txt")
	assert.Equal(t, "hello\nagain\n", content)

	h.exec("echo fresh > out.txt")
	content, _ = h.fs.Read("/home/ada/out.txt")
	assert.Equal(t, "fresh\n", content)

	h.exec("cat notes.txt | grep apple > /tmp/apples")
	content, _ = h.fs.Read("/tmp/apples")
	assert.Equal(t, "apple pie\napple crumble\n", content)

	h.exec("echo new >> created.txt")
	content, _ = h.fs.Read("/home/ada/created.txt")
	assert.Equal(t, "new\n", content)
}

func TestRedirectFailure(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "cannot write to '/nowhere/f'\n", h.exec("echo x > /nowhere/f && echo after"))
	assert.Equal(t, "cannot write to 'projects'\nafter\n", h.exec("echo x > projects ; echo after"))
}

func TestAlias(t *testing.T) {
	h := newHarness(t)

	h.exec("alias greet='echo hello'")
	assert.Equal(t, "hello world\n", h.exec("greet world"))
	assert.Equal(t, "alias greet='echo hello'\n", h.exec("alias greet"))

	// values are not aliased again
	h.exec("alias a=b")
	h.exec("alias b=echo")
	assert.Equal(t, "b: command not found\n", h.exec("a"))

	assert.Equal(t, "ll: aliased to ls -l\n", h.exec("which ll"))
	h.exec("unalias ll")
	assert.Equal(t, "ll: command not found\n", h.exec("ll"))
	assert.Equal(t, "unalias: ll: not found\n", h.exec("unalias ll"))
}

func TestGlob(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		line     string
		expected string
	}{
		{"echo *.txt", "notes.txt todo.txt\n"},
		{"echo ????.txt", "todo.txt\n"},
		{"echo *.zip", "*.zip\n"},
		{"echo projects/*.go", "projects/main.go\n"},
		{"echo *", "notes.txt photo.png projects todo.txt\n"},
		{"echo .*", ".profile\n"},
		{"echo /tmp/n*", "/tmp/numbers\n"},
		{"echo ~/t*", "/home/ada/todo.txt\n"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.exec(tt.line))
		})
	}
}

func TestVariables(t *testing.T) {
	h := newHarness(t)
	h.exec("export GREETING=hi")
	assert.Equal(t, "hi ada\n", h.exec("echo $GREETING $USER"))

	h.exec("unset GREETING")
	assert.Equal(t, " ada\n", h.exec("echo \"$GREETING\" $USER"))

	assert.Equal(t, "export: `1x=2': not a valid identifier\n", h.exec("export 1x=2"))
}
