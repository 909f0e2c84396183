// Package completion completes command names and paths on the shell line.
package completion

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maruel/natural"

	"deskshell/internal/model"
	"deskshell/internal/vfs"
)

// Lister lists a directory, see vfs.Provider.
type Lister interface {
	List(p string) ([]model.FileEntry, error)
}

// Result is a completed line. Candidates is set when more than one entry
// matched.
type Result struct {
	Line       string
	Cursor     int // in runes
	Candidates []string
}

// Engine completes the first word against command names and later words
// against directory entries.
type Engine struct {
	commands func() []string
	fs       Lister
}

func New(commands func() []string, fs Lister) *Engine {
	return &Engine{commands: commands, fs: fs}
}

// Complete completes the word ending at cursor (a rune offset). ok is false
// when nothing matched, in which case the line is unchanged.
func (e *Engine) Complete(line string, cursor int, cwd, home string) (res Result, ok bool) {
	runes := []rune(line)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	before := runes[:cursor]

	start := cursor
	for start > 0 && !unicode.IsSpace(before[start-1]) {
		start--
	}
	word := string(before[start:])
	first := strings.TrimSpace(string(before[:start])) == ""

	var (
		prefix     string
		candidates []string
		dirPart    string
	)
	if first {
		prefix = word
		candidates = matchCommands(e.commands(), word)
	} else {
		if i := strings.LastIndex(word, "/"); i >= 0 {
			dirPart = word[:i+1]
		}
		prefix = word[len(dirPart):]
		candidates = e.matchPaths(vfs.Resolve(cwd, home, dirPart), prefix)
	}
	if len(candidates) == 0 {
		return Result{Line: line, Cursor: cursor}, false
	}

	var completed string
	switch len(candidates) {
	case 1:
		completed = candidates[0]
		if !strings.HasSuffix(completed, model.IconDirSuffix) {
			completed += " "
		}
	default:
		completed = commonPrefix(candidates)
		if len(completed) <= len(prefix) {
			completed = prefix
		}
		res.Candidates = candidates
	}

	replacement := []rune(dirPart + completed)
	out := make([]rune, 0, len(runes)+len(replacement))
	out = append(out, runes[:start]...)
	out = append(out, replacement...)
	out = append(out, runes[cursor:]...)

	res.Line = string(out)
	res.Cursor = start + len(replacement)
	return res, true
}

func matchCommands(commands []string, prefix string) []string {
	var out []string
	seen := map[string]bool{}
	for _, name := range commands {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sortNatural(out)
	return out
}

func (e *Engine) matchPaths(dir, prefix string) []string {
	entries, err := e.fs.List(dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		name := entry.Name
		if entry.IsDirectory {
			name += model.IconDirSuffix
		}
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sortNatural(out)
	return out
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}

func sortNatural(s []string) {
	sort.Slice(s, func(i, j int) bool { return natural.Less(s[i], s[j]) })
}
