package parser

import (
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/tidwall/match"
)

// HasGlob reports whether s contains a glob metacharacter. Only "*" and "?"
// are supported, there are no bracket classes and no brace expansion.
func HasGlob(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// MatchGlob matches a name against a pattern made of literals, "*" and "?".
func MatchGlob(pattern, name string) bool {
	if !HasGlob(pattern) {
		return pattern == name
	}
	return match.Match(name, pattern)
}

// Lister returns the entry names of an absolute directory.
type Lister func(dir string) ([]string, error)

// ExpandGlob expands a single word against the listing of its directory.
// The directory part is taken literally and resolved against cwd. A word
// without metacharacters, or with no match, is returned unchanged.
func ExpandGlob(word, cwd string, list Lister) []string {
	if !HasGlob(word) {
		return []string{word}
	}

	dirPart, pattern := "", word
	if i := strings.LastIndex(word, "/"); i >= 0 {
		dirPart, pattern = word[:i+1], word[i+1:]
	}
	if HasGlob(dirPart) || pattern == "" {
		return []string{word}
	}

	dir := cwd
	if dirPart != "" {
		if strings.HasPrefix(dirPart, "/") {
			dir = path.Clean(dirPart)
		} else {
			dir = path.Join(cwd, dirPart)
		}
	}

	names, err := list(dir)
	if err != nil {
		return []string{word}
	}

	var matches []string
	for _, name := range names {
		// hidden entries only match patterns that start with a dot
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(pattern, ".") {
			continue
		}
		if MatchGlob(pattern, name) {
			matches = append(matches, dirPart+name)
		}
	}
	if len(matches) == 0 {
		return []string{word}
	}

	sort.Slice(matches, func(i, j int) bool { return natural.Less(matches[i], matches[j]) })
	return matches
}
