package shell

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

var textCommands = &registry{
	name: "Text",
	commands: map[string]command{
		"echo": {echo, "print the arguments"},
		"grep": {grep, "print matching lines (-i ignore case, -v invert, -n numbers, -c count)"},
		"head": {head, "print the first lines (-n N)"},
		"tail": {tail, "print the last lines (-n N)"},
		"wc":   {wc, "count lines, words and bytes (-l, -w, -c)"},
		"sort": {sortLines, "sort lines (-r reverse, -n numeric)"},
		"uniq": {uniq, "drop repeated lines (-c count)"},
		"rev":  {rev, "reverse each line"},
	},
}

func echo(_ *Shell, args []string, _ string) (string, error) {
	return strings.Join(args, " ") + "\n", nil
}

// input is a file argument or the command input, with the name used in
// messages.
type input struct {
	name    string
	content string
}

// inputs reads the named files, or returns stdin when there are none.
func (s *Shell) inputs(cmd string, files []string, stdin string) ([]input, []string) {
	if len(files) == 0 {
		return []input{{name: "(standard input)", content: stdin}}, nil
	}
	var (
		ins  []input
		msgs []string
	)
	for _, f := range files {
		content, err := s.fs.Read(s.resolve(f))
		if err != nil {
			msgs = append(msgs, fsError(cmd, f, err))
			continue
		}
		ins = append(ins, input{name: f, content: content})
	}
	return ins, msgs
}

func grep(sh *Shell, args []string, stdin string) (string, error) {
	flags := newFlags("grep")
	ignoreCase := flags.BoolP("ignore-case", "i", false, "")
	invert := flags.BoolP("invert-match", "v", false, "")
	number := flags.BoolP("line-number", "n", false, "")
	count := flags.BoolP("count", "c", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if flags.NArg() == 0 {
		return "", failf("usage: grep [-ivnc] PATTERN [FILE]...")
	}

	pattern := flags.Arg(0)
	if *ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// not a valid expression, match it literally
		re = regexp.MustCompile(regexp.QuoteMeta(flags.Arg(0)))
		if *ignoreCase {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(flags.Arg(0)))
		}
	}

	files := flags.Args()[1:]
	ins, msgs := sh.inputs("grep", files, stdin)
	var (
		out     []string
		matched bool
	)
	for _, in := range ins {
		prefix := ""
		if len(files) > 1 {
			prefix = in.name + ":"
		}
		n := 0
		for i, l := range lines(in.content) {
			if re.MatchString(l) == *invert {
				continue
			}
			n++
			if *count {
				continue
			}
			if *number {
				out = append(out, fmt.Sprintf("%s%d:%s", prefix, i+1, l))
			} else {
				out = append(out, prefix+l)
			}
		}
		if *count {
			out = append(out, fmt.Sprintf("%s%d", prefix, n))
		}
		matched = matched || n > 0
	}

	if err := failures(msgs); err != nil {
		return joinLines(out), err
	}
	if !matched {
		return joinLines(out), ErrStatus
	}
	return joinLines(out), nil
}

// countArgs rewrites the "-5" shorthand of head and tail into "-n 5".
func countArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if len(a) > 1 && a[0] == '-' {
			if _, err := strconv.Atoi(a[1:]); err == nil {
				out = append(out, "-n", a[1:])
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func head(sh *Shell, args []string, stdin string) (string, error) {
	return slice(sh, "head", args, stdin, func(ls []string, n int) []string {
		return ls[:min(n, len(ls))]
	})
}

func tail(sh *Shell, args []string, stdin string) (string, error) {
	return slice(sh, "tail", args, stdin, func(ls []string, n int) []string {
		return ls[max(0, len(ls)-n):]
	})
}

func slice(sh *Shell, cmd string, args []string, stdin string, take func([]string, int) []string) (string, error) {
	flags := newFlags(cmd)
	n := flags.IntP("lines", "n", 10, "")
	if err := parseFlags(flags, countArgs(args)); err != nil {
		return "", err
	}
	if *n < 0 {
		return "", failf("%s: invalid number of lines: '%d'", cmd, *n)
	}

	ins, msgs := sh.inputs(cmd, flags.Args(), stdin)
	var out []string
	for i, in := range ins {
		if len(ins) > 1 {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, "==> "+in.name+" <==")
		}
		out = append(out, take(lines(in.content), *n)...)
	}
	return joinLines(out), failures(msgs)
}

func wc(sh *Shell, args []string, stdin string) (string, error) {
	flags := newFlags("wc")
	countLines := flags.BoolP("lines", "l", false, "")
	countWords := flags.BoolP("words", "w", false, "")
	countBytes := flags.BoolP("bytes", "c", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if !*countLines && !*countWords && !*countBytes {
		*countLines, *countWords, *countBytes = true, true, true
	}
	single := !(*countLines && *countWords) && !(*countLines && *countBytes) && !(*countWords && *countBytes)

	files := flags.Args()
	ins, msgs := sh.inputs("wc", files, stdin)
	var out []string
	for _, in := range ins {
		var cols []int
		if *countLines {
			cols = append(cols, strings.Count(in.content, "\n"))
		}
		if *countWords {
			cols = append(cols, len(strings.Fields(in.content)))
		}
		if *countBytes {
			cols = append(cols, len(in.content))
		}

		fields := make([]string, len(cols))
		for i, c := range cols {
			if single {
				fields[i] = strconv.Itoa(c)
			} else {
				fields[i] = fmt.Sprintf("%7d", c)
			}
		}
		line := strings.Join(fields, " ")
		if len(files) > 0 {
			line += " " + in.name
		}
		out = append(out, line)
	}
	return joinLines(out), failures(msgs)
}

func sortLines(sh *Shell, args []string, stdin string) (string, error) {
	flags := newFlags("sort")
	reverse := flags.BoolP("reverse", "r", false, "")
	numeric := flags.BoolP("numeric-sort", "n", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}

	ins, msgs := sh.inputs("sort", flags.Args(), stdin)
	var all []string
	for _, in := range ins {
		all = append(all, lines(in.content)...)
	}

	less := func(a, b string) bool { return a < b }
	if *numeric {
		less = func(a, b string) bool {
			na, nb := leadingNumber(a), leadingNumber(b)
			if na != nb {
				return na < nb
			}
			return a < b
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if *reverse {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})
	return joinLines(all), failures(msgs)
}

// leadingNumber returns the number the line starts with, 0 if none.
func leadingNumber(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return f
}

func uniq(sh *Shell, args []string, stdin string) (string, error) {
	flags := newFlags("uniq")
	count := flags.BoolP("count", "c", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}

	ins, msgs := sh.inputs("uniq", flags.Args(), stdin)
	var all []string
	for _, in := range ins {
		all = append(all, lines(in.content)...)
	}

	var out []string
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j] == all[i] {
			j++
		}
		if *count {
			out = append(out, fmt.Sprintf("%7d %s", j-i, all[i]))
		} else {
			out = append(out, all[i])
		}
		i = j
	}
	return joinLines(out), failures(msgs)
}

func rev(sh *Shell, args []string, stdin string) (string, error) {
	ins, msgs := sh.inputs("rev", args, stdin)
	var out []string
	for _, in := range ins {
		for _, l := range lines(in.content) {
			r := []rune(l)
			slices.Reverse(r)
			out = append(out, string(r))
		}
	}
	return joinLines(out), failures(msgs)
}
