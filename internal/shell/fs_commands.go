package shell

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/maruel/natural"

	"deskshell/internal/model"
	"deskshell/internal/term"
	"deskshell/internal/vfs"
)

var fsCommands = &registry{
	name: "Files",
	commands: map[string]command{
		"ls":    {ls, "list directory contents (-l long, -a all, -h human sizes)"},
		"cd":    {cd, "change the working directory (cd, cd ~, cd -)"},
		"pwd":   {pwd, "print the working directory"},
		"cat":   {cat, "print files, or the input"},
		"mkdir": {mkdir, "create directories (-p parents)"},
		"touch": {touch, "create empty files"},
		"rm":    {rm, "remove files (-r recursive, -f force)"},
		"mv":    {mv, "move or rename a file"},
		"cp":    {cp, "copy a file"},
		"tree":  {tree, "show a directory tree"},
	},
}

func sortEntries(entries []model.FileEntry) {
	sort.Slice(entries, func(i, j int) bool { return natural.Less(entries[i].Name, entries[j].Name) })
}

func ls(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("ls")
	long := flags.BoolP("long", "l", false, "")
	all := flags.BoolP("all", "a", false, "")
	human := flags.BoolP("human-readable", "h", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	targets := flags.Args()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var (
		out  []string
		msgs []string
	)
	for _, t := range targets {
		p := sh.resolve(t)
		info, err := sh.fs.Stat(p)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("ls: cannot access '%s': %s", t, vfs.Message(err)))
			continue
		}

		entries := []model.FileEntry{info}
		if info.IsDirectory {
			if entries, err = sh.fs.List(p); err != nil {
				msgs = append(msgs, fmt.Sprintf("ls: cannot open directory '%s': %s", t, vfs.Message(err)))
				continue
			}
			sortEntries(entries)
		} else {
			entries[0].Name = t
		}

		var shown []model.FileEntry
		for _, e := range entries {
			if *all || !strings.HasPrefix(e.Name, ".") {
				shown = append(shown, e)
			}
		}

		if len(targets) > 1 && info.IsDirectory {
			out = append(out, t+":")
		}
		switch {
		case *long:
			for _, e := range shown {
				out = append(out, sh.longEntry(e, *human))
			}
		case sh.tty:
			names := make([]string, len(shown))
			for i, e := range shown {
				names[i] = sh.colorName(e)
			}
			if len(names) > 0 {
				out = append(out, strings.TrimSuffix(sh.columns(names), "\n"))
			}
		default:
			for _, e := range shown {
				out = append(out, e.Name)
			}
		}
	}
	return joinLines(out), failures(msgs)
}

func (s *Shell) colorName(e model.FileEntry) string {
	if !s.tty {
		return e.Name
	}
	if e.IsDirectory {
		return term.Bold(e.Name, term.Blue)
	}
	return e.Name
}

func (s *Shell) longEntry(e model.FileEntry, human bool) string {
	mode, size := "-rw-r--r--", e.Size
	name := s.colorName(e)
	if e.IsDirectory {
		mode, size = "drwxr-xr-x", 4096
	}
	sizeText := fmt.Sprint(size)
	if human {
		sizeText = humanize.Bytes(uint64(size))
	}
	return fmt.Sprintf("%s 1 %s %s %8s %s %s", mode, s.user, s.user, sizeText, e.ModifiedAt.Format("Jan _2 15:04"), name)
}

func cd(sh *Shell, args []string, _ string) (string, error) {
	target, operand, out := sh.home, "~", ""
	if len(args) > 0 {
		operand = args[0]
		switch args[0] {
		case "-":
			if sh.oldpwd == "" {
				return "", failf("cd: OLDPWD not set")
			}
			target, out = sh.oldpwd, sh.oldpwd+"\n"
		default:
			target = sh.resolve(args[0])
		}
	}
	if len(args) > 1 {
		return "", failf("cd: too many arguments")
	}

	info, err := sh.fs.Stat(target)
	if err != nil {
		return "", failf("%s", fsError("cd", operand, err))
	}
	if !info.IsDirectory {
		return "", failf("%s", fsError("cd", operand, vfs.ErrNotDir))
	}
	sh.oldpwd, sh.cwd = sh.cwd, target
	sh.env["OLDPWD"] = sh.oldpwd
	sh.env["PWD"] = sh.cwd
	return out, nil
}

func pwd(sh *Shell, _ []string, _ string) (string, error) {
	return sh.cwd + "\n", nil
}

func cat(sh *Shell, args []string, stdin string) (string, error) {
	if len(args) == 0 {
		return stdin, nil
	}
	var (
		sb   strings.Builder
		msgs []string
	)
	for _, a := range args {
		if a == "-" {
			sb.WriteString(stdin)
			continue
		}
		content, err := sh.fs.Read(sh.resolve(a))
		if err != nil {
			msgs = append(msgs, fsError("cat", a, err))
			continue
		}
		sb.WriteString(content)
	}
	return sb.String(), failures(msgs)
}

func mkdir(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("mkdir")
	parents := flags.BoolP("parents", "p", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if flags.NArg() == 0 {
		return "", failf("mkdir: missing operand")
	}

	var msgs []string
	for _, a := range flags.Args() {
		p := sh.resolve(a)
		var err error
		if *parents {
			err = sh.mkdirAll(p)
		} else {
			err = sh.fs.Mkdir(p)
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("mkdir: cannot create directory '%s': %s", a, vfs.Message(err)))
		}
	}
	return "", failures(msgs)
}

func (s *Shell) mkdirAll(p string) error {
	if info, err := s.fs.Stat(p); err == nil {
		if info.IsDirectory {
			return nil
		}
		return fmt.Errorf("%s: %w", p, vfs.ErrExists)
	}
	if parent := path.Dir(p); parent != p {
		if err := s.mkdirAll(parent); err != nil {
			return err
		}
	}
	return s.fs.Mkdir(p)
}

func touch(sh *Shell, args []string, _ string) (string, error) {
	if len(args) == 0 {
		return "", failf("touch: missing file operand")
	}
	var msgs []string
	for _, a := range args {
		p := sh.resolve(a)
		content, err := sh.fs.Read(p)
		if err != nil && !errors.Is(err, vfs.ErrNotFound) {
			msgs = append(msgs, fmt.Sprintf("touch: cannot touch '%s': %s", a, vfs.Message(err)))
			continue
		}
		// rewriting an existing file refreshes its modification time
		if err := sh.fs.Write(p, content); err != nil {
			msgs = append(msgs, fmt.Sprintf("touch: cannot touch '%s': %s", a, vfs.Message(err)))
		}
	}
	return "", failures(msgs)
}

func rm(sh *Shell, args []string, _ string) (string, error) {
	flags := newFlags("rm")
	recursive := flags.BoolP("recursive", "r", false, "")
	flags.BoolVarP(recursive, "Recursive", "R", false, "")
	force := flags.BoolP("force", "f", false, "")
	if err := parseFlags(flags, args); err != nil {
		return "", err
	}
	if flags.NArg() == 0 && !*force {
		return "", failf("rm: missing operand")
	}

	var msgs []string
	for _, a := range flags.Args() {
		p := sh.resolve(a)
		info, err := sh.fs.Stat(p)
		switch {
		case err != nil:
			if !*force || !errors.Is(err, vfs.ErrNotFound) {
				msgs = append(msgs, fmt.Sprintf("rm: cannot remove '%s': %s", a, vfs.Message(err)))
			}
			continue
		case info.IsDirectory && !*recursive:
			msgs = append(msgs, fmt.Sprintf("rm: cannot remove '%s': %s", a, vfs.Message(vfs.ErrIsDir)))
			continue
		case p == "/" || p == sh.home:
			msgs = append(msgs, fmt.Sprintf("rm: refusing to remove '%s'", a))
			continue
		}
		if err := sh.removeAll(p); err != nil {
			msgs = append(msgs, fmt.Sprintf("rm: cannot remove '%s': %s", a, vfs.Message(err)))
		}
	}
	return "", failures(msgs)
}

func (s *Shell) removeAll(p string) error {
	info, err := s.fs.Stat(p)
	if err != nil {
		return err
	}
	if info.IsDirectory {
		entries, err := s.fs.List(p)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := s.removeAll(e.Path); err != nil {
				return err
			}
		}
	}
	return s.fs.Delete(p)
}

// destination returns where src lands when moved or copied to dst: inside
// dst when it is a directory.
func (s *Shell) destination(src, dst string) string {
	if info, err := s.fs.Stat(dst); err == nil && info.IsDirectory {
		return path.Join(dst, path.Base(src))
	}
	return dst
}

func mv(sh *Shell, args []string, _ string) (string, error) {
	switch len(args) {
	case 0:
		return "", failf("mv: missing file operand")
	case 1:
		return "", failf("mv: missing destination file operand after '%s'", args[0])
	case 2:
	default:
		return "", failf("mv: extra operand '%s'", args[2])
	}

	src := sh.resolve(args[0])
	dst := sh.destination(src, sh.resolve(args[1]))
	if src == dst {
		return "", failf("mv: '%s' and '%s' are the same file", args[0], args[1])
	}
	if vfs.InSubtree(src, dst) {
		shown := args[1]
		if dst != sh.resolve(args[1]) {
			shown = path.Join(args[1], path.Base(src))
		}
		return "", failf("mv: cannot move '%s' to a subdirectory of itself, '%s'", args[0], shown)
	}
	if info, err := sh.fs.Stat(dst); err == nil && !info.IsDirectory {
		// mv replaces an existing file
		if err := sh.fs.Delete(dst); err != nil {
			return "", failf("mv: cannot move '%s' to '%s': %s", args[0], args[1], vfs.Message(err))
		}
	}
	if err := sh.fs.Move(src, dst); err != nil {
		return "", failf("mv: cannot move '%s' to '%s': %s", args[0], args[1], vfs.Message(err))
	}
	return "", nil
}

func cp(sh *Shell, args []string, _ string) (string, error) {
	switch len(args) {
	case 0:
		return "", failf("cp: missing file operand")
	case 1:
		return "", failf("cp: missing destination file operand after '%s'", args[0])
	case 2:
	default:
		return "", failf("cp: extra operand '%s'", args[2])
	}

	src := sh.resolve(args[0])
	info, err := sh.fs.Stat(src)
	if err != nil {
		return "", failf("cp: cannot stat '%s': %s", args[0], vfs.Message(err))
	}
	if info.IsDirectory {
		return "", failf("cp: -r not specified; omitting directory '%s'", args[0])
	}
	content, err := sh.fs.Read(src)
	if err != nil {
		return "", failf("%s", fsError("cp", args[0], err))
	}
	if err := sh.fs.Write(sh.destination(src, sh.resolve(args[1])), content); err != nil {
		return "", failf("cp: cannot create regular file '%s': %s", args[1], vfs.Message(err))
	}
	return "", nil
}

func tree(sh *Shell, args []string, _ string) (string, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	p := sh.resolve(target)
	info, err := sh.fs.Stat(p)
	if err != nil {
		return "", failf("%s [error opening dir]", target)
	}
	if !info.IsDirectory {
		return "", failf("%s [error opening dir]", target)
	}

	out := []string{sh.colorName(model.FileEntry{Name: target, IsDirectory: true})}
	var dirs, files int
	var walk func(dir, indent string)
	walk = func(dir, indent string) {
		entries, err := sh.fs.List(dir)
		if err != nil {
			return
		}
		sortEntries(entries)
		var shown []model.FileEntry
		for _, e := range entries {
			if !strings.HasPrefix(e.Name, ".") {
				shown = append(shown, e)
			}
		}
		for i, e := range shown {
			branch, next := model.IconTreeBranch, model.IconTreePipe
			if i == len(shown)-1 {
				branch, next = model.IconTreeLast, model.IconTreeSpace
			}
			out = append(out, indent+branch+sh.colorName(e))
			if e.IsDirectory {
				dirs++
				walk(e.Path, indent+next)
			} else {
				files++
			}
		}
	}
	walk(p, "")

	out = append(out, "", fmt.Sprintf("%d %s, %d %s", dirs, plural(dirs, "directory", "directories"), files, plural(files, "file", "files")))
	return joinLines(out), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
