package shell

import (
	"errors"
	"strings"

	"deskshell/internal/parser"
	"deskshell/internal/vfs"
)

// special commands take over the terminal, they are resolved after the
// registries.
var specials map[string]CommandFunc

func init() {
	specials = map[string]CommandFunc{
		"edit": edit,
		"nano": edit,
		"ssh":  ssh,
		"ping": ping,
	}
}

// Run executes a command line as if it had been typed, without echo and
// without touching the history.
func (s *Shell) Run(line string) {
	s.runChain(parser.Parse(line, s.env))
}

// runChain runs pipelines in order. When a command takes over the terminal
// the remaining pipelines wait in s.resume until it releases it.
func (s *Shell) runChain(chain []parser.ChainedPipeline) {
	for i, cp := range chain {
		ok := s.runPipeline(cp.Pipeline)
		if s.owner != nil {
			if i+1 < len(chain) {
				s.resume = &resumption{rest: chain[i+1:], op: cp.Op}
			}
			return
		}
		if !ok && cp.Op == parser.ChainAnd {
			s.logger.Debug().Int("skipped", len(chain)-i-1).Msg("pipeline failed, skipping the rest of the chain")
			return
		}
	}
}

// runPipeline threads each command's output into the next one's input. It
// reports whether every command succeeded.
func (s *Shell) runPipeline(p parser.Pipeline) bool {
	file, appendMode, redirect := p.Redirect()

	var (
		out string
		ok  = true
	)
	for i, cmd := range p.Commands {
		last := i == len(p.Commands)-1
		s.tty = last && !redirect

		var err error
		out, err = s.dispatch(cmd.Argv, out)
		if err != nil {
			ok = false
			var e *Error
			if errors.As(err, &e) {
				s.print(e.Msg)
			} else if !errors.Is(err, ErrStatus) {
				s.print(cmd.Argv[0] + ": " + err.Error())
			}
		}
		if s.owner != nil {
			return ok
		}
	}
	s.tty = false

	if !redirect {
		s.print(out)
		return ok
	}
	if err := s.writeRedirect(file, appendMode, out); err != nil {
		s.logger.Debug().Err(err).Str("file", file).Msg("redirect failed")
		s.print("cannot write to '" + file + "'")
		return false
	}
	return ok
}

func (s *Shell) writeRedirect(file string, appendMode bool, out string) error {
	p := s.resolve(file)
	if appendMode {
		prev, err := s.fs.Read(p)
		switch {
		case err == nil:
			out = prev + out
		case !errors.Is(err, vfs.ErrNotFound):
			return err
		}
	}
	return s.fs.Write(p, out)
}

// dispatch resolves aliases and globs, then runs the command.
func (s *Shell) dispatch(argv []string, stdin string) (string, error) {
	if value, ok := s.aliases[argv[0]]; ok {
		argv = append(strings.Fields(value), argv[1:]...)
		if len(argv) == 0 {
			return stdin, nil
		}
	}
	argv = s.expandGlobs(argv)
	name, args := argv[0], argv[1:]
	s.logger.Debug().Str("command", name).Strs("args", args).Msg("dispatch")

	if run, ok := lookup(name); ok {
		return run(s, args, stdin)
	}
	if run, ok := specials[name]; ok {
		return run(s, args, stdin)
	}
	return "", failf("%s: command not found", name)
}

func (s *Shell) expandGlobs(argv []string) []string {
	out := argv[:1:1]
	for _, word := range argv[1:] {
		out = append(out, parser.ExpandGlob(s.expandTilde(word), s.cwd, s.listNames)...)
	}
	return out
}

// expandTilde expands a leading "~" only for globs, other arguments are
// resolved by the commands themselves.
func (s *Shell) expandTilde(word string) string {
	if parser.HasGlob(word) && strings.HasPrefix(word, "~/") {
		return s.home + word[1:]
	}
	return word
}

func (s *Shell) listNames(dir string) ([]string, error) {
	entries, err := s.fs.List(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// commandNames is the completion list: builtins, specials and aliases.
func (s *Shell) commandNames() []string {
	var names []string
	for _, r := range registries {
		names = append(names, r.names()...)
	}
	for name := range specials {
		names = append(names, name)
	}
	for name := range s.aliases {
		names = append(names, name)
	}
	return names
}
