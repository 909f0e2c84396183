package shell

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/spf13/pflag"

	"deskshell/internal/vfs"
)

// ErrStatus is the failure of a command. Errors carrying a message for the
// user are *Error values, which match ErrStatus with errors.Is.
var ErrStatus = errors.New("exit status 1")

// Error is a command failure with the text printed to the terminal.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool { return target == ErrStatus }

func failf(format string, a ...any) error {
	return &Error{Msg: fmt.Sprintf(format, a...)}
}

// fsError formats a filesystem failure the way coreutils do.
func fsError(cmd, operand string, err error) string {
	return fmt.Sprintf("%s: %s: %s", cmd, operand, vfs.Message(err))
}

// failures turns the messages collected by a command into its error.
func failures(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &Error{Msg: strings.Join(msgs, "\n")}
}

// CommandFunc runs a builtin. stdin is the output of the previous command of
// the pipeline. The returned output follows the Unix convention: every line,
// the last one included, ends with "\n".
type CommandFunc func(sh *Shell, args []string, stdin string) (string, error)

type command struct {
	run     CommandFunc
	summary string
}

// registry is a named group of builtins, listed together by help.
type registry struct {
	name     string
	commands map[string]command
}

// registries are searched in this order.
var registries []*registry

func init() {
	registries = []*registry{fsCommands, textCommands, systemCommands, appCommands}
}

func lookup(name string) (CommandFunc, bool) {
	for _, r := range registries {
		if c, ok := r.commands[name]; ok {
			return c.run, true
		}
	}
	return nil, false
}

func (r *registry) names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// newFlags returns a silent flag set for a builtin.
func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return failf("%s: %v", fs.Name(), err)
	}
	return nil
}

// lines splits command input, ignoring the final line ending.
func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func joinLines(ls []string) string {
	if len(ls) == 0 {
		return ""
	}
	return strings.Join(ls, "\n") + "\n"
}
