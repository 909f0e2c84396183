// Package parser turns a raw command line into chained pipelines.
package parser

// ChainOp describes how a pipeline relates to the one that follows it.
type ChainOp int

const (
	ChainNone ChainOp = iota // last pipeline of the line
	ChainAnd                 // "&&": run the next pipeline only on success
	ChainSeq                 // ";": always run the next pipeline
)

func (op ChainOp) String() string {
	switch op {
	case ChainAnd:
		return "&&"
	case ChainSeq:
		return ";"
	}
	return ""
}

// Command is one simple command of a pipeline.
type Command struct {
	Argv           []string // Argv[0] is the command name
	RedirectFile   string   // empty when output is not redirected
	RedirectAppend bool     // ">>" instead of ">"
}

// HasRedirect reports whether the command output goes to a file.
func (c Command) HasRedirect() bool {
	return c.RedirectFile != ""
}

// Pipeline is a sequence of commands connected by "|".
type Pipeline struct {
	Commands []Command
}

// Redirect returns the redirect of the pipeline. Only the last command may
// redirect, redirects attached to earlier commands are ignored.
func (p Pipeline) Redirect() (file string, appendMode bool, ok bool) {
	if len(p.Commands) == 0 {
		return "", false, false
	}
	last := p.Commands[len(p.Commands)-1]
	return last.RedirectFile, last.RedirectAppend, last.HasRedirect()
}

// ChainedPipeline is a pipeline plus the operator that follows it.
type ChainedPipeline struct {
	Pipeline Pipeline
	Op       ChainOp
}

// Parse expands variables, tokenizes and groups the line. It never fails:
// unterminated quotes run to the end of the line and empty commands are
// dropped.
func Parse(line string, env map[string]string) []ChainedPipeline {
	return Group(Tokenize(ExpandVariables(line, env)))
}

// Group builds chained pipelines out of tokens.
func Group(tokens []Token) []ChainedPipeline {
	var (
		chain    []ChainedPipeline
		pipeline Pipeline
		current  Command
	)

	flushCommand := func() {
		if len(current.Argv) > 0 {
			pipeline.Commands = append(pipeline.Commands, current)
		}
		current = Command{}
	}

	flushPipeline := func(op ChainOp) {
		flushCommand()
		if len(pipeline.Commands) > 0 {
			chain = append(chain, ChainedPipeline{Pipeline: pipeline, Op: op})
		} else if op != ChainNone && len(chain) > 0 {
			// "a && ; b": the latest operator wins
			chain[len(chain)-1].Op = op
		}
		pipeline = Pipeline{}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case Word:
			current.Argv = append(current.Argv, tok.Value)
		case Pipe:
			flushCommand()
		case RedirectOut, RedirectAppend:
			if i+1 < len(tokens) && tokens[i+1].Kind == Word {
				current.RedirectFile = tokens[i+1].Value
				current.RedirectAppend = tok.Kind == RedirectAppend
				i++
			}
		case And:
			flushPipeline(ChainAnd)
		case Semicolon:
			flushPipeline(ChainSeq)
		}
	}
	flushPipeline(ChainNone)

	return chain
}
