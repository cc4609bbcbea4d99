// Package lox drives the interpreter pipeline: parse, resolve, evaluate.
//
// A Session owns the global state of one program run or one REPL session.
// Every call reports its outcome as a Status; nothing is kept in global
// flags, so a REPL can recover from an error on one line and continue
// with the next.
package lox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/you-not-fish/lox/internal/interp"
	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Process exit codes, following sysexits.h.
const (
	ExitOK      = 0
	ExitUsage   = 64 // EX_USAGE
	ExitStatic  = 65 // EX_DATAERR
	ExitNoInput = 66 // EX_NOINPUT
	ExitRuntime = 70 // EX_SOFTWARE
)

// Status is the outcome of running one source text.
type Status struct {
	StaticErrors []*syntax.Error // lexical, syntax and resolver errors, in report order
	RuntimeErr   error           // first runtime error; nil if none or not evaluated
}

// OK reports whether the run produced no errors.
func (s Status) OK() bool {
	return len(s.StaticErrors) == 0 && s.RuntimeErr == nil
}

// ExitCode maps the status to a process exit code.
func (s Status) ExitCode() int {
	switch {
	case len(s.StaticErrors) > 0:
		return ExitStatic
	case s.RuntimeErr != nil:
		return ExitRuntime
	}
	return ExitOK
}

// Incomplete reports whether the source failed only because it ended too
// early.
func (s Status) Incomplete() bool {
	return s.RuntimeErr == nil && syntax.IsIncomplete(s.StaticErrors)
}

// Report writes the diagnostics to w, one per line.
func (s Status) Report(w io.Writer) {
	for _, e := range s.StaticErrors {
		fmt.Fprintln(w, e)
	}
	if s.RuntimeErr != nil {
		fmt.Fprintln(w, s.RuntimeErr)
	}
}

// Options configures a Session. The zero value is usable.
type Options struct {
	Stdout io.Writer    // program output; os.Stdout if nil
	Logger *slog.Logger // debug logging; discarded if nil

	Equality interp.Equality
	NilReads interp.NilReads
	Now      func() time.Time
}

// Session runs Lox source texts against shared global state.
type Session struct {
	stdout io.Writer
	log    *slog.Logger
	info   *resolve.Info
	interp *interp.Interpreter
}

// NewSession returns a session with a fresh global environment.
func NewSession(opts Options) *Session {
	s := &Session{
		stdout: opts.Stdout,
		log:    opts.Logger,
		info:   &resolve.Info{Locals: make(map[syntax.Expr]int)},
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.interp = interp.New(s.info, interp.Options{
		Stdout:   s.stdout,
		Logger:   s.log,
		Equality: opts.Equality,
		NilReads: opts.NilReads,
		Now:      opts.Now,
	})
	return s
}

// Run parses, resolves and evaluates src. Static errors suppress
// evaluation; evaluation stops at the first runtime error.
func (s *Session) Run(ctx context.Context, filename string, src io.Reader) Status {
	prog, st := s.check(filename, src)
	if prog == nil {
		return st
	}
	st.RuntimeErr = s.evaluate(ctx, prog)
	return st
}

// RunFile runs the script at path.
func (s *Session) RunFile(ctx context.Context, path string) (Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return Status{}, fmt.Errorf("lox: %w", err)
	}
	defer f.Close()
	return s.Run(ctx, path, f), nil
}

// RunLine runs one REPL entry. When echo is set and the entry is a single
// expression statement, its value is printed instead of discarded.
func (s *Session) RunLine(ctx context.Context, line string, echo bool) Status {
	prog, st := s.check("<stdin>", strings.NewReader(line))
	if prog == nil {
		return st
	}

	if echo && len(prog.Stmts) == 1 {
		if es, ok := prog.Stmts[0].(*syntax.ExprStmt); ok {
			v, err := s.interp.Evaluate(ctx, es.X)
			if err != nil {
				st.RuntimeErr = err
				return st
			}
			fmt.Fprintln(s.stdout, interp.Stringify(v))
			return st
		}
	}

	st.RuntimeErr = s.evaluate(ctx, prog)
	return st
}

// check runs the static passes. It returns a nil program if any of them
// reported an error.
func (s *Session) check(filename string, src io.Reader) (*syntax.Program, Status) {
	var st Status
	errh := func(err *syntax.Error) {
		st.StaticErrors = append(st.StaticErrors, err)
	}

	start := time.Now()
	p := syntax.NewParser(filename, src, errh)
	prog := p.Parse()
	s.log.Debug("parse",
		"file", filename,
		"stmts", len(prog.Stmts),
		"errors", p.Errors(),
		"elapsed", time.Since(start))
	if p.Errors() > 0 {
		return nil, st
	}

	start = time.Now()
	err := resolve.Resolve(prog, &resolve.Config{Error: errh}, s.info)
	s.log.Debug("resolve",
		"file", filename,
		"locals", len(s.info.Locals),
		"errors", len(st.StaticErrors),
		"elapsed", time.Since(start))
	if err != nil {
		return nil, st
	}
	return prog, st
}

func (s *Session) evaluate(ctx context.Context, prog *syntax.Program) error {
	start := time.Now()
	err := s.interp.Interpret(ctx, prog)
	s.log.Debug("evaluate",
		"ok", err == nil,
		"elapsed", time.Since(start))
	return err
}

// Incomplete reports whether src is a prefix of a possibly valid program,
// so a REPL should keep reading. Blank input is never incomplete.
func Incomplete(src string) bool {
	var errs []*syntax.Error
	p := syntax.NewParser("<stdin>", strings.NewReader(src), func(err *syntax.Error) {
		errs = append(errs, err)
	})
	p.Parse()
	return syntax.IsIncomplete(errs)
}
