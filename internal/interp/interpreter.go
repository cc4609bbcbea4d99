// Package interp implements the tree-walking evaluator for Lox and its
// runtime object model.
package interp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/syntax"
)

// maxCallDepth bounds the depth of nested Lox calls.
const maxCallDepth = 4096

// Equality selects the semantics of == and !=.
type Equality uint8

const (
	// EqualNumbers only compares numbers; other operands are an error.
	EqualNumbers Equality = iota
	// EqualStructural compares any two values.
	EqualStructural
)

// NilReads selects what reading a nil variable does.
type NilReads uint8

const (
	// NilReadsError rejects every read of a variable that holds nil.
	NilReadsError NilReads = iota
	// NilReadsUninitialized only rejects reads of variables that were
	// declared without an initializer and never assigned. Explicit nil is
	// a value.
	NilReadsUninitialized
)

// Options configures an Interpreter. The zero value is usable.
type Options struct {
	Stdout   io.Writer    // destination of print; os.Stdout if nil
	Logger   *slog.Logger // debug logging; discarded if nil
	Equality Equality
	NilReads NilReads
	Now      func() time.Time // clock source; time.Now if nil
}

// Interpreter evaluates resolved programs. Global state persists across
// calls to Interpret, so one Interpreter can serve a whole REPL session.
type Interpreter struct {
	opts   Options
	stdout io.Writer
	log    *slog.Logger
	now    func() time.Time

	globals *Environment
	env     *Environment // current frame
	info    *resolve.Info

	ctx   context.Context
	depth int // current call depth
}

// New creates an interpreter that reads scope distances from info.
// The interpreter never modifies info.
func New(info *resolve.Info, opts Options) *Interpreter {
	if info == nil {
		info = &resolve.Info{}
	}
	in := &Interpreter{
		opts:    opts,
		stdout:  opts.Stdout,
		log:     opts.Logger,
		now:     opts.Now,
		globals: NewEnvironment(nil),
		info:    info,
		ctx:     context.Background(),
	}
	if in.stdout == nil {
		in.stdout = os.Stdout
	}
	if in.log == nil {
		in.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if in.now == nil {
		in.now = time.Now
	}
	in.env = in.globals
	in.defineBuiltins()
	return in
}

// Interpret executes the statements of prog in order. It stops at the
// first runtime error, which is returned as a *RuntimeError. Cancelling
// ctx interrupts execution at the next loop iteration or call.
func (in *Interpreter) Interpret(ctx context.Context, prog *syntax.Program) error {
	defer in.reset(ctx)()

	for _, s := range prog.Stmts {
		if _, err := in.exec(s); err != nil {
			in.log.Debug("runtime error", "err", err)
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression in the global frame.
func (in *Interpreter) Evaluate(ctx context.Context, x syntax.Expr) (Value, error) {
	defer in.reset(ctx)()
	return in.eval(x)
}

// reset prepares for a top-level run and returns a function restoring a
// clean state afterwards, whatever the outcome.
func (in *Interpreter) reset(ctx context.Context) func() {
	in.ctx = ctx
	in.env = in.globals
	in.depth = 0
	return func() {
		in.ctx = context.Background()
		in.env = in.globals
		in.depth = 0
	}
}

// interrupted returns an error if the run was cancelled.
func (in *Interpreter) interrupted(pos syntax.Pos) error {
	select {
	case <-in.ctx.Done():
		return &RuntimeError{Token: syntax.Token{Pos: pos}, Msg: "Interrupted."}
	default:
		return nil
	}
}
