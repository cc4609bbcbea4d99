// Package resolve implements static name resolution for Lox programs.
//
// The resolver walks a parsed program once and records, for every local
// variable reference, how many environment frames separate the reference
// from the declaration. References that are not recorded are globals.
package resolve

import (
	"github.com/you-not-fish/lox/internal/syntax"
)

// Config specifies the configuration for resolution.
type Config struct {
	// Error is called for each resolution error.
	// If nil, errors are silently ignored.
	Error syntax.ErrorHandler
}

// Info holds the results of resolution.
type Info struct {
	// Locals maps Variable, Assign, This and Super expressions to the
	// number of frames between the use and its declaration. Expressions
	// without an entry refer to globals.
	Locals map[syntax.Expr]int
}

// Depth returns the recorded scope distance of x, if any.
func (info *Info) Depth(x syntax.Expr) (int, bool) {
	d, ok := info.Locals[x]
	return d, ok
}

// Resolve resolves a parsed program. Entries are added to info.Locals, so
// one Info may accumulate the results of several programs (REPL lines).
// It returns the first error encountered, if any; all errors are reported
// to conf.Error.
func Resolve(prog *syntax.Program, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}
	if info != nil && info.Locals == nil {
		info.Locals = make(map[syntax.Expr]int)
	}

	r := &resolver{conf: conf, info: info}
	r.resolveStmts(prog.Stmts)

	if r.errors > 0 {
		return r.first
	}
	return nil
}
