package syntax

import (
	"fmt"
	"strings"
)

// Error is a static (lexical, syntactic, or resolver) diagnostic.
type Error struct {
	Pos   Pos
	Where string // " at 'lexeme'", " at end", or "" for lexical errors
	Msg   string

	// AtEnd is set when the error was caused by running out of input.
	// A REPL uses it to ask for another line instead of failing.
	AtEnd bool
}

// Error formats the diagnostic as "[line N] Error at 'x': msg".
func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Pos.Line(), e.Where, e.Msg)
}

// ErrorHandler is called for each static error.
type ErrorHandler func(err *Error)

// ErrorAt returns a diagnostic located at tok.
func ErrorAt(tok Token, msg string) *Error {
	if tok.Kind == EOF {
		return &Error{Pos: tok.Pos, Where: " at end", Msg: msg, AtEnd: true}
	}
	return &Error{Pos: tok.Pos, Where: " at '" + tok.Lexeme + "'", Msg: msg}
}

// IsIncomplete reports whether every error in errs was caused by input
// ending too early, i.e. more input could still make the program valid.
func IsIncomplete(errs []*Error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if !e.AtEnd {
			return false
		}
	}
	return true
}

// lexical messages that mean the input stopped in the middle of a token
var unterminated = []string{"Unterminated string.", "Unterminated block comment."}

func isUnterminated(msg string) bool {
	for _, m := range unterminated {
		if strings.HasPrefix(msg, m) {
			return true
		}
	}
	return false
}
