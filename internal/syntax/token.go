// Package syntax implements lexical and syntactic analysis for Lox.
package syntax

import "fmt"

// Kind is the lexical category of a token.
type Kind uint8

const (
	// Special tokens
	EOF     Kind = iota // end of file
	Illegal             // lexical error

	// Single-character punctuation
	LeftParen  // (
	RightParen // )
	LeftBrace  // {
	RightBrace // }
	Comma      // ,
	Dot        // .
	Semicolon  // ;
	Question   // ?
	Colon      // :

	// Operators
	Minus        // -
	Plus         // +
	Slash        // /
	Star         // *
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Literals
	Ident  // identifier: foo, Bar
	Number // 123, 4.5
	String // "hello"

	// Keywords
	And
	Break
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	SuperKw
	ThisKw
	True
	Var
	While

	kindCount
)

var kindNames = [...]string{
	EOF:     "EOF",
	Illegal: "ILLEGAL",

	LeftParen:  "(",
	RightParen: ")",
	LeftBrace:  "{",
	RightBrace: "}",
	Comma:      ",",
	Dot:        ".",
	Semicolon:  ";",
	Question:   "?",
	Colon:      ":",

	Minus:        "-",
	Plus:         "+",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",

	Ident:  "IDENT",
	Number: "NUMBER",
	String: "STRING",

	And:     "and",
	Break:   "break",
	Class:   "class",
	Else:    "else",
	False:   "false",
	For:     "for",
	Fun:     "fun",
	If:      "if",
	Nil:     "nil",
	Or:      "or",
	Print:   "print",
	Return:  "return",
	SuperKw: "super",
	ThisKw:  "this",
	True:    "true",
	Var:     "var",
	While:   "while",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsKeyword reports whether k is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}

// IsLiteral reports whether k carries a decoded literal value.
func (k Kind) IsLiteral() bool {
	return k == Number || k == String
}

// IsOperator reports whether k is an operator token.
func (k Kind) IsOperator() bool {
	return k >= Minus && k <= LessEqual
}

// StartsDeclaration reports whether k begins a statement that the parser
// can resynchronize on after a syntax error.
func (k Kind) StartsDeclaration() bool {
	switch k {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	}
	return false
}

// keywords maps reserved words to their kind.
var keywords = map[string]Kind{
	"and":    And,
	"break":  Break,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  SuperKw,
	"this":   ThisKw,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupKeyword returns the kind for the given identifier string:
// the keyword kind if ident is reserved, Ident otherwise.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// Token is a single lexical unit. Tokens are immutable once produced.
type Token struct {
	Kind    Kind
	Lexeme  string // raw source text
	Literal any    // decoded value: float64 for Number, string for String
	Pos     Pos
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int {
	return t.Pos.Line()
}

// String returns a debugging representation of the token.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Kind, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
}
