package syntax

import (
	"fmt"
	"io"
	"strconv"
)

// Scanner performs lexical analysis on Lox source code.
type Scanner struct {
	source // embedded character reader

	tok   Token // most recently scanned token
	start int   // byte offset where the current token began
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col int, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next scans and returns the next token. After the end of input has been
// reached, Next keeps returning an EOF token.
func (s *Scanner) Next() Token {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	pos := s.pos()
	s.start = s.chOff

	switch {
	case s.ch < 0:
		s.tok = Token{Kind: EOF, Pos: pos}
		return s.tok

	case isLetter(s.ch):
		s.scanIdent(pos)

	case isDigit(s.ch):
		s.scanNumber(pos)

	case s.ch == '"':
		if !s.scanString(pos) {
			goto redo
		}

	default:
		if !s.scanOperator(pos) {
			goto redo
		}
	}

	return s.tok
}

// Token returns the most recently scanned token.
func (s *Scanner) Token() Token {
	return s.tok
}

// ScanAll scans src to completion and returns every token including the
// terminating EOF.
func ScanAll(filename string, src io.Reader, errh func(line, col int, msg string)) []Token {
	s := NewScanner(filename, src, errh)
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func (s *Scanner) emit(kind Kind, pos Pos, lit any) {
	s.tok = Token{Kind: kind, Lexeme: s.segment(s.start), Literal: lit, Pos: pos}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent(pos Pos) {
	for isLetter(s.ch) || isDigit(s.ch) {
		s.nextch()
	}
	lexeme := s.segment(s.start)
	s.emit(LookupKeyword(lexeme), pos, nil)
}

// scanNumber scans a number literal. A '.' only belongs to the number when
// a digit follows it, so "1.foo" scans as 1, '.', foo.
func (s *Scanner) scanNumber(pos Pos) {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.nextch()
		for isDigit(s.ch) {
			s.nextch()
		}
	}

	text := s.segment(s.start)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		s.errorAt(pos.Line(), pos.Col(), fmt.Sprintf("invalid number literal %s", text))
	}
	s.emit(Number, pos, v)
}

// scanString scans a string literal. Strings may span lines and have no
// escape sequences. Reports false if the string was not terminated.
func (s *Scanner) scanString(pos Pos) bool {
	s.nextch() // skip opening "
	for s.ch != '"' {
		if s.ch < 0 {
			s.errorAt(pos.Line(), pos.Col(), "Unterminated string.")
			return false
		}
		s.nextch()
	}
	s.nextch() // skip closing "

	lexeme := s.segment(s.start)
	s.emit(String, pos, lexeme[1:len(lexeme)-1])
	return true
}

// scanOperator scans punctuation and operators. Comments are consumed here
// too; it reports false when no token was produced and the caller must rescan.
func (s *Scanner) scanOperator(pos Pos) bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '(':
		s.emit(LeftParen, pos, nil)
	case ')':
		s.emit(RightParen, pos, nil)
	case '{':
		s.emit(LeftBrace, pos, nil)
	case '}':
		s.emit(RightBrace, pos, nil)
	case ',':
		s.emit(Comma, pos, nil)
	case '.':
		s.emit(Dot, pos, nil)
	case ';':
		s.emit(Semicolon, pos, nil)
	case '?':
		s.emit(Question, pos, nil)
	case ':':
		s.emit(Colon, pos, nil)
	case '-':
		s.emit(Minus, pos, nil)
	case '+':
		s.emit(Plus, pos, nil)
	case '*':
		s.emit(Star, pos, nil)
	case '!':
		s.emit(s.pick('=', BangEqual, Bang), pos, nil)
	case '=':
		s.emit(s.pick('=', EqualEqual, Equal), pos, nil)
	case '<':
		s.emit(s.pick('=', LessEqual, Less), pos, nil)
	case '>':
		s.emit(s.pick('=', GreaterEqual, Greater), pos, nil)
	case '/':
		switch s.ch {
		case '/':
			s.skipLineComment()
			return false
		case '*':
			s.skipBlockComment(pos)
			return false
		}
		s.emit(Slash, pos, nil)
	default:
		s.errorAt(pos.Line(), pos.Col(), fmt.Sprintf("Unexpected character %q.", ch))
		return false
	}
	return true
}

// pick consumes next and returns yes if the current character is next,
// otherwise it returns no.
func (s *Scanner) pick(next rune, yes, no Kind) Kind {
	if s.ch == next {
		s.nextch()
		return yes
	}
	return no
}

// skipLineComment skips a // comment up to (not including) the newline.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// skipBlockComment skips a /* */ comment. Block comments nest.
func (s *Scanner) skipBlockComment(pos Pos) {
	s.nextch() // consume '*'
	depth := 1
	for depth > 0 {
		switch {
		case s.ch < 0:
			s.errorAt(pos.Line(), pos.Col(), "Unterminated block comment.")
			return
		case s.ch == '/' && s.peek() == '*':
			s.nextch()
			depth++
		case s.ch == '*' && s.peek() == '/':
			s.nextch()
			depth--
		}
		s.nextch()
	}
}
