package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It reads UTF-8 encoded source text and provides character-by-character access.
type source struct {
	buf []byte // entire source read into memory

	filename string
	line     int // line of ch (1-based)
	col      int // column of ch (1-based, byte offset)

	ch    rune // current character, -1 for EOF
	chOff int  // byte offset of ch in buf
	offs  int  // byte offset of the character after ch

	errh func(line, col int, msg string)
}

// newSource creates a new source from an io.Reader.
// The errh function is called for each error; if nil, errors are silently ignored.
func newSource(filename string, src io.Reader, errh func(line, col int, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0, // incremented to 1 by the first nextch
		ch:       -1,
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch reads the next character and updates position.
// Sets s.ch to -1 at EOF.
//
// (line, col) always refers to the position of s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOff = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// segment returns the source text between byte offset start and s.ch.
func (s *source) segment(start int) string {
	return string(s.buf[start:s.chOff])
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	s.errorAt(s.line, s.col, msg)
}

func (s *source) errorAt(line, col int, msg string) {
	if s.errh != nil {
		s.errh(line, col, msg)
	}
}

// isLetter reports whether r may start an identifier.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is insignificant whitespace.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
