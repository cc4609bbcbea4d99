package syntax

import (
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	s := newSource("test.lox", strings.NewReader("ab"), nil)

	if s.ch != 'a' {
		t.Fatalf("first ch = %q, want 'a'", s.ch)
	}
	if got := s.pos(); got.Line() != 1 || got.Col() != 1 {
		t.Errorf("pos = %s, want 1:1", got)
	}

	s.nextch()
	if s.ch != 'b' || s.col != 2 {
		t.Errorf("after nextch: ch = %q col = %d, want 'b' col 2", s.ch, s.col)
	}

	s.nextch()
	if s.ch != -1 {
		t.Errorf("ch at EOF = %q, want -1", s.ch)
	}
}

func TestSourceNewline(t *testing.T) {
	s := newSource("", strings.NewReader("a\nbc"), nil)
	s.nextch() // '\n'
	s.nextch() // 'b'

	if s.ch != 'b' {
		t.Fatalf("ch = %q, want 'b'", s.ch)
	}
	if s.line != 2 || s.col != 1 {
		t.Errorf("position = %d:%d, want 2:1", s.line, s.col)
	}
}

func TestSourcePeekAndSegment(t *testing.T) {
	s := newSource("", strings.NewReader("héllo"), nil)

	if got := s.peek(); got != 'é' {
		t.Errorf("peek = %q, want 'é'", got)
	}
	start := s.chOff
	for i := 0; i < 3; i++ {
		s.nextch()
	}
	if got := s.segment(start); got != "hél" {
		t.Errorf("segment = %q, want %q", got, "hél")
	}
}

func TestSourceEmpty(t *testing.T) {
	s := newSource("", strings.NewReader(""), nil)
	if s.ch != -1 {
		t.Errorf("ch = %q, want -1", s.ch)
	}
	if s.peek() != -1 {
		t.Errorf("peek on empty source should be -1")
	}
}

func TestSourceError(t *testing.T) {
	var gotLine, gotCol int
	var gotMsg string
	errh := func(line, col int, msg string) {
		gotLine, gotCol, gotMsg = line, col, msg
	}

	s := newSource("", strings.NewReader("x\xffy"), errh)
	s.nextch()

	if gotMsg != "invalid UTF-8 encoding" {
		t.Errorf("msg = %q, want invalid UTF-8 encoding", gotMsg)
	}
	if gotLine != 1 || gotCol != 2 {
		t.Errorf("error at %d:%d, want 1:2", gotLine, gotCol)
	}
}

func TestCharClasses(t *testing.T) {
	for _, r := range "azAZ_" {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false", r)
		}
	}
	for _, r := range "09" {
		if !isDigit(r) || isLetter(r) {
			t.Errorf("classification of %q is wrong", r)
		}
	}
	for _, r := range " \t\r\n" {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false", r)
		}
	}
	for _, r := range "-é$" {
		if isLetter(r) || isDigit(r) || isWhitespace(r) {
			t.Errorf("%q should not be a letter, digit or whitespace", r)
		}
	}
}
