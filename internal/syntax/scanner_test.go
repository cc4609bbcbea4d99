package syntax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scan returns the kinds and lexemes of every token in src, EOF included,
// plus any lexical errors formatted as "line:col: msg".
func scan(src string) (kinds []Kind, lexemes []string, errs []string) {
	errh := func(line, col int, msg string) {
		errs = append(errs, fmt.Sprintf("%d:%d: %s", line, col, msg))
	}
	for _, tok := range ScanAll("test.lox", strings.NewReader(src), errh) {
		kinds = append(kinds, tok.Kind)
		lexemes = append(lexemes, tok.Lexeme)
	}
	return
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kinds   []Kind
		lexemes []string
	}{
		{"empty", "", []Kind{EOF}, []string{""}},
		{"ident", "foo", []Kind{Ident, EOF}, []string{"foo", ""}},
		{"ident_underscore", "_bar9", []Kind{Ident, EOF}, []string{"_bar9", ""}},
		{"keyword", "class", []Kind{Class, EOF}, []string{"class", ""}},
		{"keyword_prefix", "classy", []Kind{Ident, EOF}, []string{"classy", ""}},
		{"number_int", "123", []Kind{Number, EOF}, []string{"123", ""}},
		{"number_frac", "3.14", []Kind{Number, EOF}, []string{"3.14", ""}},
		{"number_trailing_dot", "3.", []Kind{Number, Dot, EOF}, []string{"3", ".", ""}},
		{"number_method", "1.foo", []Kind{Number, Dot, Ident, EOF}, []string{"1", ".", "foo", ""}},
		{"leading_dot", ".5", []Kind{Dot, Number, EOF}, []string{".", "5", ""}},
		{"string", `"hi there"`, []Kind{String, EOF}, []string{`"hi there"`, ""}},
		{"string_no_escapes", `"a\n"`, []Kind{String, EOF}, []string{`"a\n"`, ""}},
		{"punct", "(){},.;?:", []Kind{LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Semicolon, Question, Colon, EOF},
			[]string{"(", ")", "{", "}", ",", ".", ";", "?", ":", ""}},
		{"two_char", "! != = == < <= > >=", []Kind{Bang, BangEqual, Equal, EqualEqual, Less, LessEqual, Greater, GreaterEqual, EOF},
			[]string{"!", "!=", "=", "==", "<", "<=", ">", ">=", ""}},
		{"arith", "- + / *", []Kind{Minus, Plus, Slash, Star, EOF}, []string{"-", "+", "/", "*", ""}},
		{"arith_packed", "-+*/", []Kind{Minus, Plus, Star, Slash, EOF}, []string{"-", "+", "*", "/", ""}},
		{"this_super", "this.x super.m", []Kind{ThisKw, Dot, Ident, SuperKw, Dot, Ident, EOF},
			[]string{"this", ".", "x", "super", ".", "m", ""}},
		{"line_comment", "a // b c\nd", []Kind{Ident, Ident, EOF}, []string{"a", "d", ""}},
		{"block_comment", "a /* b */ c", []Kind{Ident, Ident, EOF}, []string{"a", "c", ""}},
		{"nested_block_comment", "a /* x /* y */ z */ b", []Kind{Ident, Ident, EOF}, []string{"a", "b", ""}},
		{"slash_after_comment", "1 /**/ / 2", []Kind{Number, Slash, Number, EOF}, []string{"1", "/", "2", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, lexemes, errs := scan(tt.src)
			assert.Empty(t, errs)
			if diff := cmp.Diff(tt.kinds, kinds); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.lexemes, lexemes); diff != "" {
				t.Errorf("lexemes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanLiterals(t *testing.T) {
	toks := ScanAll("", strings.NewReader(`12 0.5 "multi
line" true nil`), nil)
	require.Len(t, toks, 6)

	assert.Equal(t, 12.0, toks[0].Literal)
	assert.Equal(t, 0.5, toks[1].Literal)
	assert.Equal(t, "multi\nline", toks[2].Literal)
	assert.Nil(t, toks[3].Literal, "keywords carry no literal")
	assert.Equal(t, Nil, toks[4].Kind)
}

func TestScanPositions(t *testing.T) {
	toks := ScanAll("p.lox", strings.NewReader("var a\n  = \"x\ny\";\nb"), nil)

	want := []struct {
		kind      Kind
		line, col int
	}{
		{Var, 1, 1},
		{Ident, 1, 5},
		{Equal, 2, 3},
		{String, 2, 5}, // a string is reported where it starts
		{Semicolon, 3, 3},
		{Ident, 4, 1},
		{EOF, 4, 2},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		tok := toks[i]
		assert.Equal(t, w.kind, tok.Kind, "token %d", i)
		assert.Equal(t, w.line, tok.Pos.Line(), "line of token %d (%s)", i, tok)
		assert.Equal(t, w.col, tok.Pos.Col(), "col of token %d (%s)", i, tok)
		assert.Equal(t, "p.lox", tok.Pos.Filename())
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		errs  []string
	}{
		{
			name:  "unexpected_char",
			src:   "a @ b",
			kinds: []Kind{Ident, Ident, EOF},
			errs:  []string{"1:3: Unexpected character '@'."},
		},
		{
			name:  "several_unexpected",
			src:   "#\n$",
			kinds: []Kind{EOF},
			errs:  []string{"1:1: Unexpected character '#'.", "2:1: Unexpected character '$'."},
		},
		{
			name:  "unterminated_string",
			src:   "print \"abc\ndef",
			kinds: []Kind{Print, EOF},
			errs:  []string{"1:7: Unterminated string."},
		},
		{
			name:  "unterminated_comment",
			src:   "x /* /* */",
			kinds: []Kind{Ident, EOF},
			errs:  []string{"1:3: Unterminated block comment."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, _, errs := scan(tt.src)
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.errs, errs)
		})
	}
}

func TestScannerEOFIsSticky(t *testing.T) {
	s := NewScanner("", strings.NewReader("x"), nil)
	assert.Equal(t, Ident, s.Next().Kind)
	for i := 0; i < 3; i++ {
		assert.Equal(t, EOF, s.Next().Kind)
	}
	assert.Equal(t, EOF, s.Token().Kind)
}
