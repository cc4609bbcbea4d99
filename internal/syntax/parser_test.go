package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Test helpers

func parse(t *testing.T, src string) (*Program, []*Error) {
	t.Helper()
	var errs []*Error
	p := NewParser("test.lox", strings.NewReader(src), func(err *Error) {
		errs = append(errs, err)
	})
	prog := p.Parse()
	require.NotNil(t, prog, "Parse returned nil")
	return prog, errs
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, errs := parse(t, src)
	require.Empty(t, errs, "unexpected syntax errors")
	return prog
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog := mustParse(t, src+";")
	require.Len(t, prog.Stmts, 1)
	s, ok := prog.Stmts[0].(*ExprStmt)
	require.True(t, ok, "got %T, want *ExprStmt", prog.Stmts[0])
	return s.X
}

func errStrings(errs []*Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// ----------------------------------------------------------------------------
// Expressions

func TestParseExpr(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"-!x", "(- (! x))"},
		{"--1", "(- (- 1))"},
		{"a = b = c", "(= a (= b c))"},
		{"a or b and c", "(or a (and b c))"},
		{"a and b or c", "(or (and a b) c)"},
		{"a == b < c", "(== a (< b c))"},
		{"a != b == c", "(== (!= a b) c)"},
		{"1 <= 2 >= 3", "(>= (<= 1 2) 3)"},
		{`"s" + 1.5`, `(+ "s" 1.5)`},
		{"true != nil", "(!= true nil)"},
		{"a ? b : c", "(?: a b c)"},
		{"x or y ? 1 : 2", "(?: (or x y) 1 2)"},
		{"a ? b == c : d != e", "(?: a (== b c) (!= d e))"},
		{"a ? (b ? c : d) : e", "(?: a (group (?: b c d)) e)"},
		{"v = a ? b : c", "(= v (?: a b c))"},
		{"f()", "(call f)"},
		{"f()()", "(call (call f))"},
		{"a.b.c(1, 2)", "(call (.c (.b a)) 1 2)"},
		{"a.b = 3", "(=.b a 3)"},
		{"a.b.c = d = 1", "(=.c (.b a) (= d 1))"},
		{"this.x", "(.x this)"},
		{"super.m(1)", "(call super.m 1)"},
		{"f = fun (a, b) { return a; }", "(= f (fun (a, b)))"},
		{"(fun () {})()", "(call (group (fun ())))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := ExprString(parseExpr(t, tt.src))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteralValues(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"12.5", 12.5},
		{`"text"`, "text"},
		{"true", true},
		{"false", false},
		{"nil", nil},
	}

	for _, tt := range tests {
		lit, ok := parseExpr(t, tt.src).(*Literal)
		require.True(t, ok, "%s: not a literal", tt.src)
		assert.Equal(t, tt.want, lit.Value, tt.src)
	}
}

func TestParseAssignNodes(t *testing.T) {
	a, ok := parseExpr(t, "x = 1").(*Assign)
	require.True(t, ok)
	assert.Equal(t, "x", a.Name.Lexeme)

	s, ok := parseExpr(t, "o.f = 2").(*Set)
	require.True(t, ok)
	assert.Equal(t, "f", s.Name.Lexeme)
	assert.IsType(t, &Variable{}, s.X)
}

// ----------------------------------------------------------------------------
// Statements

func TestParseForDesugar(t *testing.T) {
	prog := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, prog.Stmts, 1)

	outer, ok := prog.Stmts[0].(*BlockStmt)
	require.True(t, ok, "for with initializer should produce a block")
	require.Len(t, outer.Stmts, 2)
	assert.IsType(t, &VarStmt{}, outer.Stmts[0])

	loop, ok := outer.Stmts[1].(*WhileStmt)
	require.True(t, ok)
	assert.Equal(t, "(< i 3)", ExprString(loop.Cond))

	body, ok := loop.Body.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
	assert.IsType(t, &PrintStmt{}, body.Stmts[0])
	incr, ok := body.Stmts[1].(*ExprStmt)
	require.True(t, ok)
	assert.Equal(t, "(= i (+ i 1))", ExprString(incr.X))
}

func TestParseForEmptyClauses(t *testing.T) {
	prog := mustParse(t, "for (;;) break;")
	require.Len(t, prog.Stmts, 1)

	loop, ok := prog.Stmts[0].(*WhileStmt)
	require.True(t, ok)
	assert.Equal(t, "true", ExprString(loop.Cond))
	assert.IsType(t, &BreakStmt{}, loop.Body)
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if (a) if (b) print 1; else print 2;")
	outer := prog.Stmts[0].(*IfStmt)
	assert.Nil(t, outer.Else, "else binds to the nearest if")
	inner := outer.Then.(*IfStmt)
	assert.NotNil(t, inner.Else)
}

func TestParseBreakInLoops(t *testing.T) {
	mustParse(t, `
while (true) { if (x) break; }
for (;;) { { break; } }
while (a) while (b) break;
`)
}

func TestParseFunctions(t *testing.T) {
	prog := mustParse(t, `
fun add(a, b) { return a + b; }
fun noop() { return; }
`)
	require.Len(t, prog.Stmts, 2)

	add := prog.Stmts[0].(*FuncStmt)
	assert.Equal(t, FuncFunction, add.Kind)
	assert.Equal(t, "add", add.Name.Lexeme)
	assert.Equal(t, []string{"a", "b"}, lexemes(add.Params))
	require.Len(t, add.Body, 1)

	ret := prog.Stmts[1].(*FuncStmt).Body[0].(*ReturnStmt)
	assert.Nil(t, ret.Result)
}

func TestParseClass(t *testing.T) {
	prog := mustParse(t, `
class Square < Shape {
  init(side) { this.side = side; }
  area { return this.side * this.side; }
  class unit() { return Square(1); }
}
`)
	require.Len(t, prog.Stmts, 1)
	c := prog.Stmts[0].(*ClassStmt)

	assert.Equal(t, "Square", c.Name.Lexeme)
	require.NotNil(t, c.Superclass)
	assert.Equal(t, "Shape", c.Superclass.Name.Lexeme)

	var kinds []FuncKind
	var names []string
	for _, m := range c.Methods {
		kinds = append(kinds, m.Kind)
		names = append(names, m.Name.Lexeme)
	}
	assert.Equal(t, []FuncKind{FuncMethod, FuncGetter, FuncStatic}, kinds)
	assert.Equal(t, []string{"init", "area", "unit"}, names)
	assert.Empty(t, c.Methods[1].Params)
}

// ----------------------------------------------------------------------------
// Errors

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		errs []string
	}{
		{"missing_operand", "1 + ;", []string{"[line 1] Error at ';': Expect expression."}},
		{"var_name", "var 1 = 2;", []string{"[line 1] Error at '1': Expect variable name."}},
		{"missing_semicolon", "print 1", []string{"[line 1] Error at end: Expect ';' after value."}},
		{"assign_literal", "1 = 2;", []string{"[line 1] Error at '=': Invalid assignment target."}},
		{"assign_group", "(a) = 2;", []string{"[line 1] Error at '=': Invalid assignment target."}},
		{"assign_in_ternary_branch", "a ? b = 1 : c;",
			[]string{"[line 1] Error at '=': Expect ':' after then branch of conditional expression."}},
		{"break_outside_loop", "break;", []string{"[line 1] Error at 'break': Can't use 'break' outside of a loop."}},
		{"break_in_function_in_loop", "while (true) { fun f() { break; } }",
			[]string{"[line 1] Error at 'break': Can't use 'break' outside of a loop."}},
		{"break_in_lambda_in_loop", "while (true) { var f = fun () { break; }; }",
			[]string{"[line 1] Error at 'break': Can't use 'break' outside of a loop."}},
		{"leading_star", "* 3;", []string{"[line 1] Error at '*': Binary operator '*' without left operand."}},
		{"leading_plus", "print + 3;", []string{"[line 1] Error at '+': Binary operator '+' without left operand."}},
		{"getter_outside_class", "fun f { }", []string{"[line 1] Error at '{': Getters are only allowed in class bodies."}},
		{"static_getter", "class A { class g {} }", []string{"[line 1] Error at '{': Getters are only allowed in class bodies."}},
		{"multiple_inheritance", "class A < B, C {}", []string{"[line 1] Error at ',': Expect '{' before class body."}},
		{"bare_super", "super;", []string{"[line 1] Error at ';': Expect '.' after 'super'."}},
		{"property_name", "a.1;", []string{"[line 1] Error at '1': Expect property name after '.'."}},
		{"unclosed_paren", "(1 + 2;", []string{"[line 1] Error at ';': Expect ')' after expression."}},
		{"unclosed_block", "{ print 1;", []string{"[line 1] Error at end: Expect '}' after block."}},
		{"method_name", "class A { 1 }", []string{"[line 1] Error at '1': Expect method name."}},
		{"lexical", "print \"abc", []string{
			"[line 1] Error: Unterminated string.",
			"[line 1] Error at end: Expect expression.",
		}},
		{"error_line", "print 1;\n\nprint ;", []string{"[line 3] Error at ';': Expect expression."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parse(t, tt.src)
			if diff := cmp.Diff(tt.errs, errStrings(errs)); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	prog, errs := parse(t, "var = 1;\nprint 2;\nvar b = ;\nprint 3;\nclass { }\nfun ok() {}")

	assert.Equal(t, []string{
		"[line 1] Error at '=': Expect variable name.",
		"[line 3] Error at ';': Expect expression.",
		"[line 5] Error at '{': Expect class name.",
	}, errStrings(errs))

	// statements that failed are dropped, the rest survive
	require.Len(t, prog.Stmts, 3)
	assert.IsType(t, &PrintStmt{}, prog.Stmts[0])
	assert.IsType(t, &PrintStmt{}, prog.Stmts[1])
	assert.IsType(t, &FuncStmt{}, prog.Stmts[2])
}

func TestParseRecoveryInsideBlock(t *testing.T) {
	prog, errs := parse(t, "{ print ; print 1; }\nprint 2;")
	require.Len(t, errs, 1)
	require.Len(t, prog.Stmts, 2)

	block := prog.Stmts[0].(*BlockStmt)
	assert.Len(t, block.Stmts, 1, "the bad statement inside the block is dropped")
}

func TestParseErrorLimit(t *testing.T) {
	var errs []*Error
	p := NewParser("", strings.NewReader(strings.Repeat("1 +;\n", 15)), func(err *Error) {
		errs = append(errs, err)
	})
	p.Parse()

	assert.Equal(t, maxErrors, p.Errors())
	require.Len(t, errs, maxErrors+1)
	assert.Equal(t, "too many errors; aborting parse", errs[maxErrors].Msg)
	assert.Equal(t, "[line 1] Error at ';': Expect expression.", p.FirstError().Error())
}

func TestParseNoErrors(t *testing.T) {
	p := NewParser("", strings.NewReader("print 1;"), nil)
	p.Parse()
	assert.Zero(t, p.Errors())
	assert.NoError(t, p.FirstError())
}

func TestParseArgumentLimit(t *testing.T) {
	args := strings.TrimSuffix(strings.Repeat("a, ", 256), ", ")
	prog, errs := parse(t, "f("+args+");")

	assert.Equal(t, []string{"[line 1] Error at 'a': Can't have more than 255 arguments."}, errStrings(errs))
	call := prog.Stmts[0].(*ExprStmt).X.(*Call)
	assert.Len(t, call.Args, 256)

	_, errs = parse(t, "f("+strings.TrimSuffix(strings.Repeat("a, ", 255), ", ")+");")
	assert.Empty(t, errs)
}

func TestParseParameterLimit(t *testing.T) {
	var params []string
	for i := 0; i < 256; i++ {
		params = append(params, fmt.Sprintf("p%d", i))
	}
	_, errs := parse(t, "fun f("+strings.Join(params, ", ")+") {}")
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't have more than 255 parameters.", errs[0].Msg)
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"fun f() {", true},
		{"print 1 +", true},
		{"print \"abc", true},
		{"/* open", true},
		{"print 1;", false}, // no errors at all
		{"print 1; }", false},
		{"print ;", false},
	}

	for _, tt := range tests {
		_, errs := parse(t, tt.src)
		assert.Equal(t, tt.want, IsIncomplete(errs), "IsIncomplete(%q)", tt.src)
	}
}

// ----------------------------------------------------------------------------
// Printing

func TestFprint(t *testing.T) {
	prog := mustParse(t, "var x = 1 + 2;\nprint x;")

	var buf bytes.Buffer
	Fprint(&buf, prog)

	want := `Program test.lox:1:1
  VarStmt test.lox:1:1 x
    Init:
      Binary test.lox:1:9 +
        X:
          Literal test.lox:1:9 1
        Y:
          Literal test.lox:1:13 2
  PrintStmt test.lox:2:1
    Variable test.lox:2:7 x
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Fprint mismatch (-want +got):\n%s", diff)
	}
}

func TestFprintJSON(t *testing.T) {
	prog := mustParse(t, "class A < B { get { return 1; } }")

	var buf bytes.Buffer
	require.NoError(t, FprintJSON(&buf, prog))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "Program", got["type"])
	stmts := got["stmts"].([]interface{})
	require.Len(t, stmts, 1)

	class := stmts[0].(map[string]interface{})
	assert.Equal(t, "ClassStmt", class["type"])
	assert.Equal(t, "A", class["name"])
	assert.Equal(t, "B", class["superclass"])

	method := class["methods"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "getter", method["kind"])
	assert.Equal(t, []interface{}{}, method["params"])
}

func TestWalkVisitsAllNodes(t *testing.T) {
	prog := mustParse(t, `
class A { m() { return this.x + super.y; } }
fun f(a) { while (a) { a = a - 1; } }
print f(1) ? -2 : (3);
`)

	assert.Len(t, Inspect[*ClassStmt](prog), 1)
	assert.Len(t, Inspect[*FuncStmt](prog), 2)
	assert.Len(t, Inspect[*This](prog), 1)
	assert.Len(t, Inspect[*Super](prog), 1)
	assert.Len(t, Inspect[*Assign](prog), 1)
	assert.Len(t, Inspect[*Literal](prog), 4)

	var vars []string
	for _, v := range Inspect[*Variable](prog) {
		vars = append(vars, v.Name.Lexeme)
	}
	assert.Equal(t, []string{"a", "a", "f"}, vars)
}
