package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child one level deeper.
func (p *printer) field(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) stmts(label string, list []Stmt) {
	if len(list) == 0 {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	for _, s := range list {
		p.print(s)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	// statements
	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *VarStmt:
		p.printf("VarStmt %s %s\n", n.pos, n.Name.Lexeme)
		if n.Init != nil {
			p.indent++
			p.field("Init", n.Init)
			p.indent--
		}

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		if n.Else != nil {
			p.field("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *BreakStmt:
		p.printf("BreakStmt %s\n", n.pos)

	case *FuncStmt:
		p.printf("FuncStmt %s %s %s(%s)\n", n.pos, n.Kind, n.Name.Lexeme, paramList(n.Params))
		p.indent++
		p.stmts("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *ClassStmt:
		if n.Superclass != nil {
			p.printf("ClassStmt %s %s < %s\n", n.pos, n.Name.Lexeme, n.Superclass.Name.Lexeme)
		} else {
			p.printf("ClassStmt %s %s\n", n.pos, n.Name.Lexeme)
		}
		p.indent++
		for _, m := range n.Methods {
			p.print(m)
		}
		p.indent--

	// expressions
	case *Literal:
		p.printf("Literal %s %s\n", n.pos, literalString(n.Value))

	case *Grouping:
		p.printf("Grouping %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Unary:
		p.printf("Unary %s %s\n", n.pos, n.Op.Kind)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Binary:
		p.printf("Binary %s %s\n", n.pos, n.Op.Kind)
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *Logical:
		p.printf("Logical %s %s\n", n.pos, n.Op.Kind)
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *Ternary:
		p.printf("Ternary %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		p.field("Else", n.Else)
		p.indent--

	case *Variable:
		p.printf("Variable %s %s\n", n.pos, n.Name.Lexeme)

	case *Assign:
		p.printf("Assign %s %s\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *Call:
		p.printf("Call %s\n", n.pos)
		p.indent++
		p.field("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *FuncLit:
		p.printf("FuncLit %s (%s)\n", n.pos, paramList(n.Params))
		p.indent++
		p.stmts("Body", n.Body)
		p.indent--

	case *Get:
		p.printf("Get %s .%s\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Set:
		p.printf("Set %s .%s\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.field("X", n.X)
		p.field("Value", n.Value)
		p.indent--

	case *This:
		p.printf("This %s\n", n.pos)

	case *Super:
		p.printf("Super %s .%s\n", n.pos, n.Method.Lexeme)

	default:
		p.printf("<%T>\n", node)
	}
}

func paramList(params []Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return strings.Join(names, ", ")
}

// literalString formats a literal value as it appears in printed trees.
func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprintf("%v", v)
}

// ExprString returns a compact parenthesized form of an expression, with
// every operator in prefix position: 1 + 2 * 3 prints as (+ 1 (* 2 3)).
func ExprString(x Expr) string {
	var b strings.Builder
	writeExpr(&b, x)
	return b.String()
}

func writeExpr(b *strings.Builder, x Expr) {
	paren := func(name string, parts ...Expr) {
		b.WriteString("(" + name)
		for _, p := range parts {
			b.WriteByte(' ')
			writeExpr(b, p)
		}
		b.WriteByte(')')
	}

	switch x := x.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Literal:
		b.WriteString(literalString(x.Value))
	case *Grouping:
		paren("group", x.X)
	case *Unary:
		paren(x.Op.Lexeme, x.X)
	case *Binary:
		paren(x.Op.Lexeme, x.X, x.Y)
	case *Logical:
		paren(x.Op.Lexeme, x.X, x.Y)
	case *Ternary:
		paren("?:", x.Cond, x.Then, x.Else)
	case *Variable:
		b.WriteString(x.Name.Lexeme)
	case *Assign:
		paren("= "+x.Name.Lexeme, x.Value)
	case *Call:
		paren("call", append([]Expr{x.Fun}, x.Args...)...)
	case *FuncLit:
		fmt.Fprintf(b, "(fun (%s))", paramList(x.Params))
	case *Get:
		paren("."+x.Name.Lexeme, x.X)
	case *Set:
		paren("=."+x.Name.Lexeme, x.X, x.Value)
	case *This:
		b.WriteString("this")
	case *Super:
		b.WriteString("super." + x.Method.Lexeme)
	default:
		fmt.Fprintf(b, "<%T>", x)
	}
}
