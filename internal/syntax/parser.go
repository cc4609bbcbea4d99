package syntax

import "io"

const (
	// Maximum number of errors before aborting parse.
	maxErrors = 10

	// Maximum number of call arguments and function parameters.
	maxArgs = 255
)

// bailout unwinds the parser from the point of a syntax error to the
// nearest declaration boundary, where it resynchronizes.
type bailout struct{}

// Parser performs syntax analysis on Lox source code.
type Parser struct {
	scanner *Scanner

	tok  Token // current (lookahead) token
	prev Token // most recently consumed token

	// Error handling
	errh   ErrorHandler
	errcnt int
	first  *Error // first error encountered
	abort  bool   // set when the error limit is reached

	// Context tracking
	loops int // enclosing loop depth in the current function body
}

// NewParser creates a new Parser for the given source.
// The errh function is called for every lexical and syntax error.
func NewParser(filename string, src io.Reader, errh ErrorHandler) *Parser {
	p := &Parser{errh: errh}
	p.scanner = NewScanner(filename, src, func(line, col int, msg string) {
		p.report(&Error{Pos: NewPos(filename, line, col), Msg: msg, AtEnd: isUnterminated(msg)})
	})
	p.next() // prime the parser with the first token
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.prev = p.tok
	p.tok = p.scanner.Next()
}

// atEnd reports whether the parser has run out of input, or has given up.
func (p *Parser) atEnd() bool {
	return p.abort || p.tok.Kind == EOF
}

// check reports whether the current token has kind k.
func (p *Parser) check(k Kind) bool {
	return !p.atEnd() && p.tok.Kind == k
}

// got consumes the current token if it has one of the given kinds.
func (p *Parser) got(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.next()
			return true
		}
	}
	return false
}

// want consumes and returns the current token if it has kind k.
// Otherwise it reports msg and bails out.
func (p *Parser) want(k Kind, msg string) Token {
	if p.check(k) {
		p.next()
		return p.prev
	}
	p.fail(p.tok, msg)
	return Token{}
}

// ----------------------------------------------------------------------------
// Error handling

// report records err and forwards it to the error handler.
func (p *Parser) report(err *Error) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(err)
	}

	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(&Error{Pos: err.Pos, Msg: "too many errors; aborting parse"})
		}
	}
}

// error reports a syntax error at tok without interrupting the parse.
func (p *Parser) error(tok Token, msg string) {
	p.report(ErrorAt(tok, msg))
}

// fail reports a syntax error at tok and unwinds to the enclosing declaration.
func (p *Parser) fail(tok Token, msg string) {
	p.error(tok, msg)
	panic(bailout{})
}

// synchronize discards tokens until a likely statement boundary: just past
// a ';' or just before a token that starts a declaration.
func (p *Parser) synchronize() {
	if p.atEnd() {
		return
	}
	p.next()
	for !p.atEnd() {
		if p.prev.Kind == Semicolon || p.tok.Kind.StartsDeclaration() {
			return
		}
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	if p.first == nil {
		return nil
	}
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete program. Statements that failed to parse are
// omitted; callers must consult Errors before evaluating the result.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	prog.pos = p.tok.Pos

	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}
	return prog
}

// ----------------------------------------------------------------------------
// Declarations

// declaration parses a declaration or statement. It is the recovery point
// for syntax errors: on failure it resynchronizes and returns nil.
func (p *Parser) declaration() (s Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.got(Class):
		return p.classDecl()
	case p.got(Fun):
		return p.function(FuncFunction)
	case p.got(Var):
		return p.varDecl()
	}
	return p.statement()
}

// classDecl parses: class Name [< Super] { methods... }
func (p *Parser) classDecl() Stmt {
	d := &ClassStmt{}
	d.pos = p.prev.Pos
	d.Name = p.want(Ident, "Expect class name.")

	if p.got(Less) {
		name := p.want(Ident, "Expect superclass name.")
		d.Superclass = &Variable{Name: name}
		d.Superclass.pos = name.Pos
	}

	p.want(LeftBrace, "Expect '{' before class body.")
	for !p.check(RightBrace) && !p.atEnd() {
		d.Methods = append(d.Methods, p.function(FuncMethod))
	}
	p.want(RightBrace, "Expect '}' after class body.")
	return d
}

// function parses a named function after `fun`, or a method declaration
// inside a class body. Inside a class body a leading `class` marks a static
// method, and a name followed directly by '{' declares a getter.
func (p *Parser) function(kind FuncKind) *FuncStmt {
	d := &FuncStmt{}
	d.pos = p.tok.Pos
	if kind == FuncMethod && p.got(Class) {
		kind = FuncStatic
	}
	d.Name = p.want(Ident, "Expect "+kind.String()+" name.")

	if p.check(LeftBrace) {
		if kind != FuncMethod {
			p.error(p.tok, "Getters are only allowed in class bodies.")
		}
		kind = FuncGetter
	} else {
		p.want(LeftParen, "Expect '(' after "+kind.String()+" name.")
		d.Params = p.params()
	}
	d.Kind = kind

	p.want(LeftBrace, "Expect '{' before "+kind.String()+" body.")
	d.Body = p.funcBody()
	return d
}

// params parses a parameter list up to and including the closing ')'.
func (p *Parser) params() []Token {
	var params []Token
	if !p.check(RightParen) {
		for {
			if len(params) >= maxArgs {
				p.error(p.tok, "Can't have more than 255 parameters.")
			}
			params = append(params, p.want(Ident, "Expect parameter name."))
			if !p.got(Comma) {
				break
			}
		}
	}
	p.want(RightParen, "Expect ')' after parameters.")
	return params
}

// funcBody parses a function body after its '{'. Loops enclosing the
// function do not extend into its body.
func (p *Parser) funcBody() []Stmt {
	loops := p.loops
	p.loops = 0
	defer func() { p.loops = loops }()
	return p.block()
}

// varDecl parses: var Name [= Init];
func (p *Parser) varDecl() Stmt {
	d := &VarStmt{}
	d.pos = p.prev.Pos
	d.Name = p.want(Ident, "Expect variable name.")
	if p.got(Equal) {
		d.Init = p.expression()
	}
	p.want(Semicolon, "Expect ';' after variable declaration.")
	return d
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) statement() Stmt {
	switch {
	case p.got(LeftBrace):
		s := &BlockStmt{}
		s.pos = p.prev.Pos
		s.Stmts = p.block()
		return s
	case p.got(If):
		return p.ifStmt()
	case p.got(While):
		return p.whileStmt()
	case p.got(For):
		return p.forStmt()
	case p.got(Print):
		return p.printStmt()
	case p.got(Break):
		return p.breakStmt()
	case p.got(Return):
		return p.returnStmt()
	}
	return p.exprStmt()
}

// block parses statements after '{' up to and including the matching '}'.
func (p *Parser) block() []Stmt {
	var list []Stmt
	for !p.check(RightBrace) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			list = append(list, s)
		}
	}
	p.want(RightBrace, "Expect '}' after block.")
	return list
}

func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'if'.")
	s.Cond = p.expression()
	p.want(RightParen, "Expect ')' after if condition.")
	s.Then = p.statement()
	if p.got(Else) {
		s.Else = p.statement()
	}
	return s
}

func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'while'.")
	s.Cond = p.expression()
	p.want(RightParen, "Expect ')' after condition.")
	s.Body = p.loopBody()
	return s
}

// forStmt parses a for loop and desugars it:
//
//	for (init; cond; incr) body  =>  { init; while (cond) { body; incr; } }
func (p *Parser) forStmt() Stmt {
	pos := p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'for'.")

	var init Stmt
	switch {
	case p.got(Semicolon):
	case p.got(Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if !p.check(Semicolon) {
		cond = p.expression()
	}
	p.want(Semicolon, "Expect ';' after loop condition.")

	var incr Expr
	if !p.check(RightParen) {
		incr = p.expression()
	}
	p.want(RightParen, "Expect ')' after for clauses.")

	body := p.loopBody()

	if incr != nil {
		step := &ExprStmt{X: incr}
		step.pos = incr.Pos()
		b := &BlockStmt{Stmts: []Stmt{body, step}}
		b.pos = body.Pos()
		body = b
	}
	if cond == nil {
		lit := &Literal{Value: true}
		lit.pos = pos
		cond = lit
	}
	loop := &WhileStmt{Cond: cond, Body: body}
	loop.pos = pos

	if init == nil {
		return loop
	}
	outer := &BlockStmt{Stmts: []Stmt{init, loop}}
	outer.pos = pos
	return outer
}

// loopBody parses a loop body with break enabled.
func (p *Parser) loopBody() Stmt {
	p.loops++
	defer func() { p.loops-- }()
	return p.statement()
}

func (p *Parser) printStmt() Stmt {
	s := &PrintStmt{}
	s.pos = p.prev.Pos
	s.X = p.expression()
	p.want(Semicolon, "Expect ';' after value.")
	return s
}

func (p *Parser) breakStmt() Stmt {
	s := &BreakStmt{Keyword: p.prev}
	s.pos = p.prev.Pos
	if p.loops == 0 {
		p.error(p.prev, "Can't use 'break' outside of a loop.")
	}
	p.want(Semicolon, "Expect ';' after 'break'.")
	return s
}

func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{Keyword: p.prev}
	s.pos = p.prev.Pos
	if !p.check(Semicolon) {
		s.Result = p.expression()
	}
	p.want(Semicolon, "Expect ';' after return value.")
	return s
}

func (p *Parser) exprStmt() Stmt {
	x := p.expression()
	s := &ExprStmt{X: x}
	s.pos = x.Pos()
	p.want(Semicolon, "Expect ';' after expression.")
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expression() Expr {
	return p.assignment()
}

// assignment is right-recursive. The target is parsed as an ordinary
// expression first and then checked: only variables and property reads
// can be assigned to.
func (p *Parser) assignment() Expr {
	x := p.ternary()
	if !p.got(Equal) {
		return x
	}
	equals := p.prev
	value := p.assignment()

	switch t := x.(type) {
	case *Variable:
		a := &Assign{Name: t.Name, Value: value}
		a.pos = t.pos
		return a
	case *Get:
		s := &Set{X: t.X, Name: t.Name, Value: value}
		s.pos = t.pos
		return s
	}
	p.error(equals, "Invalid assignment target.")
	return x
}

// ternary parses cond ? then : else. Both branches are parsed at equality
// precedence, so `a ? b = 1 : c` and unparenthesized nested conditionals
// in a branch are rejected.
func (p *Parser) ternary() Expr {
	x := p.or()
	if !p.got(Question) {
		return x
	}
	t := &Ternary{Cond: x}
	t.pos = x.Pos()
	t.Then = p.equality()
	p.want(Colon, "Expect ':' after then branch of conditional expression.")
	t.Else = p.equality()
	return t
}

func (p *Parser) or() Expr {
	x := p.and()
	for p.got(Or) {
		l := &Logical{X: x, Op: p.prev}
		l.pos = x.Pos()
		l.Y = p.and()
		x = l
	}
	return x
}

func (p *Parser) and() Expr {
	x := p.equality()
	for p.got(And) {
		l := &Logical{X: x, Op: p.prev}
		l.pos = x.Pos()
		l.Y = p.equality()
		x = l
	}
	return x
}

func (p *Parser) equality() Expr {
	return p.binary(p.comparison, BangEqual, EqualEqual)
}

func (p *Parser) comparison() Expr {
	return p.binary(p.term, Greater, GreaterEqual, Less, LessEqual)
}

func (p *Parser) term() Expr {
	return p.binary(p.factor, Minus, Plus)
}

func (p *Parser) factor() Expr {
	return p.binary(p.unary, Slash, Star)
}

// binary parses a left-associative chain of operand (op operand)*.
func (p *Parser) binary(operand func() Expr, ops ...Kind) Expr {
	x := operand()
	for p.got(ops...) {
		b := &Binary{X: x, Op: p.prev}
		b.pos = x.Pos()
		b.Y = operand()
		x = b
	}
	return x
}

func (p *Parser) unary() Expr {
	if p.got(Bang, Minus) {
		u := &Unary{Op: p.prev}
		u.pos = p.prev.Pos
		u.X = p.unary()
		return u
	}
	if p.got(Plus, Star, Slash) {
		// A binary operator with no left operand. Consume the right
		// operand so recovery resumes after the whole expression.
		op := p.prev
		p.unary()
		p.fail(op, "Binary operator '"+op.Lexeme+"' without left operand.")
	}
	return p.call()
}

// call parses a primary expression followed by any chain of calls and
// property reads: a.b(c).d(e)
func (p *Parser) call() Expr {
	x := p.primary()
	for {
		switch {
		case p.got(LeftParen):
			x = p.finishCall(x)
		case p.got(Dot):
			g := &Get{X: x}
			g.pos = x.Pos()
			g.Name = p.want(Ident, "Expect property name after '.'.")
			x = g
		default:
			return x
		}
	}
}

func (p *Parser) finishCall(fun Expr) Expr {
	c := &Call{Fun: fun}
	c.pos = fun.Pos()
	if !p.check(RightParen) {
		for {
			if len(c.Args) >= maxArgs {
				p.error(p.tok, "Can't have more than 255 arguments.")
			}
			c.Args = append(c.Args, p.expression())
			if !p.got(Comma) {
				break
			}
		}
	}
	c.Paren = p.want(RightParen, "Expect ')' after arguments.")
	return c
}

func (p *Parser) primary() Expr {
	switch {
	case p.got(False):
		return p.literal(false)
	case p.got(True):
		return p.literal(true)
	case p.got(Nil):
		return p.literal(nil)
	case p.got(Number, String):
		return p.literal(p.prev.Literal)

	case p.got(SuperKw):
		s := &Super{Keyword: p.prev}
		s.pos = p.prev.Pos
		p.want(Dot, "Expect '.' after 'super'.")
		s.Method = p.want(Ident, "Expect superclass method name.")
		return s

	case p.got(ThisKw):
		t := &This{Keyword: p.prev}
		t.pos = p.prev.Pos
		return t

	case p.got(Ident):
		v := &Variable{Name: p.prev}
		v.pos = p.prev.Pos
		return v

	case p.got(Fun):
		return p.funcLit()

	case p.got(LeftParen):
		g := &Grouping{}
		g.pos = p.prev.Pos
		g.X = p.expression()
		p.want(RightParen, "Expect ')' after expression.")
		return g
	}

	p.fail(p.tok, "Expect expression.")
	return nil
}

func (p *Parser) literal(v any) Expr {
	lit := &Literal{Value: v}
	lit.pos = p.prev.Pos
	return lit
}

// funcLit parses an anonymous function after `fun`: (params) { body }
func (p *Parser) funcLit() Expr {
	f := &FuncLit{}
	f.pos = p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'fun'.")
	f.Params = p.params()
	p.want(LeftBrace, "Expect '{' before lambda body.")
	f.Body = p.funcBody()
	return f
}
