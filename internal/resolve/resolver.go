package resolve

import (
	"github.com/you-not-fish/lox/internal/syntax"
)

// funcKind describes the innermost function being resolved.
type funcKind int

const (
	noFunc funcKind = iota
	function
	lambda
	method
	initializer
	getter
	static
)

// classKind describes the innermost class being resolved.
type classKind int

const (
	noClass classKind = iota
	class
	subclass
)

// resolver is the state of a single Resolve call.
type resolver struct {
	conf *Config
	info *Info

	// scopes is the stack of local scopes, innermost last. It is empty at
	// the top level: globals are never tracked.
	scopes []*scope

	fn       funcKind
	class    classKind
	inStatic bool // inside a static method, at any function depth

	// Error tracking
	errors int
	first  *syntax.Error
}

// ----------------------------------------------------------------------------
// Scopes

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) top() *scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare adds name to the innermost scope, reporting a redeclaration.
func (r *resolver) declare(name syntax.Token) {
	s := r.top()
	if s == nil {
		return
	}
	if !s.declare(name.Lexeme) {
		r.errorf(name, "Already a variable with this name in this scope.")
	}
}

func (r *resolver) define(name syntax.Token) {
	if s := r.top(); s != nil {
		s.define(name.Lexeme)
	}
}

// resolveLocal records the distance from the innermost scope to the scope
// that declares name. Nothing is recorded when name is not found locally.
func (r *resolver) resolveLocal(x syntax.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if present, _ := r.scopes[i].lookup(name); present {
			if r.info != nil {
				r.info.Locals[x] = len(r.scopes) - 1 - i
			}
			return
		}
	}
}

// ----------------------------------------------------------------------------
// Statements

func (r *resolver) resolveStmts(list []syntax.Stmt) {
	for _, s := range list {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *syntax.VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *syntax.FuncStmt:
		// The name is defined before the body so the function can
		// refer to itself recursively.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, function)

	case *syntax.ClassStmt:
		r.resolveClass(s)

	case *syntax.ExprStmt:
		r.resolveExpr(s.X)

	case *syntax.PrintStmt:
		r.resolveExpr(s.X)

	case *syntax.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *syntax.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *syntax.BreakStmt:
		// placement is checked by the parser

	case *syntax.ReturnStmt:
		if r.fn == noFunc {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Result != nil {
			r.resolveExpr(s.Result)
		}
	}
}

// resolveFunction resolves a function body in a new scope holding its
// parameters. The body shares that scope, as it shares the call frame at
// run time.
func (r *resolver) resolveFunction(params []syntax.Token, body []syntax.Stmt, kind funcKind) {
	enclosing := r.fn
	r.fn = kind
	defer func() { r.fn = enclosing }()

	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(body)
	r.endScope()
}

func (r *resolver) resolveClass(s *syntax.ClassStmt) {
	enclosingClass, enclosingStatic := r.class, r.inStatic
	r.class, r.inStatic = class, false
	defer func() { r.class, r.inStatic = enclosingClass, enclosingStatic }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorf(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = subclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.top().define("super")
		defer r.endScope()
	}

	for _, m := range s.Methods {
		if m.Kind == syntax.FuncStatic {
			// Static methods are never bound, so they see no `this`.
			r.inStatic = true
			r.resolveFunction(m.Params, m.Body, static)
			r.inStatic = false
			continue
		}

		kind := method
		switch {
		case m.Kind == syntax.FuncGetter:
			kind = getter
		case m.Name.Lexeme == "init":
			kind = initializer
		}

		r.beginScope()
		r.top().define("this")
		r.resolveFunction(m.Params, m.Body, kind)
		r.endScope()
	}
}

// ----------------------------------------------------------------------------
// Expressions

func (r *resolver) resolveExpr(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.Variable:
		if s := r.top(); s != nil {
			if present, defined := s.lookup(x.Name.Lexeme); present && !defined {
				r.errorf(x.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(x, x.Name.Lexeme)

	case *syntax.Assign:
		r.resolveExpr(x.Value)
		r.resolveLocal(x, x.Name.Lexeme)

	case *syntax.This:
		switch {
		case r.class == noClass:
			r.errorf(x.Keyword, "Can't use 'this' outside of a class.")
			return
		case r.inStatic:
			r.errorf(x.Keyword, "Can't use 'this' in a static method.")
			return
		}
		r.resolveLocal(x, "this")

	case *syntax.Super:
		switch {
		case r.class == noClass:
			r.errorf(x.Keyword, "Can't use 'super' outside of a class.")
			return
		case r.class != subclass:
			r.errorf(x.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		case r.inStatic:
			r.errorf(x.Keyword, "Can't use 'super' in a static method.")
			return
		}
		r.resolveLocal(x, "super")

	case *syntax.FuncLit:
		r.resolveFunction(x.Params, x.Body, lambda)

	case *syntax.Literal:
		// nothing to resolve

	case *syntax.Grouping:
		r.resolveExpr(x.X)

	case *syntax.Unary:
		r.resolveExpr(x.X)

	case *syntax.Binary:
		r.resolveExpr(x.X)
		r.resolveExpr(x.Y)

	case *syntax.Logical:
		r.resolveExpr(x.X)
		r.resolveExpr(x.Y)

	case *syntax.Ternary:
		r.resolveExpr(x.Cond)
		r.resolveExpr(x.Then)
		r.resolveExpr(x.Else)

	case *syntax.Call:
		r.resolveExpr(x.Fun)
		for _, a := range x.Args {
			r.resolveExpr(a)
		}

	case *syntax.Get:
		r.resolveExpr(x.X)

	case *syntax.Set:
		r.resolveExpr(x.X)
		r.resolveExpr(x.Value)
	}
}
