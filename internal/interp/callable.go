package interp

import (
	"github.com/you-not-fish/lox/internal/syntax"
)

// Callable is implemented by every value that can appear before a call's
// argument list: native functions, user functions, lambdas and classes.
type Callable interface {
	// Arity is the exact number of arguments the callable accepts.
	Arity() int
	// Call invokes the callable. len(args) == Arity() is guaranteed.
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFunction is a builtin implemented in Go.
type NativeFunction struct {
	Name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (f *NativeFunction) Arity() int { return f.arity }

func (f *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return f.fn(in, args)
}

func (f *NativeFunction) String() string { return "<native fn>" }

// Function is a named function, method, getter or static method together
// with the frame it closes over.
type Function struct {
	decl          *syntax.FuncStmt
	closure       *Environment
	this          *Instance // receiver set by Bind
	isInitializer bool
}

func newFunction(decl *syntax.FuncStmt, closure *Environment) *Function {
	return &Function{
		decl:          decl,
		closure:       closure,
		isInitializer: decl.Kind == syntax.FuncMethod && decl.Name.Lexeme == "init",
	}
}

// Name returns the declared name.
func (f *Function) Name() string { return f.decl.Name.Lexeme }

// IsGetter reports whether f runs implicitly on property access.
func (f *Function) IsGetter() bool { return f.decl.Kind == syntax.FuncGetter }

// Unbound reports whether f is an instance method or getter read off its
// class. Calling it is an error since it has no receiver.
func (f *Function) Unbound() bool {
	k := f.decl.Kind
	return (k == syntax.FuncMethod || k == syntax.FuncGetter) && f.this == nil
}

func (f *Function) Arity() int { return len(f.decl.Params) }

// Bind returns a copy of f whose closure is a new frame, enclosing the
// original closure, that binds "this" to inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", inst)
	return &Function{decl: f.decl, closure: env, this: inst, isInitializer: f.isInitializer}
}

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	result, err := in.callBody(f.decl.Params, f.decl.Body, f.closure, args)
	if err != nil {
		return nil, err
	}
	// An initializer always produces its instance, even after `return;`.
	if f.isInitializer {
		return f.this, nil
	}
	return result, nil
}

func (f *Function) String() string { return "<fn " + f.decl.Name.Lexeme + ">" }

// Lambda is an anonymous function value.
type Lambda struct {
	decl    *syntax.FuncLit
	closure *Environment
}

func (l *Lambda) Arity() int { return len(l.decl.Params) }

func (l *Lambda) Call(in *Interpreter, args []Value) (Value, error) {
	return in.callBody(l.decl.Params, l.decl.Body, l.closure, args)
}

func (l *Lambda) String() string { return "<lambda>" }
