package interp

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

func (in *Interpreter) eval(x syntax.Expr) (Value, error) {
	switch x := x.(type) {
	case *syntax.Literal:
		return x.Value, nil

	case *syntax.Grouping:
		return in.eval(x.X)

	case *syntax.Unary:
		return in.evalUnary(x)

	case *syntax.Binary:
		return in.evalBinary(x)

	case *syntax.Logical:
		left, err := in.eval(x.X)
		if err != nil {
			return nil, err
		}
		if x.Op.Kind == syntax.Or {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return in.eval(x.Y)

	case *syntax.Ternary:
		cond, err := in.eval(x.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return in.eval(x.Then)
		}
		return in.eval(x.Else)

	case *syntax.Variable:
		return in.lookUpVariable(x.Name, x)

	case *syntax.Assign:
		v, err := in.eval(x.Value)
		if err != nil {
			return nil, err
		}
		if d, ok := in.info.Depth(x); ok {
			in.env.AssignAt(d, x.Name.Lexeme, v)
		} else if err := in.globals.Assign(x.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *syntax.Call:
		return in.evalCall(x)

	case *syntax.FuncLit:
		return &Lambda{decl: x, closure: in.env}, nil

	case *syntax.Get:
		obj, err := in.eval(x.X)
		if err != nil {
			return nil, err
		}
		return in.getProperty(obj, x.Name)

	case *syntax.Set:
		obj, err := in.eval(x.X)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, runtimeErrorf(x.Name, "Only instances have fields.")
		}
		v, err := in.eval(x.Value)
		if err != nil {
			return nil, err
		}
		inst.SetField(x.Name.Lexeme, v)
		return v, nil

	case *syntax.This:
		return in.evalThis(x)

	case *syntax.Super:
		return in.evalSuper(x)
	}

	panic(fmt.Sprintf("interp: unexpected expression %T", x))
}

// lookUpVariable reads name from the frame the resolver assigned to x, or
// from the globals when x was not resolved.
func (in *Interpreter) lookUpVariable(name syntax.Token, x syntax.Expr) (Value, error) {
	var v Value
	if d, ok := in.info.Depth(x); ok {
		v = in.env.GetAt(d, name.Lexeme)
	} else {
		var err error
		if v, err = in.globals.Get(name); err != nil {
			return nil, err
		}
	}

	if isUninitialized(v) || v == nil && in.opts.NilReads == NilReadsError {
		return nil, runtimeErrorf(name, "Uninitialized variable '%s'.", name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalUnary(x *syntax.Unary) (Value, error) {
	right, err := in.eval(x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.Bang:
		return !Truthy(right), nil
	case syntax.Minus:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeErrorf(x.Op, "Operand must be a number.")
		}
		return -n, nil
	}
	panic(fmt.Sprintf("interp: unexpected unary operator %s", x.Op.Kind))
}

func (in *Interpreter) evalBinary(x *syntax.Binary) (Value, error) {
	left, err := in.eval(x.X)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(x.Y)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.Plus:
		l, lok := left.(float64)
		r, rok := right.(float64)
		if lok && rok {
			return l + r, nil
		}
		_, lstr := left.(string)
		_, rstr := right.(string)
		if lstr || rstr {
			return Stringify(left) + Stringify(right), nil
		}
		return nil, runtimeErrorf(x.Op, "Operands must be two numbers or at least one string.")

	case syntax.EqualEqual, syntax.BangEqual:
		eq, err := in.equal(x.Op, left, right)
		if err != nil {
			return nil, err
		}
		if x.Op.Kind == syntax.BangEqual {
			return !eq, nil
		}
		return eq, nil
	}

	l, r, err := numberOperands(x.Op, left, right)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.Minus:
		return l - r, nil
	case syntax.Star:
		return l * r, nil
	case syntax.Slash:
		if r == 0 {
			return nil, runtimeErrorf(x.Op, "Division by zero.")
		}
		return l / r, nil
	case syntax.Greater:
		return l > r, nil
	case syntax.GreaterEqual:
		return l >= r, nil
	case syntax.Less:
		return l < r, nil
	case syntax.LessEqual:
		return l <= r, nil
	}
	panic(fmt.Sprintf("interp: unexpected binary operator %s", x.Op.Kind))
}

func numberOperands(op syntax.Token, left, right Value) (float64, float64, error) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, runtimeErrorf(op, "Operands must be numbers.")
	}
	return l, r, nil
}

// equal implements == under the configured equality mode.
func (in *Interpreter) equal(op syntax.Token, left, right Value) (bool, error) {
	if in.opts.Equality == EqualStructural {
		return valuesEqual(left, right), nil
	}
	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return false, err
	}
	return l == r, nil
}

func (in *Interpreter) evalCall(x *syntax.Call) (Value, error) {
	callee, err := in.eval(x.Fun)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(x.Paren, "Can only call functions and classes.")
	}
	return in.call(fn, args, x.Paren)
}

// call checks arity and invokes fn. tok locates errors.
func (in *Interpreter) call(fn Callable, args []Value, tok syntax.Token) (Value, error) {
	if f, ok := fn.(*Function); ok && f.Unbound() {
		return nil, runtimeErrorf(tok, "Can't call method '%s' without an instance.", f.Name())
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErrorf(tok, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if err := in.interrupted(tok.Pos); err != nil {
		return nil, err
	}

	if in.depth >= maxCallDepth {
		in.log.Debug("call depth exceeded", "depth", in.depth, "callee", fn.String())
		return nil, runtimeErrorf(tok, "Stack overflow.")
	}
	in.depth++
	defer func() { in.depth-- }()

	return fn.Call(in, args)
}

// getProperty implements property reads on instances and classes.
func (in *Interpreter) getProperty(obj Value, name syntax.Token) (Value, error) {
	switch obj := obj.(type) {
	case *Instance:
		if v, ok := obj.Field(name.Lexeme); ok {
			return v, nil
		}
		if m := obj.class.FindMethod(name.Lexeme); m != nil {
			bound := m.Bind(obj)
			if bound.IsGetter() {
				return in.call(bound, nil, name)
			}
			return bound, nil
		}
		return nil, runtimeErrorf(name, "Undefined property '%s'.", name.Lexeme)

	case *Class:
		if m := obj.FindStatic(name.Lexeme); m != nil {
			return m, nil
		}
		if m := obj.FindMethod(name.Lexeme); m != nil {
			return m, nil
		}
		return nil, runtimeErrorf(name, "Undefined property '%s'.", name.Lexeme)
	}

	return nil, runtimeErrorf(name, "Only instances have properties.")
}

// evalThis reads the receiver bound by the enclosing method.
func (in *Interpreter) evalThis(x *syntax.This) (Value, error) {
	if d, ok := in.info.Depth(x); ok {
		if inst, ok := in.env.GetAt(d, "this").(*Instance); ok {
			return inst, nil
		}
	}
	return nil, runtimeErrorf(x.Keyword, "Can't use 'this' without an instance.")
}

// evalSuper looks the method up starting at the superclass and binds it
// to the current instance, which lives one frame below "super".
func (in *Interpreter) evalSuper(x *syntax.Super) (Value, error) {
	d, ok := in.info.Depth(x)
	if !ok {
		return nil, runtimeErrorf(x.Keyword, "Can't use 'super' outside of a class.")
	}
	super, ok := in.env.GetAt(d, "super").(*Class)
	if !ok {
		return nil, runtimeErrorf(x.Keyword, "Can't use 'super' without an instance.")
	}
	inst, ok := in.env.GetAt(d-1, "this").(*Instance)
	if !ok {
		return nil, runtimeErrorf(x.Keyword, "Can't use 'super' without an instance.")
	}

	m := super.FindMethod(x.Method.Lexeme)
	if m == nil {
		return nil, runtimeErrorf(x.Method, "Undefined property '%s'.", x.Method.Lexeme)
	}
	bound := m.Bind(inst)
	if bound.IsGetter() {
		return in.call(bound, nil, x.Method)
	}
	return bound, nil
}
