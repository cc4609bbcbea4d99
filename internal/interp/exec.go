package interp

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

// flow says how a statement finished.
type flow uint8

const (
	flowNormal flow = iota // fell off the end
	flowBreak              // executed break; consumed by the nearest loop
	flowReturn             // executed return; consumed by the call boundary
)

// outcome is the control-flow result of executing a statement.
type outcome struct {
	flow  flow
	value Value // return value when flow == flowReturn
}

var normal = outcome{}

func (in *Interpreter) exec(s syntax.Stmt) (outcome, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		_, err := in.eval(s.X)
		return normal, err

	case *syntax.PrintStmt:
		v, err := in.eval(s.X)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.stdout, Stringify(v))
		return normal, nil

	case *syntax.VarStmt:
		v := uninit
		if s.Init != nil {
			var err error
			if v, err = in.eval(s.Init); err != nil {
				return normal, err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return normal, nil

	case *syntax.BlockStmt:
		return in.execBlock(s.Stmts, NewEnvironment(in.env))

	case *syntax.IfStmt:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if Truthy(cond) {
			return in.exec(s.Then)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}
		return normal, nil

	case *syntax.WhileStmt:
		return in.execWhile(s)

	case *syntax.BreakStmt:
		return outcome{flow: flowBreak}, nil

	case *syntax.ReturnStmt:
		var v Value
		if s.Result != nil {
			var err error
			if v, err = in.eval(s.Result); err != nil {
				return normal, err
			}
		}
		return outcome{flow: flowReturn, value: v}, nil

	case *syntax.FuncStmt:
		in.env.Define(s.Name.Lexeme, newFunction(s, in.env))
		return normal, nil

	case *syntax.ClassStmt:
		return normal, in.execClass(s)
	}

	panic(fmt.Sprintf("interp: unexpected statement %T", s))
}

// execBlock runs list in env, then restores the previous frame. It stops
// at the first statement that does not complete normally.
func (in *Interpreter) execBlock(list []syntax.Stmt, env *Environment) (outcome, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, s := range list {
		out, err := in.exec(s)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
	}
	return normal, nil
}

func (in *Interpreter) execWhile(s *syntax.WhileStmt) (outcome, error) {
	for {
		if err := in.interrupted(s.Pos()); err != nil {
			return normal, err
		}

		cond, err := in.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if !Truthy(cond) {
			return normal, nil
		}

		out, err := in.exec(s.Body)
		if err != nil {
			return normal, err
		}
		switch out.flow {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return out, nil
		}
	}
}

func (in *Interpreter) execClass(s *syntax.ClassStmt) error {
	var super *Class
	if s.Superclass != nil {
		v, err := in.eval(s.Superclass)
		if err != nil {
			return err
		}
		var ok bool
		if super, ok = v.(*Class); !ok {
			return runtimeErrorf(s.Superclass.Name, "Superclass must be a class.")
		}
	}

	in.env.Define(s.Name.Lexeme, uninit)

	// Methods close over a frame binding "super" when there is a superclass.
	closure := in.env
	if super != nil {
		closure = NewEnvironment(in.env)
		closure.Define("super", super)
	}

	class := &Class{
		Name:       s.Name.Lexeme,
		Superclass: super,
		methods:    make(map[string]*Function),
		statics:    make(map[string]*Function),
	}
	for _, m := range s.Methods {
		fn := newFunction(m, closure)
		if m.Kind == syntax.FuncStatic {
			class.statics[m.Name.Lexeme] = fn
		} else {
			class.methods[m.Name.Lexeme] = fn
		}
	}

	in.log.Debug("class declared",
		"name", class.Name,
		"methods", len(class.methods),
		"statics", len(class.statics),
		"super", super != nil)

	in.env.Define(s.Name.Lexeme, class)
	return nil
}

// callBody runs a function body in a new frame over closure holding the
// parameters. The body shares that frame.
func (in *Interpreter) callBody(params []syntax.Token, body []syntax.Stmt, closure *Environment, args []Value) (Value, error) {
	env := NewEnvironment(closure)
	for i, p := range params {
		env.Define(p.Lexeme, args[i])
	}

	out, err := in.execBlock(body, env)
	if err != nil {
		return nil, err
	}
	if out.flow == flowReturn {
		return out.value, nil
	}
	return nil, nil
}
