package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object = map[string]interface{}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return object{
			"type":  "Program",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, stmtJSON),
		}

	// statements
	case *ExprStmt:
		return object{"type": "ExprStmt", "pos": n.pos.String(), "expr": toJSON(n.X)}

	case *PrintStmt:
		return object{"type": "PrintStmt", "pos": n.pos.String(), "expr": toJSON(n.X)}

	case *VarStmt:
		m := object{"type": "VarStmt", "pos": n.pos.String(), "name": n.Name.Lexeme}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	case *BlockStmt:
		return object{"type": "BlockStmt", "pos": n.pos.String(), "stmts": mapSlice(n.Stmts, stmtJSON)}

	case *IfStmt:
		m := object{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		return object{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *BreakStmt:
		return object{"type": "BreakStmt", "pos": n.pos.String()}

	case *FuncStmt:
		return object{
			"type":   "FuncStmt",
			"pos":    n.pos.String(),
			"kind":   n.Kind.String(),
			"name":   n.Name.Lexeme,
			"params": lexemes(n.Params),
			"body":   mapSlice(n.Body, stmtJSON),
		}

	case *ReturnStmt:
		m := object{"type": "ReturnStmt", "pos": n.pos.String()}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *ClassStmt:
		m := object{
			"type":    "ClassStmt",
			"pos":     n.pos.String(),
			"name":    n.Name.Lexeme,
			"methods": mapSlice(n.Methods, func(f *FuncStmt) interface{} { return toJSON(f) }),
		}
		if n.Superclass != nil {
			m["superclass"] = n.Superclass.Name.Lexeme
		}
		return m

	// expressions
	case *Literal:
		return object{"type": "Literal", "pos": n.pos.String(), "value": n.Value}

	case *Grouping:
		return object{"type": "Grouping", "pos": n.pos.String(), "expr": toJSON(n.X)}

	case *Unary:
		return object{"type": "Unary", "pos": n.pos.String(), "op": n.Op.Lexeme, "x": toJSON(n.X)}

	case *Binary:
		return object{
			"type": "Binary",
			"pos":  n.pos.String(),
			"op":   n.Op.Lexeme,
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *Logical:
		return object{
			"type": "Logical",
			"pos":  n.pos.String(),
			"op":   n.Op.Lexeme,
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *Ternary:
		return object{
			"type": "Ternary",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"else": toJSON(n.Else),
		}

	case *Variable:
		return object{"type": "Variable", "pos": n.pos.String(), "name": n.Name.Lexeme}

	case *Assign:
		return object{"type": "Assign", "pos": n.pos.String(), "name": n.Name.Lexeme, "value": toJSON(n.Value)}

	case *Call:
		return object{
			"type": "Call",
			"pos":  n.pos.String(),
			"fun":  toJSON(n.Fun),
			"args": mapSlice(n.Args, exprJSON),
		}

	case *FuncLit:
		return object{
			"type":   "FuncLit",
			"pos":    n.pos.String(),
			"params": lexemes(n.Params),
			"body":   mapSlice(n.Body, stmtJSON),
		}

	case *Get:
		return object{"type": "Get", "pos": n.pos.String(), "x": toJSON(n.X), "name": n.Name.Lexeme}

	case *Set:
		return object{
			"type":  "Set",
			"pos":   n.pos.String(),
			"x":     toJSON(n.X),
			"name":  n.Name.Lexeme,
			"value": toJSON(n.Value),
		}

	case *This:
		return object{"type": "This", "pos": n.pos.String()}

	case *Super:
		return object{"type": "Super", "pos": n.pos.String(), "method": n.Method.Lexeme}

	default:
		return object{"type": "Unknown"}
	}
}

func stmtJSON(s Stmt) interface{} { return toJSON(s) }
func exprJSON(x Expr) interface{} { return toJSON(x) }

func lexemes(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Lexeme
	}
	return out
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
