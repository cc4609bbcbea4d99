package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, v)

	// statements
	case *ExprStmt:
		Walk(n.X, v)

	case *PrintStmt:
		Walk(n.X, v)

	case *VarStmt:
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *BlockStmt:
		walkStmts(n.Stmts, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *BreakStmt:
		// no children

	case *FuncStmt:
		walkStmts(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *ClassStmt:
		if n.Superclass != nil {
			Walk(n.Superclass, v)
		}
		for _, m := range n.Methods {
			Walk(m, v)
		}

	// expressions
	case *Literal, *Variable, *This, *Super:
		// leaves

	case *Grouping:
		Walk(n.X, v)

	case *Unary:
		Walk(n.X, v)

	case *Binary:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *Logical:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *Ternary:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *Assign:
		Walk(n.Value, v)

	case *Call:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *FuncLit:
		walkStmts(n.Body, v)

	case *Get:
		Walk(n.X, v)

	case *Set:
		Walk(n.X, v)
		Walk(n.Value, v)
	}
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		Walk(s, v)
	}
}

// isNil reports whether node is nil or a typed nil pointer.
func isNil(node Node) bool {
	if node == nil {
		return true
	}
	switch n := node.(type) {
	case *Variable:
		return n == nil
	case *FuncStmt:
		return n == nil
	case *Program:
		return n == nil
	}
	return false
}

// Inspect collects every node of type T reachable from root, in walk order.
func Inspect[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}
