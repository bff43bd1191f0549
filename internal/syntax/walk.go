package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *TypeDecl:
		Walk(n.Name, v)

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Body, v)

	case *VarDecl:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *AssignStmt:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *IfStmt:
		for _, b := range n.Branches {
			Walk(b, v)
		}

	case *Branch:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		Walk(n.Key, v)
		Walk(n.X, v)
		Walk(n.Body, v)

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *ExprStmt:
		Walk(n.X, v)

	case *Operation:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *TemplateLit:
		for _, x := range n.Parts {
			Walk(x, v)
		}

	case *ListLit:
		for _, x := range n.Elems {
			Walk(x, v)
		}

	case *ParenExpr:
		Walk(n.X, v)

	// Leaf nodes: Name, BasicLit, NullLit, BranchStmt
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
