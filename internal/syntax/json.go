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

type object = map[string]any

func toJSON(node Node) any {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return object{
			"type":  "File",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts),
		}

	case *TypeDecl:
		return object{
			"type": "TypeDecl",
			"pos":  n.pos.String(),
			"name": n.Name.Value,
		}

	case *FuncDecl:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Value
		}
		return object{
			"type":   "FuncDecl",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"params": params,
			"body":   toJSON(n.Body),
		}

	case *VarDecl:
		return object{
			"type":    "VarDecl",
			"pos":     n.pos.String(),
			"name":    n.Name.Value,
			"mutable": n.Mutable,
			"value":   toJSON(n.Value),
		}

	case *AssignStmt:
		return object{
			"type":   "AssignStmt",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"define": n.Define,
			"value":  toJSON(n.Value),
		}

	case *BlockStmt:
		return object{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts),
		}

	case *IfStmt:
		return object{
			"type":     "IfStmt",
			"pos":      n.pos.String(),
			"branches": mapSlice(n.Branches),
		}

	case *Branch:
		return object{
			"type": "Branch",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *ForStmt:
		return object{
			"type": "ForStmt",
			"pos":  n.pos.String(),
			"key":  n.Key.Value,
			"x":    toJSON(n.X),
			"body": toJSON(n.Body),
		}

	case *WhileStmt:
		return object{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *ReturnStmt:
		m := object{
			"type": "ReturnStmt",
			"pos":  n.pos.String(),
		}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *BranchStmt:
		return object{
			"type":  "BranchStmt",
			"pos":   n.pos.String(),
			"token": n.Tok.String(),
		}

	case *ExprStmt:
		return object{
			"type": "ExprStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *Name:
		return object{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		return object{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *NullLit:
		return object{
			"type": "NullLit",
			"pos":  n.pos.String(),
		}

	case *TemplateLit:
		return object{
			"type":  "TemplateLit",
			"pos":   n.pos.String(),
			"parts": mapSlice(n.Parts),
		}

	case *Operation:
		return object{
			"type": "BinaryOp",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *CallExpr:
		return object{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"fun":  n.Fun.Value,
			"args": mapSlice(n.Args),
		}

	case *ListLit:
		return object{
			"type":  "ListLit",
			"pos":   n.pos.String(),
			"elems": mapSlice(n.Elems),
		}

	case *ParenExpr:
		return object{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	default:
		return object{
			"type": "Unknown",
		}
	}
}

func mapSlice[T Node](s []T) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = toJSON(v)
	}
	return result
}
