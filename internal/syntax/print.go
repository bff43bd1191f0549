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

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// section prints a labelled child at one more level of indentation.
func (p *printer) section(label string, nodes ...Node) {
	p.printf("%s:\n", label)
	p.indent++
	for _, n := range nodes {
		p.print(n)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *TypeDecl:
		p.printf("TypeDecl %s %s\n", n.pos, n.Name.Value)

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if len(n.Params) > 0 {
			names := make([]string, len(n.Params))
			for i, param := range n.Params {
				names[i] = param.Value
			}
			p.printf("Params: %s\n", strings.Join(names, ", "))
		}
		p.section("Body", n.Body)
		p.indent--

	case *VarDecl:
		kw := "var"
		if n.Mutable {
			kw = "var*"
		}
		p.printf("VarDecl %s %s %s\n", n.pos, kw, n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *AssignStmt:
		if n.Define {
			p.printf("AssignStmt %s %s (define)\n", n.pos, n.Name.Value)
		} else {
			p.printf("AssignStmt %s %s\n", n.pos, n.Name.Value)
		}
		p.indent++
		p.print(n.Value)
		p.indent--

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
		for _, b := range n.Branches {
			p.print(b)
		}
		p.indent--

	case *Branch:
		p.printf("Branch %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s %s\n", n.pos, n.Key.Value)
		p.indent++
		p.section("X", n.X)
		p.section("Body", n.Body)
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.section("Cond", n.Cond)
		p.section("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *BranchStmt:
		p.printf("BranchStmt %s %s\n", n.pos, n.Tok)

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %s\n", n.pos, n.Kind, litString(n))

	case *NullLit:
		p.printf("NullLit %s\n", n.pos)

	case *TemplateLit:
		p.printf("TemplateLit %s\n", n.pos)
		p.indent++
		for _, x := range n.Parts {
			p.print(x)
		}
		p.indent--

	case *Operation:
		p.printf("BinaryOp %s %s\n", n.pos, n.Op)
		p.indent++
		p.section("X", n.X)
		p.section("Y", n.Y)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, n.Fun.Value)
		if len(n.Args) > 0 {
			p.indent++
			args := make([]Node, len(n.Args))
			for i, a := range n.Args {
				args[i] = a
			}
			p.section("Args", args...)
			p.indent--
		}

	case *ListLit:
		p.printf("ListLit %s\n", n.pos)
		p.indent++
		for _, x := range n.Elems {
			p.print(x)
		}
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// litString renders a constant as it would appear in source.
func litString(lit *BasicLit) string {
	if lit.Kind == StringLit {
		return strconv.Quote(lit.Lit)
	}
	return lit.Lit
}

// ExprString returns a compact source-like rendering of an expression,
// used in diagnostics and debug output.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		b.WriteString(litString(x))
	case *NullLit:
		b.WriteString("null")
	case *TemplateLit:
		b.WriteByte('"')
		for _, part := range x.Parts {
			if lit, ok := part.(*BasicLit); ok && lit.Kind == StringLit {
				s := strconv.Quote(lit.Lit)
				s = strings.NewReplacer("{", `\{`, "}", `\}`).Replace(s[1 : len(s)-1])
				b.WriteString(s)
				continue
			}
			b.WriteByte('{')
			writeExpr(b, part)
			b.WriteByte('}')
		}
		b.WriteByte('"')
	case *Operation:
		writeExpr(b, x.X)
		fmt.Fprintf(b, " %s ", x.Op)
		writeExpr(b, x.Y)
	case *CallExpr:
		b.WriteString(x.Fun.Value)
		b.WriteByte('(')
		writeList(b, x.Args)
		b.WriteByte(')')
	case *ListLit:
		b.WriteByte('[')
		writeList(b, x.Elems)
		b.WriteByte(']')
	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func writeList(b *strings.Builder, list []Expr) {
	for i, x := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, x)
	}
}
