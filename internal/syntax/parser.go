package syntax

import (
	"fmt"
	"io"
	"maps"
)

// Mode selects grammar variants.
type Mode uint

const (
	// TieredPrecedence gives * / % ^ precedence over + -, and arithmetic
	// over comparisons. Without it every binary operator binds equally and
	// chains left to right.
	TieredPrecedence Mode = 1 << iota

	// StrictAssign rejects assignment to a name that was never declared
	// instead of declaring it.
	StrictAssign
)

// Signature describes a function callable from scripts.
type Signature struct {
	Arity   int  // number of parameters, -1 if checked at run time
	Builtin bool // built-ins cannot be redefined
}

// Config configures a Parser. The zero value parses a standalone script
// with no known functions.
type Config struct {
	Mode Mode

	// Scope receives top-level declarations. Hosts that parse several
	// scripts against one environment (a REPL) pass the same Scope each time.
	Scope *Scope

	// Funcs holds functions defined before this parse. Functions defined by
	// a successful parse are added to it.
	Funcs map[string]Signature
}

// Parser performs syntax analysis on a token sequence.
type Parser struct {
	cur  *cursor
	mode Mode
	conf *Config

	top   *Scope               // top-level scope
	scope *Scope               // innermost scope
	funcs map[string]Signature // known functions, shared with template parsers
	calls *[]*CallExpr         // calls to resolve once all definitions are known

	// Context tracking
	fnest int // function nesting depth
	lnest int // loop nesting depth
}

// NewParser creates a Parser for toks. conf may be nil.
func NewParser(toks []Lexeme, conf *Config) *Parser {
	if conf == nil {
		conf = &Config{}
	}
	top := conf.Scope
	if top == nil {
		top = NewScope(nil, "global")
	}
	funcs := make(map[string]Signature, len(conf.Funcs))
	maps.Copy(funcs, conf.Funcs)
	return &Parser{
		cur:   newCursor(toks),
		mode:  conf.Mode,
		conf:  conf,
		top:   top,
		scope: top,
		funcs: funcs,
		calls: new([]*CallExpr),
	}
}

// ParseString tokenizes and parses src.
func ParseString(filename, src string, conf *Config) (*File, error) {
	toks, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks, conf).Parse()
}

// ParseReader is like ParseString for an io.Reader.
func ParseReader(filename string, r io.Reader, conf *Config) (*File, error) {
	s, err := NewScanner(filename, r)
	if err != nil {
		return nil, err
	}
	toks, err := s.Scan()
	if err != nil {
		return nil, err
	}
	return NewParser(toks, conf).Parse()
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) errorf(pos Pos, cause error, format string, args ...any) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// ----------------------------------------------------------------------------
// Scopes

func (p *Parser) openScope(comment string) {
	p.scope = NewScope(p.scope, comment)
}

func (p *Parser) closeScope() {
	p.scope = p.scope.Parent()
}

// declare adds a binding to the innermost scope.
func (p *Parser) declare(name *Name, mutable bool) error {
	if prev := p.scope.Insert(&Binding{Name: name.Value, Mutable: mutable, Pos: name.Pos()}); prev != nil {
		return p.errorf(name.Pos(), nil, "variable %s is already defined at %s", name.Value, prev.Pos)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole token sequence. Calls are resolved after the last
// statement, so a function may be called before its definition.
func (p *Parser) Parse() (*File, error) {
	f := &File{}
	f.pos = p.cur.lastPos()

	for !p.cur.done() {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		f.Stmts = append(f.Stmts, s)
	}

	if err := p.resolveCalls(); err != nil {
		return nil, err
	}

	if p.conf.Funcs == nil {
		p.conf.Funcs = make(map[string]Signature)
	}
	maps.Copy(p.conf.Funcs, p.funcs)
	return f, nil
}

// resolveCalls checks every call against the known functions.
func (p *Parser) resolveCalls() error {
	for _, call := range *p.calls {
		name := call.Fun.Value
		sig, ok := p.funcs[name]
		if !ok {
			return p.errorf(call.Pos(), nil, "function %s is not defined", name)
		}
		if sig.Arity >= 0 && sig.Arity != len(call.Args) {
			return p.errorf(call.Pos(), nil, "function %s expects %d arguments, got %d", name, sig.Arity, len(call.Args))
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement.
func (p *Parser) stmt() (Stmt, error) {
	switch p.cur.tok() {
	case _Fun:
		return p.funcDecl()
	case _Type:
		return p.typeDecl()
	case _Return:
		return p.returnStmt()
	case _If:
		return p.ifStmt()
	case _For:
		return p.forStmt()
	case _While:
		return p.whileStmt()
	case _Break, _Continue:
		return p.branchStmt()
	case _Var, _MutVar:
		return p.varDecl()
	case _Name:
		return p.simpleStmt()
	}
	lex, err := p.cur.next("start of statement")
	if err != nil {
		return nil, err
	}
	return nil, p.errorf(lex.Pos, nil, "unexpected %s at start of statement", lex)
}

// funcDecl parses: fun Name(p1, p2, ...) { body }
func (p *Parser) funcDecl() (Stmt, error) {
	kw, _ := p.cur.want(_Fun, "function definition")
	if p.scope != p.top {
		return nil, p.errorf(kw.Pos, nil, "functions may only be defined at top level")
	}

	lex, err := p.cur.want(_Name, "function name")
	if err != nil {
		return nil, err
	}
	d := &FuncDecl{Name: p.name(lex)}
	d.pos = kw.Pos

	if sig, ok := p.funcs[lex.Lit]; ok {
		if sig.Builtin {
			return nil, p.errorf(lex.Pos, nil, "cannot redefine built-in function %s", lex.Lit)
		}
		return nil, p.errorf(lex.Pos, nil, "function %s is already defined", lex.Lit)
	}

	if _, err := p.cur.want(_Lparen, "parameters of function "+lex.Lit); err != nil {
		return nil, err
	}
	if !p.cur.got(_Rparen) {
		for {
			param, err := p.cur.want(_Name, "parameter of function "+lex.Lit)
			if err != nil {
				return nil, err
			}
			d.Params = append(d.Params, p.name(param))
			if p.cur.got(_Comma) {
				continue
			}
			if _, err := p.cur.want(_Rparen, "parameters of function "+lex.Lit); err != nil {
				return nil, err
			}
			break
		}
	}

	// Registered before the body so that the function can call itself.
	p.funcs[lex.Lit] = Signature{Arity: len(d.Params)}

	p.openScope("function " + lex.Lit)
	defer p.closeScope()
	for _, param := range d.Params {
		if err := p.declare(param, false); err != nil {
			return nil, p.errorf(d.pos, err, "in definition of function %s", lex.Lit)
		}
	}

	p.fnest++
	lnest := p.lnest
	p.lnest = 0
	d.Body, err = p.blockStmt()
	p.lnest = lnest
	p.fnest--
	if err != nil {
		return nil, p.errorf(d.pos, err, "in definition of function %s", lex.Lit)
	}
	return d, nil
}

// typeDecl parses: type Name
func (p *Parser) typeDecl() (Stmt, error) {
	kw, _ := p.cur.want(_Type, "type definition")
	if p.scope != p.top {
		return nil, p.errorf(kw.Pos, nil, "types may only be defined at top level")
	}
	lex, err := p.cur.want(_Name, "type name")
	if err != nil {
		return nil, err
	}
	d := &TypeDecl{Name: p.name(lex)}
	d.pos = kw.Pos

	// The type name is bound as an immutable global naming the type.
	if err := p.declare(d.Name, false); err != nil {
		return nil, err
	}
	return d, nil
}

// returnStmt parses: return [expr]
func (p *Parser) returnStmt() (Stmt, error) {
	kw, _ := p.cur.want(_Return, "return statement")
	if p.fnest == 0 {
		return nil, p.errorf(kw.Pos, nil, "return outside function")
	}
	s := &ReturnStmt{}
	s.pos = kw.Pos

	// A return with nothing after it on the same line is bare.
	if next, ok := p.cur.peek(0); ok && next.Tok != _Rbrace && next.Pos.Line() == kw.Pos.Line() {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		s.Result = x
	}
	return s, nil
}

// branchStmt parses: break or continue
func (p *Parser) branchStmt() (Stmt, error) {
	lex, _ := p.cur.next("loop control")
	if p.lnest == 0 {
		return nil, p.errorf(lex.Pos, nil, "%s outside loop", lex.Tok)
	}
	s := &BranchStmt{Tok: lex.Tok}
	s.pos = lex.Pos
	return s, nil
}

// ifStmt parses: if (cond) {..} [elseif (cond) {..}]* [else {..}]
// "else if" is accepted as a spelling of elseif.
func (p *Parser) ifStmt() (Stmt, error) {
	kw, _ := p.cur.want(_If, "if statement")
	s := &IfStmt{}
	s.pos = kw.Pos

	b, err := p.branch(kw.Pos, "if statement")
	if err != nil {
		return nil, err
	}
	s.Branches = append(s.Branches, b)

	for {
		pos := p.cur.lastPos()
		switch {
		case p.cur.got(_ElseIf):
		case p.cur.tok() == _Else && p.peekTok(1) == _If:
			p.cur.pos += 2
		case p.cur.got(_Else):
			body, err := p.body("else branch")
			if err != nil {
				return nil, err
			}
			cond := &BasicLit{Kind: BoolLit, Lit: "true", Value: true}
			cond.pos = pos
			els := &Branch{Cond: cond, Body: body}
			els.pos = pos
			s.Branches = append(s.Branches, els)
			return s, nil
		default:
			return s, nil
		}

		b, err := p.branch(pos, "elseif branch")
		if err != nil {
			return nil, err
		}
		s.Branches = append(s.Branches, b)
	}
}

// branch parses: (cond) { body }
func (p *Parser) branch(pos Pos, context string) (*Branch, error) {
	cond, err := p.condition(context)
	if err != nil {
		return nil, err
	}
	body, err := p.body(context)
	if err != nil {
		return nil, err
	}
	b := &Branch{Cond: cond, Body: body}
	b.pos = pos
	return b, nil
}

// condition parses a parenthesized expression.
func (p *Parser) condition(context string) (Expr, error) {
	if _, err := p.cur.want(_Lparen, context); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.cur.want(_Rparen, context); err != nil {
		return nil, err
	}
	return x, nil
}

// forStmt parses: for key in (expr) { body }
func (p *Parser) forStmt() (Stmt, error) {
	kw, _ := p.cur.want(_For, "for loop")
	key, err := p.cur.want(_Name, "for loop variable")
	if err != nil {
		return nil, err
	}
	in, err := p.cur.want(_Name, "'in' after for loop variable")
	if err != nil {
		return nil, err
	}
	if in.Lit != "in" {
		return nil, p.errorf(in.Pos, nil, "expected 'in' after for loop variable, got %s", in.Lit)
	}

	x, err := p.condition("for loop bound")
	if err != nil {
		return nil, err
	}
	switch x := x.(type) {
	case *BasicLit:
		if x.Kind != StringLit {
			return nil, p.errorf(x.Pos(), nil, "for loop bound %s (%s) is not iterable", x.Lit, x.Kind)
		}
	case *NullLit:
		return nil, p.errorf(x.Pos(), nil, "for loop bound null is not iterable")
	}

	s := &ForStmt{Key: p.name(key), X: x}
	s.pos = kw.Pos

	p.openScope("for loop")
	defer p.closeScope()
	if err := p.declare(s.Key, false); err != nil {
		return nil, err
	}
	p.lnest++
	s.Body, err = p.blockStmt()
	p.lnest--
	if err != nil {
		return nil, err
	}
	return s, nil
}

// whileStmt parses: while (cond) { body }
func (p *Parser) whileStmt() (Stmt, error) {
	kw, _ := p.cur.want(_While, "while loop")
	cond, err := p.condition("while loop")
	if err != nil {
		return nil, err
	}
	s := &WhileStmt{Cond: cond}
	s.pos = kw.Pos

	p.lnest++
	s.Body, err = p.body("while loop")
	p.lnest--
	if err != nil {
		return nil, err
	}
	return s, nil
}

// varDecl parses: var Name = expr, or var* Name = expr
func (p *Parser) varDecl() (Stmt, error) {
	kw, _ := p.cur.next("variable definition")
	lex, err := p.cur.want(_Name, "variable name after "+kw.Tok.String())
	if err != nil {
		return nil, err
	}
	if _, err := p.cur.want(_Assign, "variable definition "+lex.Lit); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	s := &VarDecl{Name: p.name(lex), Value: x, Mutable: kw.Tok == _MutVar}
	s.pos = kw.Pos
	if err := p.declare(s.Name, s.Mutable); err != nil {
		return nil, err
	}
	return s, nil
}

// simpleStmt parses an identifier-led statement. The token after the
// identifier decides: '=' is a reassignment, '(' a call, any other
// operator a binary expression.
func (p *Parser) simpleStmt() (Stmt, error) {
	lex, _ := p.cur.want(_Name, "statement")
	name := p.name(lex)

	switch tok := p.cur.tok(); {
	case tok == _Assign:
		p.cur.pos++
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		s := &AssignStmt{Name: name, Value: x}
		s.pos = lex.Pos

		b, _ := p.scope.LookupParent(name.Value)
		switch {
		case b == nil && p.mode&StrictAssign != 0:
			return nil, p.errorf(lex.Pos, nil, "assignment to undefined variable %s", name.Value)
		case b == nil:
			s.Define = true
			if err := p.declare(name, true); err != nil {
				return nil, err
			}
		case !b.Mutable:
			return nil, p.errorf(lex.Pos, nil, "variable %s is immutable (defined at %s)", name.Value, b.Pos)
		}
		return s, nil

	case tok == _Lparen:
		call, err := p.callExpr(name)
		if err != nil {
			return nil, err
		}
		return p.exprStmt(call)

	case tok.IsOperator():
		if err := p.defined(name); err != nil {
			return nil, err
		}
		return p.exprStmt(name)
	}

	return nil, p.errorf(lex.Pos, nil, "expected an operator or parenthesis after identifier %s", name.Value)
}

func (p *Parser) exprStmt(x Expr) (Stmt, error) {
	x, err := p.binaryExpr(x, 0)
	if err != nil {
		return nil, err
	}
	s := &ExprStmt{X: x}
	s.pos = x.Pos()
	return s, nil
}

// body parses a block in its own scope.
func (p *Parser) body(comment string) (*BlockStmt, error) {
	p.openScope(comment)
	defer p.closeScope()
	return p.blockStmt()
}

// blockStmt parses { stmts... } in the current scope.
func (p *Parser) blockStmt() (*BlockStmt, error) {
	lb, err := p.cur.want(_Lbrace, "start of body")
	if err != nil {
		return nil, err
	}
	b := &BlockStmt{}
	b.pos = lb.Pos

	for p.cur.tok() != _Rbrace && !p.cur.done() {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}

	rb, err := p.cur.want(_Rbrace, "end of body")
	if err != nil {
		return nil, err
	}
	b.Rbrace = rb.Pos
	return b, nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() (Expr, error) {
	x, err := p.operand()
	if err != nil {
		return nil, err
	}
	return p.binaryExpr(x, 0)
}

// precedence returns the binding strength of tok under the parser's mode.
func (p *Parser) precedence(tok Token) int {
	if !tok.IsOperator() {
		return 0
	}
	if p.mode&TieredPrecedence != 0 {
		return tok.Precedence()
	}
	return 1
}

// binaryExpr continues a binary expression whose left operand x has been
// parsed, consuming operators that bind tighter than prec.
// Implements precedence climbing; operators are left associative.
func (p *Parser) binaryExpr(x Expr, prec int) (Expr, error) {
	for {
		op := p.cur.tok()
		oprec := p.precedence(op)
		if oprec <= prec {
			return x, nil
		}
		p.cur.pos++ // consume operator

		y, err := p.operand()
		if err != nil {
			return nil, err
		}
		if y, err = p.binaryExpr(y, oprec); err != nil {
			return nil, err
		}

		// Binary expression position starts at the left operand.
		o := &Operation{Op: op, X: x, Y: y}
		o.pos = x.Pos()
		x = o
	}
}

// operand parses a value: constant, template, variable, call, null,
// list or parenthesized expression.
func (p *Parser) operand() (Expr, error) {
	lex, err := p.cur.next("value")
	if err != nil {
		return nil, err
	}

	switch lex.Tok {
	case _Literal:
		lit := &BasicLit{Kind: lex.Kind, Lit: lex.Lit, Value: lex.Value}
		lit.pos = lex.Pos
		return lit, nil

	case _Template:
		return p.template(lex)

	case _Null:
		n := &NullLit{}
		n.pos = lex.Pos
		return n, nil

	case _Name:
		name := p.name(lex)
		if p.cur.tok() == _Lparen {
			return p.callExpr(name)
		}
		if err := p.defined(name); err != nil {
			return nil, err
		}
		return name, nil

	case _Lparen:
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.want(_Rparen, "parenthesized expression"); err != nil {
			return nil, err
		}
		paren := &ParenExpr{X: x}
		paren.pos = lex.Pos
		return paren, nil

	case _Lbrack:
		return p.listLit(lex.Pos)
	}

	return nil, p.errorf(lex.Pos, nil, "expected a value, got %s", lex)
}

// defined checks that a variable is visible in the current scope.
func (p *Parser) defined(name *Name) error {
	if b, _ := p.scope.LookupParent(name.Value); b == nil {
		return p.errorf(name.Pos(), nil, "variable %s is not defined", name.Value)
	}
	return nil
}

// callExpr parses (args...) after a function name. The callee is checked
// once parsing completes.
func (p *Parser) callExpr(fun *Name) (Expr, error) {
	call := &CallExpr{Fun: fun}
	call.pos = fun.Pos()

	context := "arguments of " + fun.Value
	if _, err := p.cur.want(_Lparen, context); err != nil {
		return nil, err
	}
	if !p.cur.got(_Rparen) {
		args, err := p.exprList(_Rparen, context)
		if err != nil {
			return nil, err
		}
		call.Args = args
	}

	*p.calls = append(*p.calls, call)
	return call, nil
}

// listLit parses the elements of [a, b, ...] after the opening bracket.
func (p *Parser) listLit(pos Pos) (Expr, error) {
	list := &ListLit{}
	list.pos = pos
	if p.cur.got(_Rbrack) {
		return list, nil
	}
	elems, err := p.exprList(_Rbrack, "list")
	if err != nil {
		return nil, err
	}
	list.Elems = elems
	return list, nil
}

// exprList parses comma-separated expressions up to and including close.
func (p *Parser) exprList(close Token, context string) ([]Expr, error) {
	var list []Expr
	for {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		list = append(list, x)
		if p.cur.got(_Comma) {
			continue
		}
		if _, err := p.cur.want(close, context); err != nil {
			return nil, err
		}
		return list, nil
	}
}

// template parses a string template. Each interpolation is parsed as a
// standalone expression by a fresh Parser sharing the current scope.
func (p *Parser) template(lex Lexeme) (Expr, error) {
	t := &TemplateLit{}
	t.pos = lex.Pos

	for _, part := range lex.Parts {
		if !part.IsExpr() {
			lit := &BasicLit{Kind: StringLit, Lit: part.Text, Value: part.Text}
			lit.pos = lex.Pos
			t.Parts = append(t.Parts, lit)
			continue
		}
		if len(part.Tokens) == 0 {
			return nil, p.errorf(lex.Pos, nil, "empty interpolation in string template")
		}

		sub := &Parser{
			cur:   newCursor(part.Tokens),
			mode:  p.mode,
			conf:  p.conf,
			top:   p.top,
			scope: p.scope,
			funcs: p.funcs,
			calls: p.calls,
			fnest: p.fnest,
			lnest: p.lnest,
		}
		x, err := sub.expr()
		if err == nil && !sub.cur.done() {
			next, _ := sub.cur.peek(0)
			err = &UnexpectedTokenError{Pos: next.Pos, Want: "end of interpolation", Got: next}
		}
		if err != nil {
			return nil, p.errorf(lex.Pos, err, "in string template")
		}
		t.Parts = append(t.Parts, x)
	}
	return t, nil
}

// ----------------------------------------------------------------------------
// Helper methods

func (p *Parser) name(lex Lexeme) *Name {
	n := &Name{Value: lex.Lit}
	n.pos = lex.Pos
	return n
}

func (p *Parser) peekTok(offset int) Token {
	lex, _ := p.cur.peek(offset)
	return lex.Tok
}
