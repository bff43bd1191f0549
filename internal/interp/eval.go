package interp

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/nerve/internal/syntax"
	"github.com/you-not-fish/nerve/internal/value"
)

// outcome says how a statement finished. Anything but normal unwinds the
// enclosing bodies until a loop (broke, continued) or a function call
// (returned) consumes it.
type outcome uint8

const (
	normal outcome = iota
	returned
	broke
	continued
)

// ----------------------------------------------------------------------------
// Statements

func (in *Interpreter) execList(scope *Scope, list []syntax.Stmt) (outcome, value.Value, error) {
	for _, s := range list {
		out, v, err := in.exec(scope, s)
		if err != nil || out != normal {
			return out, v, err
		}
	}
	return normal, nil, nil
}

func (in *Interpreter) exec(scope *Scope, s syntax.Stmt) (outcome, value.Value, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		_, err := in.eval(scope, s.X)
		return normal, nil, err

	case *syntax.VarDecl:
		v, err := in.eval(scope, s.Value)
		if err != nil {
			return normal, nil, err
		}
		scope.Define(s.Name.Value, v, s.Mutable)
		return normal, nil, nil

	case *syntax.AssignStmt:
		v, err := in.eval(scope, s.Value)
		if err != nil {
			return normal, nil, err
		}
		if s.Define {
			scope.Define(s.Name.Value, v, true)
			return normal, nil, nil
		}
		if err := scope.Assign(s.Name.Value, v); err != nil {
			return normal, nil, &Error{Pos: s.Pos(), Msg: err.Error()}
		}
		return normal, nil, nil

	case *syntax.BlockStmt:
		return in.execList(NewScope(scope, "block"), s.Stmts)

	case *syntax.IfStmt:
		for _, b := range s.Branches {
			ok, err := in.cond(scope, b.Cond)
			if err != nil {
				return normal, nil, err
			}
			if ok {
				return in.execList(NewScope(scope, "if"), b.Body.Stmts)
			}
		}
		return normal, nil, nil

	case *syntax.ForStmt:
		return in.forStmt(scope, s)

	case *syntax.WhileStmt:
		return in.whileStmt(scope, s)

	case *syntax.ReturnStmt:
		if s.Result == nil {
			return returned, value.None, nil
		}
		v, err := in.eval(scope, s.Result)
		if err != nil {
			return normal, nil, err
		}
		return returned, v, nil

	case *syntax.BranchStmt:
		if s.Tok == syntax.Break {
			return broke, nil, nil
		}
		return continued, nil, nil

	case *syntax.FuncDecl, *syntax.TypeDecl:
		// hoisted by Run
		return normal, nil, nil
	}
	return normal, nil, &Error{Pos: s.Pos(), Msg: fmt.Sprintf("cannot execute %T", s)}
}

func (in *Interpreter) cond(scope *Scope, x syntax.Expr) (bool, error) {
	v, err := in.eval(scope, x)
	if err != nil {
		return false, err
	}
	ok, err := value.Truthy(v, in.opts.NumericTruth)
	if err != nil {
		return false, &Error{Pos: x.Pos(), Msg: "invalid condition", Cause: err}
	}
	return ok, nil
}

func (in *Interpreter) forStmt(scope *Scope, s *syntax.ForStmt) (outcome, value.Value, error) {
	bound, err := in.eval(scope, s.X)
	if err != nil {
		return normal, nil, err
	}
	if value.IsNull(bound) {
		return normal, nil, &Error{Pos: s.X.Pos(), Msg: "for loop bound is null"}
	}
	seq, err := value.Iterate(bound)
	if err != nil {
		return normal, nil, &Error{Pos: s.X.Pos(), Msg: "invalid for loop bound", Cause: err}
	}

	out, result := normal, value.Value(nil)
	for elem := range seq {
		if err = in.interrupted(s.Pos()); err != nil {
			break
		}
		body := NewScope(scope, "for loop")
		body.Define(s.Key.Value, elem, false)
		var o outcome
		o, result, err = in.execList(body, s.Body.Stmts)
		if err != nil {
			break
		}
		if o == returned {
			out = returned
			break
		}
		if o == broke {
			break
		}
	}
	if err != nil {
		return normal, nil, err
	}
	return out, result, nil
}

func (in *Interpreter) whileStmt(scope *Scope, s *syntax.WhileStmt) (outcome, value.Value, error) {
	for {
		if err := in.interrupted(s.Pos()); err != nil {
			return normal, nil, err
		}
		ok, err := in.cond(scope, s.Cond)
		if err != nil || !ok {
			return normal, nil, err
		}
		out, v, err := in.execList(NewScope(scope, "while loop"), s.Body.Stmts)
		switch {
		case err != nil:
			return normal, nil, err
		case out == returned:
			return out, v, nil
		case out == broke:
			return normal, nil, nil
		}
	}
}

// interrupted reports cancellation of the run's context.
func (in *Interpreter) interrupted(pos syntax.Pos) error {
	if in.ctx == nil {
		return nil
	}
	if err := in.ctx.Err(); err != nil {
		return &Error{Pos: pos, Msg: "interrupted", Cause: err}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Expressions

func (in *Interpreter) eval(scope *Scope, x syntax.Expr) (value.Value, error) {
	switch x := x.(type) {
	case *syntax.BasicLit:
		return value.FromLit(x.Value), nil

	case *syntax.NullLit:
		return value.None, nil

	case *syntax.Name:
		v := scope.Lookup(x.Value)
		if v == nil {
			return nil, &Error{Pos: x.Pos(), Msg: fmt.Sprintf("variable %s is not defined", x.Value)}
		}
		return v.Value, nil

	case *syntax.ParenExpr:
		return in.eval(scope, x.X)

	case *syntax.TemplateLit:
		var buf strings.Builder
		for _, part := range x.Parts {
			v, err := in.eval(scope, part)
			if err != nil {
				return nil, err
			}
			buf.WriteString(v.String())
		}
		return value.String(buf.String()), nil

	case *syntax.ListLit:
		list := make(value.List, len(x.Elems))
		for i, e := range x.Elems {
			v, err := in.eval(scope, e)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil

	case *syntax.Operation:
		lhs, err := in.eval(scope, x.X)
		if err != nil {
			return nil, err
		}
		rhs, err := in.eval(scope, x.Y)
		if err != nil {
			return nil, err
		}
		v, err := value.Binary(x.Op, lhs, rhs)
		if err != nil {
			return nil, &Error{Pos: x.Pos(), Msg: "invalid operation", Cause: err}
		}
		return v, nil

	case *syntax.CallExpr:
		return in.callExpr(scope, x)
	}
	return nil, &Error{Pos: x.Pos(), Msg: fmt.Sprintf("cannot evaluate %T", x)}
}

func (in *Interpreter) callExpr(scope *Scope, call *syntax.CallExpr) (value.Value, error) {
	if err := in.interrupted(call.Pos()); err != nil {
		return nil, err
	}
	name := call.Fun.Value
	f := in.funcs[name]
	if f == nil {
		return nil, &Error{Pos: call.Pos(), Msg: fmt.Sprintf("function %s is not defined", name)}
	}
	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := in.eval(scope, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return f.call(in, call.Pos(), args)
}
