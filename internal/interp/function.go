package interp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/syntax"
	"github.com/you-not-fish/nerve/internal/value"
)

// Function is anything a script can call by name.
type Function interface {
	FuncName() string
	call(in *Interpreter, pos syntax.Pos, args []value.Value) (value.Value, error)
}

// ----------------------------------------------------------------------------
// User functions

// Compiled is a function defined by a script. It shares its body with the
// syntax tree but is otherwise independent of the declaration node.
type Compiled struct {
	Name   string
	Params []string
	Body   *syntax.BlockStmt
	Pos    syntax.Pos // declaration site
}

func compile(d *syntax.FuncDecl) *Compiled {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Value
	}
	return &Compiled{Name: d.Name.Value, Params: params, Body: d.Body, Pos: d.Pos()}
}

func (f *Compiled) FuncName() string { return f.Name }

func (f *Compiled) String() string {
	return fmt.Sprintf("fun %s(%s)", f.Name, strings.Join(f.Params, ", "))
}

func (f *Compiled) call(in *Interpreter, pos syntax.Pos, args []value.Value) (value.Value, error) {
	if len(args) != len(f.Params) {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("function %s expects %d arguments, got %d", f.Name, len(f.Params), len(args))}
	}
	if in.depth >= in.maxDepth {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("calling %s", f.Name), Cause: fmt.Errorf("%w (%d)", ErrMaxDepth, in.maxDepth)}
	}
	in.depth++
	defer func() { in.depth-- }()

	local := NewScope(in.global, "function "+f.Name)
	for i, p := range f.Params {
		local.Define(p, args[i], false)
	}
	out, v, err := in.execList(local, f.Body.Stmts)
	if err != nil {
		// A runaway recursion would otherwise nest one wrapper per frame.
		if errors.Is(err, ErrMaxDepth) {
			return nil, err
		}
		return nil, &Error{Pos: pos, Msg: "in function " + f.Name, Func: f.Name, Cause: err}
	}
	if out == returned {
		return v, nil
	}
	return value.None, nil
}

// ----------------------------------------------------------------------------
// Built-ins

// Param describes one parameter of a built-in. An empty Kinds accepts any
// value.
type Param struct {
	Name  string
	Kinds []value.Kind
}

func (p Param) accepts(v value.Value) bool {
	if len(p.Kinds) == 0 {
		return true
	}
	for _, k := range p.Kinds {
		if v.Kind() == k {
			return true
		}
	}
	return false
}

func (p Param) String() string {
	if len(p.Kinds) == 0 {
		return p.Name + " Any"
	}
	kinds := make([]string, len(p.Kinds))
	for i, k := range p.Kinds {
		kinds[i] = k.String()
	}
	return p.Name + " " + strings.Join(kinds, "|")
}

// Builtin is a function implemented in Go. Its argument count and kinds
// are checked before Fn runs.
type Builtin struct {
	Name   string
	Params []Param
	Fn     func(in *Interpreter, args []value.Value) (value.Value, error)
}

func (b *Builtin) FuncName() string { return b.Name }

func (b *Builtin) String() string {
	params := make([]string, len(b.Params))
	for i, p := range b.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("builtin %s(%s)", b.Name, strings.Join(params, ", "))
}

func (b *Builtin) check(args []value.Value) error {
	if len(args) != len(b.Params) {
		return fmt.Errorf("%s expects %d %s, got %d", b.Name, len(b.Params), plural(len(b.Params), "argument"), len(args))
	}
	for i, p := range b.Params {
		if !p.accepts(args[i]) {
			return fmt.Errorf("argument %d of %s must be %s, got %s (%s)",
				i+1, b.Name, strings.TrimPrefix(p.String(), p.Name+" "), args[i], args[i].Kind())
		}
	}
	return nil
}

func (b *Builtin) call(in *Interpreter, pos syntax.Pos, args []value.Value) (value.Value, error) {
	if err := b.check(args); err != nil {
		return nil, &Error{Pos: pos, Msg: err.Error()}
	}
	start := time.Now()
	v, err := b.Fn(in, args)
	elapsed := time.Since(start)
	in.global.elapsed += elapsed
	in.log.Debug(debug.Of(debug.Timing), func() string {
		return fmt.Sprintf("%s took %s", b.Name, elapsed)
	})
	if err != nil {
		var ierr *Error
		if errors.As(err, &ierr) {
			return nil, err
		}
		return nil, &Error{Pos: pos, Msg: b.Name, Cause: err}
	}
	if v == nil {
		v = value.None
	}
	return v, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
