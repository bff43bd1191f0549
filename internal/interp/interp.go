// Package interp evaluates parsed Nerve scripts.
//
// An Interpreter owns one global scope and one function table. Scripts run
// through a Session, which also carries the parser state between runs so
// that a REPL can define a function on one line and call it on the next.
package interp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/syntax"
	"github.com/you-not-fish/nerve/internal/value"
)

// DefaultMaxDepth bounds user function nesting when Options.MaxDepth is 0.
const DefaultMaxDepth = 2000

// Options configures an Interpreter.
type Options struct {
	// Output receives each printed line. Defaults to stdout.
	Output func(string)

	// Debug selects diagnostics; Logger receives them. If Logger is nil and
	// Debug is not empty, diagnostics go to stderr.
	Debug  debug.Set
	Logger *debug.Logger

	// Globals seeds the global scope with immutable variables.
	Globals map[string]value.Value

	// Funcs adds host functions. Their names may not collide with the
	// standard functions.
	Funcs []*Builtin

	NumericTruth bool // accept non-zero numbers as true conditions
	StrictAssign bool // reject assignment to undeclared variables
	Tiered       bool // tiered operator precedence instead of flat

	MaxDepth int
}

// Interpreter is the evaluation state of one script environment. It is not
// safe for concurrent use.
type Interpreter struct {
	opts     Options
	out      func(string)
	log      *debug.Logger
	funcs    map[string]Function
	global   *Scope
	maxDepth int

	// per-run state
	ctx   context.Context
	depth int
}

// New returns an Interpreter with the standard functions, opts.Funcs and
// opts.Globals installed.
func New(opts Options) (*Interpreter, error) {
	in := &Interpreter{
		opts:     opts,
		out:      opts.Output,
		log:      opts.Logger,
		funcs:    make(map[string]Function),
		global:   NewScope(nil, "global"),
		maxDepth: opts.MaxDepth,
	}
	if in.out == nil {
		in.out = func(s string) { fmt.Fprintln(os.Stdout, s) }
	}
	if in.log == nil && !opts.Debug.Empty() {
		in.log = debug.New(os.Stderr, opts.Debug)
	}
	if in.maxDepth <= 0 {
		in.maxDepth = DefaultMaxDepth
	}
	for name, b := range Stdlib() {
		in.funcs[name] = b
	}
	for _, b := range opts.Funcs {
		if err := in.Register(b); err != nil {
			return nil, err
		}
	}
	for name, v := range opts.Globals {
		in.global.Define(name, v, false)
	}
	return in, nil
}

// Register adds a host function. Standard functions cannot be replaced.
func (in *Interpreter) Register(b *Builtin) error {
	if _, ok := Stdlib()[b.Name]; ok {
		return fmt.Errorf("cannot overwrite standard function %s", b.Name)
	}
	in.funcs[b.Name] = b
	return nil
}

// define installs a user function.
func (in *Interpreter) define(f *Compiled) error {
	switch prev := in.funcs[f.Name].(type) {
	case nil:
	case *Builtin:
		return &Error{Pos: f.Pos, Msg: fmt.Sprintf("cannot redefine built-in function %s", f.Name)}
	case *Compiled:
		if prev.Body != f.Body {
			return &Error{Pos: f.Pos, Msg: fmt.Sprintf("function %s is already defined at %s", f.Name, prev.Pos)}
		}
	}
	in.funcs[f.Name] = f
	return nil
}

// Lookup returns the function called name.
func (in *Interpreter) Lookup(name string) (Function, bool) {
	f, ok := in.funcs[name]
	return f, ok
}

// FuncNames returns the names of all callable functions, sorted.
func (in *Interpreter) FuncNames() []string {
	names := make([]string, 0, len(in.funcs))
	for name := range in.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global returns the global scope.
func (in *Interpreter) Global() *Scope {
	return in.global
}

// Elapsed returns the total evaluation time of all runs so far.
func (in *Interpreter) Elapsed() time.Duration {
	return in.global.elapsed
}

// Options returns the options the Interpreter was created with.
func (in *Interpreter) Options() Options {
	return in.opts
}

// Run executes f in the global scope. Function and type definitions take
// effect before any other statement, so code may call functions defined
// further down. Run reports the first failure; statements after it are not
// executed.
func (in *Interpreter) Run(ctx context.Context, f *syntax.File) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx, in.depth = ctx, 0
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Pos: f.Pos(), Msg: fmt.Sprintf("internal error: %v", r)}
		}
		elapsed := time.Since(start)
		in.global.elapsed += elapsed
		in.log.Debug(debug.Of(debug.Timing), func() string {
			return fmt.Sprintf("run took %s (total %s)", elapsed, in.global.elapsed)
		})
		if err != nil {
			in.log.Debug(debug.Of(debug.Errors), err.Error)
		}
	}()

	for _, s := range f.Stmts {
		switch d := s.(type) {
		case *syntax.FuncDecl:
			if err := in.define(compile(d)); err != nil {
				return err
			}
		case *syntax.TypeDecl:
			in.global.Define(d.Name.Value, value.Type{Name: d.Name.Value}, false)
		}
	}

	for _, s := range f.Stmts {
		if _, ok := s.(syntax.Def); ok {
			continue
		}
		in.log.Debug(debug.Of(debug.StateChange), func() string {
			return fmt.Sprintf("%s: %s", s.Pos(), describe(s))
		})
		if _, _, err := in.exec(in.global, s); err != nil {
			return err
		}
	}
	return nil
}

// describe summarizes a top-level statement for the state change log.
func describe(s syntax.Stmt) string {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		return syntax.ExprString(s.X)
	case *syntax.VarDecl:
		kw := "var"
		if s.Mutable {
			kw = "var*"
		}
		return fmt.Sprintf("%s %s = %s", kw, s.Name.Value, syntax.ExprString(s.Value))
	case *syntax.AssignStmt:
		return fmt.Sprintf("%s = %s", s.Name.Value, syntax.ExprString(s.Value))
	case *syntax.IfStmt:
		return "if"
	case *syntax.ForStmt:
		return fmt.Sprintf("for %s in %s", s.Key.Value, syntax.ExprString(s.X))
	case *syntax.WhileStmt:
		return "while " + syntax.ExprString(s.Cond)
	}
	return fmt.Sprintf("%T", s)
}
