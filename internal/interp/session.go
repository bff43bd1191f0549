package interp

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/syntax"
)

// Session parses and runs a sequence of scripts against one environment.
// Variables and functions defined by one Exec are visible to the next.
type Session struct {
	in   *Interpreter
	conf *syntax.Config
}

// NewSession returns a Session with a fresh Interpreter.
func NewSession(opts Options) (*Session, error) {
	in, err := New(opts)
	if err != nil {
		return nil, err
	}
	conf := &syntax.Config{
		Scope: syntax.NewScope(nil, "global"),
		Funcs: make(map[string]syntax.Signature, len(in.funcs)),
	}
	if opts.Tiered {
		conf.Mode |= syntax.TieredPrecedence
	}
	if opts.StrictAssign {
		conf.Mode |= syntax.StrictAssign
	}
	// Native functions check their arguments when called.
	for name := range in.funcs {
		conf.Funcs[name] = syntax.Signature{Arity: -1, Builtin: true}
	}
	for _, name := range slices.Sorted(maps.Keys(opts.Globals)) {
		conf.Scope.Insert(&syntax.Binding{Name: name})
	}
	return &Session{in: in, conf: conf}, nil
}

// Interpreter returns the session's interpreter.
func (s *Session) Interpreter() *Interpreter {
	return s.in
}

// Scope returns the parse-time scope of top-level declarations.
func (s *Session) Scope() *syntax.Scope {
	return s.conf.Scope
}

// Parse tokenizes and parses src against the session's declarations. On
// success the top-level declarations of src become visible to later
// parses; on failure nothing changes. The returned error is a
// *syntax.TokenizeError, *syntax.UnexpectedTokenError or *syntax.ParseError.
func (s *Session) Parse(filename, src string) (*syntax.File, error) {
	log := s.in.log
	toks, err := syntax.Tokenize(filename, src)
	if err != nil {
		log.Debug(debug.Of(debug.Errors), err.Error)
		return nil, err
	}
	log.Debug(debug.Of(debug.Tokens), func() string {
		return fmt.Sprintf("%s: %d tokens: %v", filename, len(toks), toks)
	})

	conf := *s.conf
	conf.Scope = s.conf.Scope.Clone()
	f, err := syntax.NewParser(toks, &conf).Parse()
	if err != nil {
		log.Debug(debug.Of(debug.Errors), err.Error)
		return nil, err
	}
	s.conf.Scope = conf.Scope
	return f, nil
}

// Exec parses and runs src. Parse failures are returned as by Parse;
// evaluation failures are *Error values.
func (s *Session) Exec(ctx context.Context, filename, src string) error {
	f, err := s.Parse(filename, src)
	if err != nil {
		return err
	}
	return s.in.Run(ctx, f)
}

// Run executes src once in a fresh environment.
func Run(src string, opts Options) error {
	return RunContext(context.Background(), "script", src, opts)
}

// RunContext is like Run but names the script and stops early when ctx is
// done.
func RunContext(ctx context.Context, filename, src string, opts Options) error {
	s, err := NewSession(opts)
	if err != nil {
		return err
	}
	return s.Exec(ctx, filename, src)
}

// Go runs src on its own goroutine. The channel delivers the result (nil
// on success) and is then closed. Cancelling ctx stops the script at the
// next loop iteration or call.
func Go(ctx context.Context, src string, opts Options) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- RunContext(ctx, "script", src, opts)
	}()
	return done
}
