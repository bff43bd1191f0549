package interp

import (
	"time"

	"github.com/you-not-fish/nerve/internal/value"
)

// epoch anchors system_nanoTime to the monotonic clock.
var epoch = time.Now()

func anyParam(name string) Param { return Param{Name: name} }

// std is filled by init: nerve_run starts a new session, which installs
// the standard functions again, so the table cannot be a package-level
// initializer.
var std map[string]*Builtin

// Stdlib returns the standard functions, keyed by name. The table must not
// be modified.
func Stdlib() map[string]*Builtin {
	return std
}

func init() {
	list := []*Builtin{
		{
			Name:   "print",
			Params: []Param{anyParam("value")},
			Fn: func(in *Interpreter, args []value.Value) (value.Value, error) {
				in.out(args[0].String())
				return value.None, nil
			},
		},
		{
			Name: "system_nanoTime",
			Fn: func(*Interpreter, []value.Value) (value.Value, error) {
				return value.Long(time.Since(epoch).Nanoseconds()), nil
			},
		},
		{
			Name: "system_currentMillis",
			Fn: func(*Interpreter, []value.Value) (value.Value, error) {
				return value.Long(time.Now().UnixMilli()), nil
			},
		},
		{
			Name:   "nerve_run",
			Params: []Param{{Name: "script", Kinds: []value.Kind{value.StringKind}}},
			Fn:     nerveRun,
		},
		{
			Name:   "typeof",
			Params: []Param{anyParam("value")},
			Fn: func(_ *Interpreter, args []value.Value) (value.Value, error) {
				if t, ok := args[0].(value.Type); ok {
					return value.String(t.Name), nil
				}
				return value.String(args[0].Kind().String()), nil
			},
		},
		{
			Name:   "len",
			Params: []Param{anyParam("value")},
			Fn: func(_ *Interpreter, args []value.Value) (value.Value, error) {
				n, err := value.Len(args[0])
				if err != nil {
					return nil, err
				}
				return value.FromGo(n)
			},
		},
	}
	std = make(map[string]*Builtin, len(list))
	for _, b := range list {
		std[b.Name] = b
	}
}

// nerveRun runs a script in a fresh session that shares only the output
// sink, logger, options and host functions of the caller. It returns the
// failure message, or null when the script succeeded.
func nerveRun(in *Interpreter, args []value.Value) (value.Value, error) {
	opts := in.opts
	opts.Output = in.out
	opts.Globals = nil
	opts.Logger = in.log.With("nerve_run")
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	if err := s.Exec(in.ctx, "nerve_run", string(args[0].(value.String))); err != nil {
		return value.String(err.Error()), nil
	}
	return value.None, nil
}
