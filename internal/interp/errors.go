package interp

import (
	"errors"

	"github.com/you-not-fish/nerve/internal/syntax"
)

// ErrMaxDepth is wrapped by the error reported when user function calls
// nest deeper than Options.MaxDepth.
var ErrMaxDepth = errors.New("maximum call depth exceeded")

// Error is a failure during evaluation. Errors escaping the body of a user
// function are wrapped in an Error naming that function, so a failure deep
// in a call chain reads like a trace:
//
//	3:5: in function outer: 2:18: in function inner: 2:22: variable y is not defined
type Error struct {
	Pos   syntax.Pos
	Msg   string
	Func  string // user function the failure escaped from, if any
	Cause error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Pos.IsValid() {
		msg = e.Pos.String() + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
