package syntax

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is wrapped by tokenize and parse errors caused by input
// that ended too early. Interactive hosts use it to ask for more lines.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// TokenizeError reports a malformed character sequence.
type TokenizeError struct {
	Pos Pos
	Msg string
	Err error // underlying cause, may be nil
}

func (e *TokenizeError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

func (e *TokenizeError) Unwrap() error {
	return e.Err
}

// UnexpectedTokenError is returned by the token cursor when the next token
// is not of the required kind.
type UnexpectedTokenError struct {
	Pos     Pos
	Want    string // expected token or token class
	Got     Lexeme // Got.Tok is _EOF when input ran out
	Context string // what the parser was doing
}

func (e *UnexpectedTokenError) Error() string {
	got := "end of input"
	if !e.Got.Tok.IsEOF() {
		got = e.Got.String()
	}
	msg := fmt.Sprintf("%s: expected %s, got %s", e.Pos, e.Want, got)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *UnexpectedTokenError) Unwrap() error {
	if e.Got.Tok.IsEOF() {
		return ErrUnexpectedEOF
	}
	return nil
}

// ParseError reports a grammar violation or a scoping rule broken at parse
// time. Cause holds the nested failure when the error was raised while
// unwinding from a function body, control body or template.
type ParseError struct {
	Pos   Pos
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	msg := e.Pos.String() + ": " + e.Msg
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
