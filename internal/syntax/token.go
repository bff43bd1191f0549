// Package syntax implements lexical and syntactic analysis for the Nerve scripting language.
package syntax

import (
	"fmt"
	"strings"
)

// Token represents the kind of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF Token = iota // end of input (never stored in a token sequence)

	// Values
	_Name     // identifier: foo, max-len
	_Literal  // constant (used with LitKind)
	_Template // string template: "a{x}b"

	// Operators
	_Assign // =
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Gtr    // >
	_Range  // ...
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Rem    // %
	_Pow    // ^

	// Separators
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Lbrack // [
	_Rbrack // ]
	_Comma  // ,

	// Keywords
	_If
	_ElseIf
	_Else
	_While
	_Do
	_Return
	_Break
	_For
	_Continue
	_Fun
	_Var
	_MutVar
	_Type
	_Null

	tokenCount
)

var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:     "NAME",
	_Literal:  "LITERAL",
	_Template: "TEMPLATE",

	_Assign: "=",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Gtr:    ">",
	_Range:  "...",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",
	_Pow:    "^",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",
	_Lbrack: "[",
	_Rbrack: "]",
	_Comma:  ",",

	_If:       "if",
	_ElseIf:   "elseif",
	_Else:     "else",
	_While:    "while",
	_Do:       "do",
	_Return:   "return",
	_Break:    "break",
	_For:      "for",
	_Continue: "continue",
	_Fun:      "fun",
	_Var:      "var",
	_MutVar:   "var*",
	_Type:     "type",
	_Null:     "null",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding strength of a binary operator, 0 for
// non-operators. Levels used by the tiered grammar:
//
//	1: ...
//	2: == != < >
//	3: + -
//	4: * / %
//	5: ^
func (t Token) Precedence() int {
	switch t {
	case _Range:
		return 1
	case _Eql, _Neq, _Lss, _Gtr:
		return 2
	case _Add, _Sub:
		return 3
	case _Mul, _Div, _Rem:
		return 4
	case _Pow:
		return 5
	}
	return 0
}

// IsOperator reports whether t is a binary operator. Assignment is not.
func (t Token) IsOperator() bool {
	return t >= _Eql && t <= _Pow
}

// IsSeparator reports whether t is a bracket or comma.
func (t Token) IsSeparator() bool {
	return t >= _Lparen && t <= _Comma
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _If && t <= _Null
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported tokens for the evaluator.
const (
	Eql      Token = _Eql
	Neq      Token = _Neq
	Lss      Token = _Lss
	Gtr      Token = _Gtr
	Range    Token = _Range
	Add      Token = _Add
	Sub      Token = _Sub
	Mul      Token = _Mul
	Div      Token = _Div
	Rem      Token = _Rem
	Pow      Token = _Pow
	Break    Token = _Break
	Continue Token = _Continue
)

// LitKind represents the kind of a constant token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 42
	LongLit                  // 42L
	FloatLit                 // 1.5f
	DoubleLit                // 1.5, 1.5d
	BoolLit                  // true, false
	StringLit                // "hi", 'hi'
)

var litKindNames = [...]string{
	IntLit:    "Integer",
	LongLit:   "Long",
	FloatLit:  "Float",
	DoubleLit: "Double",
	BoolLit:   "Boolean",
	StringLit: "String",
}

// String returns the type name of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// "var*" is produced by the scanner from "var" followed by '*'.
var keywords = map[string]Token{
	"if":       _If,
	"elseif":   _ElseIf,
	"eif":      _ElseIf,
	"else":     _Else,
	"while":    _While,
	"do":       _Do,
	"return":   _Return,
	"break":    _Break,
	"for":      _For,
	"continue": _Continue,
	"fun":      _Fun,
	"var":      _Var,
	"type":     _Type,
	"null":     _Null,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Lexeme is one materialized token. Lexemes compare structurally; two scans
// of the same text produce equal sequences.
type Lexeme struct {
	Tok  Token
	Lit  string  // identifier name, operator text, or literal source text
	Kind LitKind // valid when Tok == _Literal
	// Value is the typed constant for _Literal:
	// int32, int64, float32, float64, bool or string.
	Value any
	Parts []Part // valid when Tok == _Template
	Pos   Pos
}

// Part is one piece of a string template: either a literal fragment or the
// token sequence of a {...} interpolation.
type Part struct {
	Text   string
	Tokens []Lexeme // non-nil for interpolations
}

// IsExpr reports whether the part is an interpolation.
func (p Part) IsExpr() bool {
	return p.Tokens != nil
}

// String formats the lexeme for token dumps and diagnostics.
func (l Lexeme) String() string {
	switch l.Tok {
	case _Name:
		return "|" + l.Lit + "|"
	case _Literal:
		if l.Kind == StringLit {
			return fmt.Sprintf("%q", l.Value)
		}
		return l.Lit
	case _Template:
		var b strings.Builder
		b.WriteString("template[")
		for i, part := range l.Parts {
			if i > 0 {
				b.WriteString(" ")
			}
			if part.IsExpr() {
				b.WriteString("{")
				for j, t := range part.Tokens {
					if j > 0 {
						b.WriteString(" ")
					}
					b.WriteString(t.String())
				}
				b.WriteString("}")
			} else {
				fmt.Fprintf(&b, "%q", part.Text)
			}
		}
		b.WriteString("]")
		return b.String()
	}
	return l.Tok.String()
}
