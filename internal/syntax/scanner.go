package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on Nerve source code, producing a flat
// token sequence. String templates are handled by a child Scanner that reads
// from the same character cursor until the matching '}'.
type Scanner struct {
	*source // character cursor, shared with child scanners

	toks   []Lexeme
	nested bool // scanning a template interpolation
	depth  int  // braces opened inside the interpolation

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a Scanner reading all of src.
func NewScanner(filename string, src io.Reader) (*Scanner, error) {
	s, err := newSource(filename, src)
	if err != nil {
		return nil, err
	}
	return &Scanner{source: s}, nil
}

// Tokenize scans text and returns its token sequence.
func Tokenize(filename, text string) ([]Lexeme, error) {
	s := &Scanner{source: newSourceString(filename, text)}
	return s.Scan()
}

// Scan tokenizes the remaining input.
func (s *Scanner) Scan() ([]Lexeme, error) {
	for {
		ch := s.peek(0)
		var err error

		switch {
		case ch == eof:
			if s.nested {
				return nil, s.errorf(s.pos(), ErrUnexpectedEOF, "string template interpolation not terminated")
			}
			return s.toks, nil

		case isWhitespace(ch):
			s.skip()

		case isLetter(ch):
			err = s.scanIdent()

		case isDigit(ch), ch == '-' && isDigit(s.peek(1)) && !s.operandEnded():
			err = s.scanNumber()

		case ch == '"' || ch == '\'':
			err = s.scanString()

		case s.nested && ch == '}' && s.depth == 0:
			s.skip()
			if s.toks == nil {
				s.toks = []Lexeme{}
			}
			return s.toks, nil

		default:
			err = s.scanOperator()
		}

		if err != nil {
			return nil, err
		}
	}
}

func (s *Scanner) emit(tok Token, lit string, pos Pos) {
	s.toks = append(s.toks, Lexeme{Tok: tok, Lit: lit, Pos: pos})
}

func (s *Scanner) emitLit(kind LitKind, lit string, val any, pos Pos) {
	s.toks = append(s.toks, Lexeme{Tok: _Literal, Lit: lit, Kind: kind, Value: val, Pos: pos})
}

// operandEnded reports whether the previous token can end an operand, in
// which case a following '-' is subtraction rather than a sign.
func (s *Scanner) operandEnded() bool {
	if len(s.toks) == 0 {
		return false
	}
	switch s.toks[len(s.toks)-1].Tok {
	case _Name, _Literal, _Template, _Null, _Rparen, _Rbrack:
		return true
	}
	return false
}

func (s *Scanner) errorf(pos Pos, cause error, format string, args ...any) error {
	return &TokenizeError{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// scanIdent scans an identifier, keyword or boolean constant.
func (s *Scanner) scanIdent() error {
	pos := s.pos()
	s.litBuf.Reset()
	for isIdentChar(s.peek(0)) {
		s.litBuf.WriteRune(s.peek(0))
		s.skip()
	}
	ident := s.litBuf.String()

	switch ident {
	case "true":
		s.emitLit(BoolLit, ident, true, pos)
		return nil
	case "false":
		s.emitLit(BoolLit, ident, false, pos)
		return nil
	}

	tok := LookupKeyword(ident)
	if tok == _Var && s.peek(0) == '*' {
		s.skip()
		tok, ident = _MutVar, "var*"
	}
	s.emit(tok, ident, pos)
	return nil
}

var numberSuffixes = map[rune]LitKind{
	'L': LongLit,
	'f': FloatLit,
	'd': DoubleLit,
}

// scanNumber scans a numeric constant: digits with at most one decimal
// point, an optional leading sign, and an optional type suffix (L, f, d).
func (s *Scanner) scanNumber() error {
	pos := s.pos()
	s.litBuf.Reset()
	if s.peek(0) == '-' {
		s.litBuf.WriteRune('-')
		s.skip()
	}

	floating := false
scan:
	for {
		ch := s.peek(0)
		switch {
		case isDigit(ch):
			s.litBuf.WriteRune(ch)
			s.skip()
		case ch == '.':
			if s.peek(1) == '.' {
				break scan // range operator follows
			}
			if floating {
				return s.errorf(s.pos(), nil, "two decimal points in number %s.", s.litBuf.String())
			}
			floating = true
			s.litBuf.WriteRune(ch)
			s.skip()
		default:
			break scan
		}
	}

	digits := s.litBuf.String()
	kind := IntLit
	if floating {
		kind = DoubleLit
	}
	lit := digits
	if k, ok := numberSuffixes[s.peek(0)]; ok {
		kind = k
		lit += string(s.peek(0))
		s.skip()
	}

	var val any
	var err error
	switch kind {
	case IntLit:
		var n int64
		n, err = strconv.ParseInt(digits, 10, 32)
		val = int32(n)
	case LongLit:
		val, err = strconv.ParseInt(digits, 10, 64)
	case FloatLit:
		var f float64
		f, err = strconv.ParseFloat(digits, 32)
		val = float32(f)
	case DoubleLit:
		val, err = strconv.ParseFloat(digits, 64)
	}
	if err != nil {
		return s.errorf(pos, err, "invalid %s literal %s", kind, lit)
	}
	s.emitLit(kind, lit, val, pos)
	return nil
}

// scanString scans a quoted literal delimited by ' or ". An unescaped '{'
// starts an interpolation, turning the literal into a string template.
func (s *Scanner) scanString() error {
	pos := s.pos()
	quote, _ := s.consume()

	var b strings.Builder
	var parts []Part
	template := false

	for {
		ch, err := s.consume()
		if err != nil {
			return s.errorf(pos, ErrUnexpectedEOF, "string literal not terminated")
		}

		switch ch {
		case quote:
			if !template {
				s.emitLit(StringLit, b.String(), b.String(), pos)
				return nil
			}
			if b.Len() > 0 {
				parts = append(parts, Part{Text: b.String()})
			}
			s.toks = append(s.toks, Lexeme{Tok: _Template, Parts: parts, Pos: pos})
			return nil

		case '\\':
			r, err := s.scanEscape()
			if err != nil {
				return err
			}
			b.WriteRune(r)

		case '{':
			template = true
			if b.Len() > 0 {
				parts = append(parts, Part{Text: b.String()})
				b.Reset()
			}
			child := &Scanner{source: s.source, nested: true}
			toks, err := child.Scan()
			if err != nil {
				return err
			}
			parts = append(parts, Part{Tokens: toks})

		default:
			b.WriteRune(ch)
		}
	}
}

// scanEscape decodes the character after a backslash.
func (s *Scanner) scanEscape() (rune, error) {
	pos := s.pos()
	ch, err := s.consume()
	if err != nil {
		return 0, s.errorf(pos, ErrUnexpectedEOF, "escape sequence not terminated")
	}
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"', '{', '}':
		return ch, nil
	}
	return 0, s.errorf(pos, nil, "unknown escape sequence \\%c", ch)
}

// scanOperator scans an operator, separator or comment.
func (s *Scanner) scanOperator() error {
	pos := s.pos()
	ch, _ := s.consume()

	switch ch {
	case '(':
		s.emit(_Lparen, "(", pos)
	case ')':
		s.emit(_Rparen, ")", pos)
	case '{':
		if s.nested {
			s.depth++
		}
		s.emit(_Lbrace, "{", pos)
	case '}':
		if s.nested {
			s.depth--
		}
		s.emit(_Rbrace, "}", pos)
	case '[':
		s.emit(_Lbrack, "[", pos)
	case ']':
		s.emit(_Rbrack, "]", pos)
	case ',':
		s.emit(_Comma, ",", pos)
	case '+':
		s.emit(_Add, "+", pos)
	case '-':
		s.emit(_Sub, "-", pos)
	case '*':
		s.emit(_Mul, "*", pos)
	case '^':
		s.emit(_Pow, "^", pos)
	case '%':
		s.emit(_Rem, "%", pos)
	case '<':
		s.emit(_Lss, "<", pos)
	case '>':
		s.emit(_Gtr, ">", pos)
	case '/':
		if s.peek(0) == '/' {
			s.skipLineComment()
			return nil
		}
		s.emit(_Div, "/", pos)
	case '!':
		if s.peek(0) != '=' {
			return s.errorf(pos, nil, "unexpected '!' (only != is an operator)")
		}
		s.skip()
		s.emit(_Neq, "!=", pos)
	case '=':
		if s.peek(0) == '=' {
			s.skip()
			s.emit(_Eql, "==", pos)
		} else {
			s.emit(_Assign, "=", pos)
		}
	case '.':
		if s.peek(0) != '.' || s.peek(1) != '.' {
			return s.errorf(pos, nil, "unexpected '.' (only ... is an operator)")
		}
		s.skip()
		s.skip()
		s.emit(_Range, "...", pos)
	default:
		return s.errorf(pos, nil, "unexpected character %q", ch)
	}
	return nil
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	for ch := s.peek(0); ch != '\n' && ch != eof; ch = s.peek(0) {
		s.skip()
	}
}
