package syntax

// cursor is a checked forward reader over a materialized token sequence.
// The parser enforces the grammar through want (consume a token of a
// required kind or fail) and peek (non-consuming lookahead).
type cursor struct {
	toks []Lexeme
	pos  int
}

func newCursor(toks []Lexeme) *cursor {
	return &cursor{toks: toks}
}

// done reports whether every token has been consumed.
func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

// peek returns the token offset positions ahead without consuming it.
// ok is false when the offset is out of range.
func (c *cursor) peek(offset int) (lex Lexeme, ok bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.toks) {
		return Lexeme{}, false
	}
	return c.toks[i], true
}

// tok returns the kind of the next token, or _EOF.
func (c *cursor) tok() Token {
	lex, _ := c.peek(0)
	return lex.Tok
}

// got consumes the next token if it is of kind tok.
func (c *cursor) got(tok Token) bool {
	if c.tok() == tok && !c.done() {
		c.pos++
		return true
	}
	return false
}

// next consumes any token. It fails only at end of input.
func (c *cursor) next(context string) (Lexeme, error) {
	return c.wantFunc("a token", func(Token) bool { return true }, context)
}

// want consumes the next token, failing with an UnexpectedTokenError if it
// is not of kind tok.
func (c *cursor) want(tok Token, context string) (Lexeme, error) {
	return c.wantFunc(tok.String(), func(t Token) bool { return t == tok }, context)
}

// wantFunc is like want for a class of tokens described by what.
func (c *cursor) wantFunc(what string, ok func(Token) bool, context string) (Lexeme, error) {
	lex, present := c.peek(0)
	if !present {
		return Lexeme{}, &UnexpectedTokenError{Pos: c.lastPos(), Want: what, Context: context}
	}
	if !ok(lex.Tok) {
		return Lexeme{}, &UnexpectedTokenError{Pos: lex.Pos, Want: what, Got: lex, Context: context}
	}
	c.pos++
	return lex, nil
}

// lastPos returns the position of the next token, or of the last token at
// end of input.
func (c *cursor) lastPos() Pos {
	if lex, ok := c.peek(0); ok {
		return lex.Pos
	}
	if n := len(c.toks); n > 0 {
		return c.toks[n-1].Pos
	}
	return Pos{}
}
