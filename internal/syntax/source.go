package syntax

import (
	"errors"
	"io"
	"unicode"
)

// eof is returned by peek when the requested character lies outside the buffer.
const eof rune = -1

// ErrOutOfBounds is returned when the cursor is moved past either end of its buffer.
var ErrOutOfBounds = errors.New("character cursor out of bounds")

// source is a random-access character cursor over an immutable buffer.
// It is owned by one Scanner chain (a template's child scanner reuses its
// parent's source, which is how the line counter is shared).
type source struct {
	buf      []rune
	offs     int    // index of the next character to consume
	line     uint32 // line of buf[offs], 1-based
	col      uint32 // column of buf[offs], 1-based
	filename string
}

// newSource reads src completely and returns a cursor positioned at its first character.
func newSource(filename string, src io.Reader) (*source, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return newSourceString(filename, string(b)), nil
}

// newSourceString returns a cursor over text. Invalid UTF-8 decodes to U+FFFD,
// which the scanner rejects as an unrecognized character.
func newSourceString(filename, text string) *source {
	return &source{
		buf:      []rune(text),
		line:     1,
		col:      1,
		filename: filename,
	}
}

// consume returns the current character and advances by one.
func (s *source) consume() (rune, error) {
	if s.offs >= len(s.buf) {
		return eof, ErrOutOfBounds
	}
	ch := s.buf[s.offs]
	s.offs++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch, nil
}

// skip consumes the current character, ignoring end of input.
func (s *source) skip() {
	_, _ = s.consume()
}

// peek returns the character n positions after the current one without
// advancing. A negative n looks behind. Returns eof outside the buffer.
func (s *source) peek(n int) rune {
	i := s.offs + n
	if i < 0 || i >= len(s.buf) {
		return eof
	}
	return s.buf[i]
}

// pushback rewinds the cursor by n characters.
func (s *source) pushback(n int) error {
	if n > s.offs {
		return ErrOutOfBounds
	}
	for ; n > 0; n-- {
		s.offs--
		if s.buf[s.offs] != '\n' {
			s.col--
			continue
		}
		s.line--
		s.col = 1
		for i := s.offs - 1; i >= 0 && s.buf[i] != '\n'; i-- {
			s.col++
		}
	}
	return nil
}

// atEOF reports whether every character has been consumed.
func (s *source) atEOF() bool {
	return s.offs >= len(s.buf)
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// Character classification helpers

// isLetter reports whether r can start an identifier.
func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isIdentChar reports whether r can continue an identifier.
// Dashes are identifier characters: "max-len" is a single name.
func isIdentChar(r rune) bool {
	return isLetter(r) || unicode.IsDigit(r) || r == '-'
}

// isWhitespace reports whether r is skipped between tokens, newlines included.
func isWhitespace(r rune) bool {
	return r != eof && unicode.IsSpace(r)
}
