package scanner

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

var ErrMalformedLiteral = errors.New("malformed literal")

// Error is a fatal lexical error. Scanning cannot continue past it.
type Error struct {
	pos, end token.Pos
	text     string
	err      error
}

func (err *Error) Pos() token.Pos { return err.pos }
func (err *Error) End() token.Pos { return err.end }
func (err *Error) Text() string   { return err.text }

func (err *Error) Error() string {
	return fmt.Sprintf("scan error: %v", err.err)
}

func (err *Error) Unwrap() error {
	return err.err
}

type Scanner struct {
	rd *runeScanner
}

func New(src []rune) *Scanner {
	return &Scanner{rd: &runeScanner{src: src}}
}

// Tokenize scans all of src. The result always ends with exactly one EOF
// token unless an error is returned.
func Tokenize(src []rune) ([]*token.Token, error) {
	s := New(src)
	var toks []*token.Token
	for {
		tok, err := s.Scan()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// ReadSource reads rd to completion and maps every byte to the code point
// of the same value.
func ReadSource(rd io.Reader) ([]rune, error) {
	data, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(rd))
	if err != nil {
		return nil, err
	}
	return []rune(string(data)), nil
}

// Scan returns the next token. Once the input is exhausted every call
// returns an EOF token.
func (s *Scanner) Scan() (*token.Token, error) {
	for {
		s.skipSpace()

		s.rd.Begin()

		r, ok := s.rd.next()
		if !ok {
			return s.token(token.EOF), nil
		}

		switch {
		case unicode.IsLetter(r):
			return s.identifier(), nil
		case isDigit(r) || r == '.':
			return s.number()
		case r == '#':
			s.comment()
			continue
		}

		tok := s.token(token.Other)
		tok.Rune = r
		return tok, nil
	}
}

func (s *Scanner) identifier() *token.Token {
	for {
		r, ok := s.rd.peek()
		if !ok || !isIdentifierContinue(r) {
			break
		}
		s.rd.next()
	}

	tok := s.token(token.Identifier)
	tok.Type = token.Lookup(tok.Text)
	return tok
}

func (s *Scanner) number() (*token.Token, error) {
	for {
		r, ok := s.rd.peek()
		if !ok || !(isDigit(r) || r == '.') {
			break
		}
		s.rd.next()
	}

	tok := s.token(token.Number)
	value, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, &Error{
			pos:  tok.Pos,
			end:  tok.End,
			text: tok.Text,
			err:  fmt.Errorf("%w %q: %w", ErrMalformedLiteral, tok.Text, err),
		}
	}
	tok.Value = value
	return tok, nil
}

// comment skips to the end of the line. The line break itself is left for
// skipSpace. A comment may run to the end of input.
func (s *Scanner) comment() {
	for {
		r, ok := s.rd.peek()
		if !ok || r == '\n' || r == '\r' {
			return
		}
		s.rd.next()
	}
}

func (s *Scanner) token(typ token.Type) *token.Token {
	start, end, text := s.rd.End()
	return &token.Token{
		Type: typ,
		Pos:  token.Pos(start + 1),
		End:  token.Pos(end + 1),
		Text: text,
	}
}

func (s *Scanner) skipSpace() {
	for {
		r, ok := s.rd.peek()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		s.rd.next()
	}
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// runeScanner is a cursor over a materialized rune slice that records the
// text between Begin and End.
type runeScanner struct {
	src   []rune
	off   int
	start int
}

func (r *runeScanner) Begin() {
	r.start = r.off
}

func (r *runeScanner) End() (int, int, string) {
	return r.start, r.off, string(r.src[r.start:r.off])
}

func (r *runeScanner) peek() (rune, bool) {
	if r.off >= len(r.src) {
		return 0, false
	}
	return r.src[r.off], true
}

func (r *runeScanner) next() (rune, bool) {
	ru, ok := r.peek()
	if ok {
		r.off++
	}
	return ru, ok
}
