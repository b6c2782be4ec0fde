package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/scanner"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

// Parser reads a materialized token sequence through a forward-only cursor.
// A Parser is not safe for concurrent use.
type Parser struct {
	toks []*token.Token
	off  int
	eof  *token.Token
}

func New(toks []*token.Token) *Parser {
	p := &Parser{toks: toks}
	var end token.Pos
	if len(toks) > 0 {
		end = toks[len(toks)-1].End
	}
	p.eof = &token.Token{Type: token.EOF, Pos: end, End: end}
	return p
}

// Parse parses top-level constructs until the first EOF token. The first
// error aborts the parse and no module is returned.
func (p *Parser) Parse(name string) (*ast.Module, error) {
	var decls []ast.Decl

	for {
		switch {
		case p.t().Type == token.EOF:
			return &ast.Module{Name: name, Decls: decls}, nil
		case p.t().Is(';'):
			p.next()
			continue
		}

		decl, err := p.decl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
}

// ParseExpr parses a single expression that must span the whole input.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.t().Type != token.EOF {
		return nil, p.unexpected("end of input")
	}
	return x, nil
}

func (p *Parser) decl() (ast.Decl, error) {
	switch p.t().Type {
	case token.Def:
		return p.definition()
	case token.Extern:
		return p.extern()
	default:
		return p.topLevelExpr()
	}
}

func (p *Parser) definition() (*ast.Function, error) {
	def, err := p.expect(token.Def)
	if err != nil {
		return nil, err
	}

	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Def:   def.Pos,
		Proto: proto,
		Body:  body,
	}, nil
}

func (p *Parser) extern() (*ast.Extern, error) {
	ext, err := p.expect(token.Extern)
	if err != nil {
		return nil, err
	}

	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}

	return &ast.Extern{
		Extern: ext.Pos,
		Proto:  proto,
	}, nil
}

func (p *Parser) topLevelExpr() (*ast.Function, error) {
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.NewAnonymous(body), nil
}

// prototype parses a name and a parenthesized, space separated list of
// parameter names.
func (p *Parser) prototype() (*ast.Prototype, error) {
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if _, err = p.expectRune('('); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	for {
		if rparen := p.acceptRune(')'); rparen != nil {
			return &ast.Prototype{
				Name:   name,
				Params: params,
				Rparen: rparen.Pos,
			}, nil
		}

		param, err := p.identifier()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
}

func (p *Parser) expr() (ast.Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.binaryRHS(token.PrecedenceLowest, left)
}

// binaryRHS folds operators of at least prec into left. An operator that
// binds tighter than the one before it takes the right operand with it.
func (p *Parser) binaryRHS(prec token.Precedence, left ast.Expr) (ast.Expr, error) {
	for {
		opPrec := p.t().Precedence()
		if opPrec < prec {
			return left, nil
		}

		op := p.t()
		p.next()

		right, err := p.primary()
		if err != nil {
			return nil, err
		}

		if opPrec < p.t().Precedence() {
			right, err = p.binaryRHS(opPrec+1, right)
			if err != nil {
				return nil, err
			}
		}

		left = &ast.BinaryExpr{
			Left:  left,
			OpPos: op.Pos,
			Op:    op.Rune,
			Right: right,
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	switch t := p.t(); {
	case t.Type == token.Identifier:
		return p.identifierExpr()
	case t.Type == token.Number:
		return p.number()
	case t.Is('('):
		return p.parenExpr()
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) parenExpr() (ast.Expr, error) {
	if _, err := p.expectRune('('); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err = p.expectRune(')'); err != nil {
		return nil, err
	}
	return x, nil
}

func (p *Parser) identifierExpr() (ast.Expr, error) {
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if !p.t().Is('(') {
		return id, nil
	}

	return p.call(id)
}

func (p *Parser) call(callee *ast.Identifier) (*ast.CallExpr, error) {
	var args []ast.Expr

	lparen, err := p.expectRune('(')
	if err != nil {
		return nil, err
	}
	for {
		if rparen := p.acceptRune(')'); rparen != nil {
			return &ast.CallExpr{
				Callee: callee,
				Lparen: lparen.Pos,
				Args:   args,
				Rparen: rparen.Pos,
			}, nil
		}

		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.acceptRune(',') != nil {
			continue
		}
		if !p.t().Is(')') {
			return nil, p.unexpected("',' or ')'")
		}
	}
}

func (p *Parser) number() (*ast.Number, error) {
	tok, err := p.expect(token.Number)
	if err != nil {
		return nil, err
	}
	return &ast.Number{
		ValuePos: tok.Pos,
		ValueEnd: tok.End,
		Value:    tok.Value,
	}, nil
}

func (p *Parser) identifier() (*ast.Identifier, error) {
	tok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{
		NamePos: tok.Pos,
		NameEnd: tok.End,
		Name:    tok.Text,
	}, nil
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	if t := p.accept(typ); t != nil {
		return t, nil
	}
	return nil, p.unexpected(describe(typ))
}

func (p *Parser) expectRune(r rune) (*token.Token, error) {
	if t := p.acceptRune(r); t != nil {
		return t, nil
	}
	return nil, p.unexpected(fmt.Sprintf("%q", r))
}

func (p *Parser) accept(typ token.Type) *token.Token {
	if p.t().Type == typ {
		t := p.t()
		p.next()
		return t
	}
	return nil
}

func (p *Parser) acceptRune(r rune) *token.Token {
	if p.t().Is(r) {
		t := p.t()
		p.next()
		return t
	}
	return nil
}

// t returns the current token. Reading past the end of the sequence
// yields EOF.
func (p *Parser) t() *token.Token {
	if p.off < len(p.toks) {
		return p.toks[p.off]
	}
	return p.eof
}

func (p *Parser) next() {
	if p.off < len(p.toks) && p.toks[p.off].Type != token.EOF {
		p.off++
	}
}

func (p *Parser) unexpected(expected string) error {
	t := p.t()
	kind := ErrUnexpectedToken
	if t.Type == token.EOF {
		kind = ErrUnexpectedEOF
	}
	return &ParseError{
		Kind:     kind,
		Expected: expected,
		Found:    t,
		pos:      t.Pos,
		end:      t.End,
	}
}

func describe(typ token.Type) string {
	switch typ {
	case token.Identifier:
		return "identifier"
	case token.Number:
		return "number"
	default:
		return fmt.Sprintf("%q", typ.String())
	}
}

// ParseBytes maps each byte of src to one code point before scanning.
func ParseBytes(name string, src []byte) (*ast.Module, error) {
	runes, err := scanner.ReadSource(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return ParseRunes(name, runes)
}

func ParseString(name string, src string) (*ast.Module, error) {
	return ParseRunes(name, []rune(src))
}

func ParseRunes(name string, src []rune) (*ast.Module, error) {
	toks, err := scanner.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(toks).Parse(name)
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	toks, err := scanner.Tokenize([]rune(src))
	if err != nil {
		return nil, err
	}
	return New(toks).ParseExpr()
}

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
)

type ParseError struct {
	// Kind is ErrUnexpectedToken or ErrUnexpectedEOF.
	Kind     error
	Expected string
	Found    *token.Token

	pos, end token.Pos
}

func (err *ParseError) Pos() token.Pos { return err.pos }
func (err *ParseError) End() token.Pos { return err.end }

func (err *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error: ")
	if err.Kind == ErrUnexpectedEOF {
		fmt.Fprintf(&b, "expected %s but found end of input", err.Expected)
	} else {
		fmt.Fprintf(&b, "expected %s but found %v", err.Expected, err.Found)
	}
	return b.String()
}

func (err *ParseError) Unwrap() error {
	return err.Kind
}
