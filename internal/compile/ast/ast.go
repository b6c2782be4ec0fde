package ast

import "codeberg.org/rileyq/kaleido/internal/compile/token"

// AnonName is the prototype name given to top-level expressions.
const AnonName = "__anon_expr"

type Node interface {
	Pos() token.Pos
	End() token.Pos

	astNode()
}

type Expr interface {
	Node

	astExpr()
}

// Decl is a top-level construct: a *Function or an *Extern.
type Decl interface {
	Node

	Prototype() *Prototype

	astDecl()
}

type Module struct {
	Name  string
	Decls []Decl
}

func (m *Module) Pos() token.Pos {
	if len(m.Decls) == 0 {
		return token.NoPos
	}
	return m.Decls[0].Pos()
}

func (m *Module) End() token.Pos {
	if len(m.Decls) == 0 {
		return token.NoPos
	}
	return m.Decls[len(m.Decls)-1].End()
}

func (m *Module) astNode() {}

type Identifier struct {
	NamePos token.Pos
	NameEnd token.Pos
	Name    string
}

func (id *Identifier) Pos() token.Pos { return id.NamePos }
func (id *Identifier) End() token.Pos { return id.NameEnd }

func (id *Identifier) astNode() {}
func (id *Identifier) astExpr() {}

type Number struct {
	ValuePos token.Pos
	ValueEnd token.Pos
	Value    float64
}

func (expr *Number) Pos() token.Pos { return expr.ValuePos }
func (expr *Number) End() token.Pos { return expr.ValueEnd }

func (expr *Number) astNode() {}
func (expr *Number) astExpr() {}

type BinaryExpr struct {
	Left  Expr
	OpPos token.Pos
	Op    rune
	Right Expr
}

func (expr *BinaryExpr) Pos() token.Pos { return expr.Left.Pos() }
func (expr *BinaryExpr) End() token.Pos { return expr.Right.End() }

func (*BinaryExpr) astNode() {}
func (*BinaryExpr) astExpr() {}

type CallExpr struct {
	Callee *Identifier
	Lparen token.Pos
	Args   []Expr
	Rparen token.Pos
}

func (expr *CallExpr) Pos() token.Pos { return expr.Callee.Pos() }
func (expr *CallExpr) End() token.Pos { return expr.Rparen + 1 }

func (*CallExpr) astNode() {}
func (*CallExpr) astExpr() {}

type Prototype struct {
	Name   *Identifier
	Params []*Identifier
	Rparen token.Pos
}

func (p *Prototype) Pos() token.Pos { return p.Name.Pos() }

func (p *Prototype) End() token.Pos {
	if p.Rparen.IsValid() {
		return p.Rparen + 1
	}
	return p.Name.End()
}

func (p *Prototype) ParamNames() []string {
	names := make([]string, len(p.Params))
	for i, param := range p.Params {
		names[i] = param.Name
	}
	return names
}

func (*Prototype) astNode() {}

// Function is a definition with a body. Top-level expressions are wrapped
// in a Function with no Def keyword and the name AnonName.
type Function struct {
	Def   token.Pos
	Proto *Prototype
	Body  Expr
}

// NewAnonymous wraps a top-level expression.
func NewAnonymous(body Expr) *Function {
	return &Function{
		Proto: &Prototype{Name: &Identifier{Name: AnonName}},
		Body:  body,
	}
}

func (fn *Function) Anonymous() bool {
	return !fn.Def.IsValid() && fn.Proto.Name.Name == AnonName
}

func (fn *Function) Pos() token.Pos {
	if fn.Def.IsValid() {
		return fn.Def
	}
	return fn.Body.Pos()
}

func (fn *Function) End() token.Pos { return fn.Body.End() }

func (fn *Function) Prototype() *Prototype { return fn.Proto }

func (*Function) astNode() {}
func (*Function) astDecl() {}

// Extern declares a prototype without a body.
type Extern struct {
	Extern token.Pos
	Proto  *Prototype
}

func (ext *Extern) Pos() token.Pos { return ext.Extern }
func (ext *Extern) End() token.Pos { return ext.Proto.End() }

func (ext *Extern) Prototype() *Prototype { return ext.Proto }

func (*Extern) astNode() {}
func (*Extern) astDecl() {}
