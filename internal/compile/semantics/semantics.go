package semantics

import (
	"errors"
	"fmt"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

var (
	ErrDuplicateParam    = errors.New("duplicate parameter")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedFunction = errors.New("undefined function")
	ErrArgumentCount     = errors.New("wrong number of arguments")
	ErrRedefinition      = errors.New("redefinition")
)

type Error struct {
	pos, end token.Pos
	err      error
}

func NewError(pos, end token.Pos, err error) *Error {
	return &Error{pos, end, err}
}

func (err *Error) Pos() token.Pos { return err.pos }
func (err *Error) End() token.Pos { return err.end }

func (err *Error) Error() string {
	return fmt.Sprintf("semantic error: %v", err.err)
}

func (err *Error) Unwrap() error {
	return err.err
}

// Info holds the results of a check.
type Info struct {
	// Uses maps every identifier that refers to a symbol, including
	// declaring occurrences, to that symbol.
	Uses map[*ast.Identifier]Symbol
}

type CheckConfig struct {
	Module *ast.Module
	Info   *Info
}

// Check resolves names in cfg.Module and reports every problem found,
// joined into a single error.
func Check(cfg *CheckConfig) (*Module, error) {
	var p pass
	p.info = cfg.Info
	return p.Apply(cfg.Module)
}

type Module struct {
	name  string
	scope *Scope
}

func (m *Module) Name() string  { return m.name }
func (m *Module) Scope() *Scope { return m.scope }
func (m *Module) Lookup(name string) *Func {
	fn, _ := m.scope.Lookup(name).(*Func)
	return fn
}

type pass struct {
	scope *Scope
	cur   *Scope
	info  *Info
	errs  []error
}

func (p *pass) Apply(moduleAst *ast.Module) (*Module, error) {
	module := p.module(moduleAst)
	return module, errors.Join(p.errs...)
}

func (p *pass) module(m *ast.Module) *Module {
	scope := NewScope(nil, m.Pos(), m.End(), fmt.Sprintf("module %q", m.Name))
	p.cur = scope
	p.scope = scope
	for _, decl := range m.Decls {
		p.decl(decl)
	}
	p.scope = nil
	p.cur = nil
	return &Module{name: m.Name, scope: scope}
}

func (p *pass) decl(decl ast.Decl) {
	switch decl := decl.(type) {
	case *ast.Extern:
		p.declare(decl, false)
	case *ast.Function:
		if !decl.Anonymous() {
			p.declare(decl, true)
		}
		p.function(decl)
	default:
		panic(fmt.Errorf("unhandled decl node %T", decl))
	}
}

// declare adds the function named by decl to the module scope. A later
// extern or def may repeat an earlier declaration with the same arity, but
// a body may only be given once.
func (p *pass) declare(decl ast.Decl, defined bool) {
	proto := decl.Prototype()
	sym := &Func{decl: decl, defined: defined}

	prev := p.scope.Insert(sym)
	if prev == nil {
		p.use(proto.Name, sym)
		return
	}

	prevFn := prev.(*Func)
	switch {
	case prevFn.Arity() != sym.Arity():
		p.error(proto.Name.Pos(), proto.End(),
			fmt.Errorf("%w of %s with %d parameters, previously declared with %d",
				ErrRedefinition, proto.Name.Name, sym.Arity(), prevFn.Arity()))
	case prevFn.defined && defined:
		p.error(proto.Name.Pos(), proto.End(),
			fmt.Errorf("%w of function %s", ErrRedefinition, proto.Name.Name))
	default:
		if defined {
			prevFn.decl = decl
			prevFn.defined = true
		}
		p.use(proto.Name, prevFn)
	}
}

func (p *pass) function(fn *ast.Function) {
	scope := NewScope(p.cur, fn.Pos(), fn.End(), fmt.Sprintf("func %s", fn.Proto.Name.Name))
	p.cur = scope
	defer func() { p.cur = scope.Parent() }()

	for i, param := range fn.Proto.Params {
		sym := &Param{ident: param, index: i}
		if prev := scope.Insert(sym); prev != nil {
			p.error(param.Pos(), param.End(),
				fmt.Errorf("%w %s in %s", ErrDuplicateParam, param.Name, fn.Proto.Name.Name))
			continue
		}
		p.use(param, sym)
	}

	p.expr(fn.Body)
}

func (p *pass) expr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.Number:
	case *ast.Identifier:
		sym, ok := p.cur.Lookup(expr.Name).(*Param)
		if !ok {
			p.error(expr.Pos(), expr.End(), fmt.Errorf("%w %s", ErrUndefinedVariable, expr.Name))
			return
		}
		p.use(expr, sym)
	case *ast.BinaryExpr:
		p.expr(expr.Left)
		p.expr(expr.Right)
	case *ast.CallExpr:
		p.call(expr)
	default:
		panic(fmt.Errorf("unhandled expr node %T", expr))
	}
}

func (p *pass) call(expr *ast.CallExpr) {
	for _, arg := range expr.Args {
		p.expr(arg)
	}

	callee := expr.Callee
	fn, ok := p.scope.Lookup(callee.Name).(*Func)
	if !ok {
		p.error(callee.Pos(), callee.End(), fmt.Errorf("%w %s", ErrUndefinedFunction, callee.Name))
		return
	}
	p.use(callee, fn)

	if len(expr.Args) != fn.Arity() {
		p.error(expr.Pos(), expr.End(),
			fmt.Errorf("%w in call to %s: have %d, want %d",
				ErrArgumentCount, callee.Name, len(expr.Args), fn.Arity()))
	}
}

func (p *pass) use(id *ast.Identifier, sym Symbol) {
	if p.info != nil && p.info.Uses != nil {
		p.info.Uses[id] = sym
	}
}

func (p *pass) error(pos, end token.Pos, err error) {
	p.errs = append(p.errs, NewError(pos, end, err))
}
