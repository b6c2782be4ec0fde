package semantics

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

type Scope struct {
	pos, end token.Pos
	comment  string

	parent   *Scope
	children []*Scope
	symbols  map[string]Symbol
}

func NewScope(parent *Scope, pos, end token.Pos, comment string) *Scope {
	s := &Scope{
		pos:      pos,
		end:      end,
		comment:  comment,
		parent:   parent,
		children: []*Scope{},
		symbols:  map[string]Symbol{},
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Insert adds symbol to s. If a symbol of the same name is already
// declared in s it is returned and s is left unchanged.
func (s *Scope) Insert(symbol Symbol) Symbol {
	name := symbol.Name()
	sym, found := s.symbols[name]
	if found {
		return sym
	}
	s.symbols[name] = symbol
	symbol.setScope(s)
	return nil
}

func (s *Scope) Lookup(name string) Symbol {
	sym, found := s.symbols[name]
	if found {
		return sym
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil
}

func (s *Scope) Parent() *Scope { return s.parent }

func (s *Scope) Children() []*Scope { return s.children }

func (s *Scope) Symbols() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, key := range slices.Sorted(maps.Keys(s.symbols)) {
			if !yield(s.symbols[key]) {
				return
			}
		}
	}
}

func (s *Scope) WriteTo(w io.Writer) (int64, error) {
	return s.writeTo(w, 0)
}

func (s *Scope) writeTo(w io.Writer, depth int) (int64, error) {
	const pad = "  "
	outerPad := strings.Repeat(pad, depth)
	innerPad := strings.Repeat(pad, depth+1)
	var total int64
	n, err := io.WriteString(w, outerPad)
	total += int64(n)
	if err != nil {
		return total, err
	}
	n, err = io.WriteString(w, s.comment)
	total += int64(n)
	if err != nil {
		return total, err
	}
	n, err = io.WriteString(w, " {\n")
	total += int64(n)
	if err != nil {
		return total, err
	}
	for sym := range s.Symbols() {
		n, err = io.WriteString(w, innerPad)
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = fmt.Fprintln(w, sym)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for _, child := range s.children {
		n, err := child.writeTo(w, depth+1)
		total += n
		if err != nil {
			return total, err
		}
		n2, err := io.WriteString(w, "\n")
		total += int64(n2)
		if err != nil {
			return total, err
		}
	}
	n, err = io.WriteString(w, outerPad)
	total += int64(n)
	if err != nil {
		return total, err
	}
	n, err = io.WriteString(w, "}")
	total += int64(n)
	if err != nil {
		return total, err
	}
	return total, nil
}

func (s *Scope) String() string {
	var b strings.Builder
	s.WriteTo(&b)
	return b.String()
}

type Symbol interface {
	Name() string
	Decl() ast.Node
	Scope() *Scope

	setScope(scope *Scope)
}

// Func is a function declared by def or extern.
type Func struct {
	scope   *Scope
	decl    ast.Decl
	defined bool
}

func (sym *Func) Name() string      { return sym.decl.Prototype().Name.Name }
func (sym *Func) Decl() ast.Node    { return sym.decl }
func (sym *Func) Scope() *Scope     { return sym.scope }
func (sym *Func) Arity() int        { return len(sym.decl.Prototype().Params) }
func (sym *Func) Defined() bool     { return sym.defined }
func (sym *Func) setScope(s *Scope) { sym.scope = s }

func (sym *Func) String() string {
	kind := "extern"
	if sym.defined {
		kind = "func"
	}
	return fmt.Sprintf("%s %s/%d", kind, sym.Name(), sym.Arity())
}

// Param is a function parameter.
type Param struct {
	scope *Scope
	ident *ast.Identifier
	index int
}

func (sym *Param) Name() string      { return sym.ident.Name }
func (sym *Param) Decl() ast.Node    { return sym.ident }
func (sym *Param) Scope() *Scope     { return sym.scope }
func (sym *Param) Index() int        { return sym.index }
func (sym *Param) setScope(s *Scope) { sym.scope = s }

func (sym *Param) String() string {
	return fmt.Sprintf("param %s#%d", sym.Name(), sym.index)
}
