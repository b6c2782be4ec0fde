package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

// Fprint writes node as source text. Nested binary operands are
// parenthesized, so parsing the output yields the same tree.
func Fprint(w io.Writer, node ast.Node) error {
	return fprint(w, node)
}

func String(node ast.Node) string {
	var b strings.Builder
	if err := Fprint(&b, node); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return b.String()
}

func fprint(w io.Writer, node ast.Node) error {
	var err error
	switch node := node.(type) {
	case *ast.Module:
		for _, decl := range node.Decls {
			err = fprint(w, decl)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, "\n")
			if err != nil {
				return err
			}
		}
		return nil
	case *ast.Function:
		if !node.Anonymous() {
			_, err = io.WriteString(w, "def ")
			if err != nil {
				return err
			}
			err = fprint(w, node.Proto)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, " ")
			if err != nil {
				return err
			}
		}
		err = fprint(w, node.Body)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, ";")
		return err
	case *ast.Extern:
		_, err = io.WriteString(w, "extern ")
		if err != nil {
			return err
		}
		err = fprint(w, node.Proto)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, ";")
		return err
	case *ast.Prototype:
		err = fprint(w, node.Name)
		if err != nil {
			return err
		}
		return listWithDelim(w, node.Params, "(", ")", " ")
	case *ast.BinaryExpr:
		err = operand(w, node.Left)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, " "+string(node.Op)+" ")
		if err != nil {
			return err
		}
		return operand(w, node.Right)
	case *ast.CallExpr:
		err = fprint(w, node.Callee)
		if err != nil {
			return err
		}
		return list(w, node.Args)
	case *ast.Identifier:
		_, err = io.WriteString(w, node.Name)
		return err
	case *ast.Number:
		_, err = io.WriteString(w, formatNumber(node.Value))
		return err
	default:
		return fmt.Errorf("printer: Fprint unimplemented for %T", node)
	}
}

func operand(w io.Writer, x ast.Expr) error {
	if _, ok := x.(*ast.BinaryExpr); !ok {
		return fprint(w, x)
	}
	_, err := io.WriteString(w, "(")
	if err != nil {
		return err
	}
	err = fprint(w, x)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ")")
	return err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func list[T ast.Node](w io.Writer, exprs []T) error {
	return listWithDelim(w, exprs, "(", ")", ", ")
}

func listWithDelim[T ast.Node](w io.Writer, exprs []T, open, close, sep string) error {
	_, err := io.WriteString(w, open)
	if err != nil {
		return err
	}
	for i, expr := range exprs {
		err = fprint(w, expr)
		if err != nil {
			return err
		}
		if i < len(exprs)-1 {
			_, err = io.WriteString(w, sep)
			if err != nil {
				return err
			}
		}
	}
	_, err = io.WriteString(w, close)
	if err != nil {
		return err
	}
	return nil
}

// Tree writes an indented debug rendering of node, one node per line.
func Tree(w io.Writer, node ast.Node) error {
	return tree(w, node, 0)
}

func tree(w io.Writer, node ast.Node, depth int) error {
	const pad = "  "

	_, err := io.WriteString(w, strings.Repeat(pad, depth))
	if err != nil {
		return err
	}

	switch node := node.(type) {
	case *ast.Module:
		_, err = fmt.Fprintf(w, "Module %q\n", node.Name)
		if err != nil {
			return err
		}
		for _, decl := range node.Decls {
			err = tree(w, decl, depth+1)
			if err != nil {
				return err
			}
		}
		return nil
	case *ast.Function:
		_, err = fmt.Fprintf(w, "Function %s\n", String(node.Proto))
		if err != nil {
			return err
		}
		return tree(w, node.Body, depth+1)
	case *ast.Extern:
		_, err = fmt.Fprintf(w, "Extern %s\n", String(node.Proto))
		return err
	case *ast.BinaryExpr:
		_, err = fmt.Fprintf(w, "Binary %q\n", node.Op)
		if err != nil {
			return err
		}
		err = tree(w, node.Left, depth+1)
		if err != nil {
			return err
		}
		return tree(w, node.Right, depth+1)
	case *ast.CallExpr:
		_, err = fmt.Fprintf(w, "Call %s\n", node.Callee.Name)
		if err != nil {
			return err
		}
		for _, arg := range node.Args {
			err = tree(w, arg, depth+1)
			if err != nil {
				return err
			}
		}
		return nil
	case *ast.Identifier:
		_, err = fmt.Fprintf(w, "Variable %s\n", node.Name)
		return err
	case *ast.Number:
		_, err = fmt.Fprintf(w, "Number %s\n", formatNumber(node.Value))
		return err
	default:
		return fmt.Errorf("printer: Tree unimplemented for %T", node)
	}
}

// Tokens writes the debug rendering of a token sequence on one line.
func Tokens(w io.Writer, toks []*token.Token) error {
	for i, tok := range toks {
		if i > 0 {
			_, err := io.WriteString(w, " ")
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, tok.String())
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
