package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/ast/printer"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	posLabel   = color.New(color.Bold)
)

// positioned is implemented by scan, parse and semantic errors.
type positioned interface {
	error
	Pos() token.Pos
}

// report writes one diagnostic line per error in err and returns
// errReported.
func (a *app) report(cmd *cobra.Command, src *source, err error) error {
	w := cmd.ErrOrStderr()
	for _, err := range flatten(err) {
		a.logger.Debug("diagnostic", "file", src.name, "error", err)

		var perr positioned
		if errors.As(err, &perr) && perr.Pos().IsValid() {
			posLabel.Fprintf(w, "%s: ", src.file.Position(perr.Pos()))
		} else {
			posLabel.Fprintf(w, "%s: ", src.name)
		}
		errorLabel.Fprint(w, "error: ")
		fmt.Fprintln(w, err)
	}
	return errReported
}

// flatten splits errors built with errors.Join.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func printTokens(w io.Writer, toks []*token.Token) error {
	return printer.Tokens(w, toks)
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func render(w io.Writer, module *ast.Module, format string) error {
	switch format {
	case "source":
		return printer.Fprint(w, module)
	case "spew":
		spewConfig.Fdump(w, module)
		return nil
	case "tree":
		return printer.Tree(w, module)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
