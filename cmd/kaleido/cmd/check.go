package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/semantics"
	"codeberg.org/rileyq/kaleido/internal/logs"
)

func newCheckCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Resolve names and call arities",
		Long: `check parses a program and reports undefined names, duplicate
parameters, conflicting redefinitions and calls with the wrong number
of arguments. Every problem found is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, module, err := a.load(cmd, args)
			if err != nil {
				return err
			}

			checked, err := a.check(cmd.Context(), src, module)
			if err != nil {
				return a.report(cmd, src, err)
			}

			out := cmd.OutOrStdout()
			if verbose {
				_, err := checked.Scope().WriteTo(out)
				return err
			}
			fmt.Fprintf(out, "ok: %d declarations\n", len(module.Decls))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the resolved scope tree")

	return cmd
}

func (a *app) check(ctx context.Context, src *source, module *ast.Module) (*semantics.Module, error) {
	start := time.Now()
	checked, err := semantics.Check(&semantics.CheckConfig{Module: module})
	logs.Stage(ctx, a.logger, "check", start,
		slog.String("file", src.name), slog.Bool("ok", err == nil))
	return checked, err
}
