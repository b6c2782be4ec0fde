package cmd

import (
	"github.com/spf13/cobra"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/config"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a program and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			module, err := a.loadChecked(cmd, args)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), module, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree, source or spew (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(config.OutputFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// load reads, scans and parses the input, reporting diagnostics on failure.
func (a *app) load(cmd *cobra.Command, args []string) (*source, *ast.Module, error) {
	src, err := readSource(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	toks, err := a.tokenize(cmd.Context(), src)
	if err != nil {
		return nil, nil, a.report(cmd, src, err)
	}
	module, err := a.parse(cmd.Context(), src, toks)
	if err != nil {
		return nil, nil, a.report(cmd, src, err)
	}
	return src, module, nil
}

// loadChecked is load followed by the semantic check when check.enabled
// is set.
func (a *app) loadChecked(cmd *cobra.Command, args []string) (*ast.Module, error) {
	src, module, err := a.load(cmd, args)
	if err != nil {
		return nil, err
	}
	if a.cfg.Check.Enabled {
		if _, err := a.check(cmd.Context(), src, module); err != nil {
			return nil, a.report(cmd, src, err)
		}
	}
	return module, nil
}
