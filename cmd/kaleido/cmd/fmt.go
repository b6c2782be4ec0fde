package cmd

import (
	"github.com/spf13/cobra"

	"codeberg.org/rileyq/kaleido/internal/compile/ast/printer"
)

func newFmtCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reprint a program in canonical form",
		Long: `fmt parses a program and prints it back with one declaration per line.
Nested binary operands are parenthesized and comments are dropped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.loadChecked(cmd, args)
			if err != nil {
				return err
			}
			return printer.Fprint(cmd.OutOrStdout(), module)
		},
	}
}
