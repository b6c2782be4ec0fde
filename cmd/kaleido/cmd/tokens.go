package cmd

import (
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			toks, err := a.tokenize(cmd.Context(), src)
			if err != nil {
				return a.report(cmd, src, err)
			}
			return printTokens(cmd.OutOrStdout(), toks)
		},
	}
}
