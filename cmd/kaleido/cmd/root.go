package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/parser"
	"codeberg.org/rileyq/kaleido/internal/compile/scanner"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
	"codeberg.org/rileyq/kaleido/internal/config"
	"codeberg.org/rileyq/kaleido/internal/logs"
)

// Execute runs the command line against os.Args.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(root.ErrOrStderr(), "kaleido: %v\n", err)
	}
	return err
}

// errReported marks an error whose diagnostics were already written.
var errReported = errors.New("errors reported")

type app struct {
	cfgFile  string
	logLevel string
	color    string

	cfg      *config.Config
	logger   logs.Logger
	closeLog func() error
}

// NewRootCmd builds the kaleido command tree. Each call returns fresh state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kaleido [file]",
		Short: "Tokenize and parse Kaleidoscope source",
		Long: `kaleido reads a Kaleidoscope program from a file or standard input,
prints its tokens and, if it parses, its syntax tree.

Source bytes are read as Latin-1: every byte is one character.`,
		Args:               cobra.MaximumNArgs(1),
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDefault(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./kaleido.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.color, "color", "", "override color mode (auto, always, never)")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.color != "" {
		a.cfg.Output.Color = a.color
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	switch a.cfg.Output.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	a.logger, a.closeLog, err = logs.New(cmd.ErrOrStderr(), a.cfg.Log)
	if err != nil {
		return err
	}
	a.logger.Debug("configured", "command", cmd.Name(), "output", a.cfg.Output.Format)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

// source is one input read to completion.
type source struct {
	name string
	text []rune
	file *token.File
}

func readSource(cmd *cobra.Command, args []string) (*source, error) {
	name := "<stdin>"
	var rd io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer f.Close()
		rd = f
	}

	text, err := scanner.ReadSource(rd)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return &source{name: name, text: text, file: token.NewFile(name, text)}, nil
}

func (a *app) tokenize(ctx context.Context, src *source) ([]*token.Token, error) {
	start := time.Now()
	toks, err := scanner.Tokenize(src.text)
	if err != nil {
		return nil, err
	}
	logs.Stage(ctx, a.logger, "scan", start,
		slog.String("file", src.name), slog.Int("tokens", len(toks)))
	return toks, nil
}

func (a *app) parse(ctx context.Context, src *source, toks []*token.Token) (*ast.Module, error) {
	start := time.Now()
	module, err := parser.New(toks).Parse(src.name)
	if err != nil {
		return nil, err
	}
	logs.Stage(ctx, a.logger, "parse", start,
		slog.String("file", src.name), slog.Int("decls", len(module.Decls)))
	return module, nil
}

func (a *app) runDefault(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	toks, err := a.tokenize(cmd.Context(), src)
	if err != nil {
		return a.report(cmd, src, err)
	}

	out := cmd.OutOrStdout()
	if a.cfg.Output.Tokens {
		fmt.Fprint(out, "Tokens: ")
		if err := printTokens(out, toks); err != nil {
			return err
		}
	}

	module, err := a.parse(cmd.Context(), src, toks)
	if err != nil {
		return a.report(cmd, src, err)
	}

	fmt.Fprintln(out, "AST:")
	return render(out, module, a.cfg.Output.Format)
}
