package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/subjava/format"
	"github.com/dhamidi/subjava/java/parser"
)

func newTokensCmd(opts *options) *cobra.Command {
	var outputFormat string
	var trivia bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token table of a source file",
		Long: `Tokenize a source file and print one row per token followed by the
lexical errors and the syntax diagnostic, if any.

If no file (or "-") is given, the source is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			enc, err := newEncoder(cmd.OutOrStdout(), outputFormat)
			if err != nil {
				return err
			}

			lexer := parser.NewLexer(opts.parserOptions(name, opts.dictionary())...)
			var tokens []parser.Token
			if trivia {
				tokens = lexer.Scan(source)
			} else {
				tokens = lexer.Tokenize(source)
			}
			result := &parser.Result{
				Tokens:      tokens,
				Diagnostics: parser.NewValidator().Validate(parser.Significant(tokens)),
			}

			if err := enc.Encode(format.NewReport(name, result)); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (line, json, table); defaults to table on a terminal")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comment tokens")

	return cmd
}

func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return args[0], string(data), nil
}
