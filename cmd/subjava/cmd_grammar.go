package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/subjava/java/parser"
)

func newGrammarCmd(opts *options) *cobra.Command {
	var printGrammar bool
	var listProductions bool

	cmd := &cobra.Command{
		Use:   "grammar [file]...",
		Short: "Verify the EBNF grammar of the accepted subset",
		Long: `Verify that the embedded grammar is complete and consistent.

With file arguments, also run every file through an Earley recognizer for the
grammar and compare its verdict with the validator's. The command fails if
they disagree on any file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parser.VerifyGrammar(); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errRejected
			}

			out := cmd.OutOrStdout()
			switch {
			case len(args) > 0:
				return conformance(out, args, opts)
			case printGrammar:
				fmt.Fprint(out, parser.GrammarSource())
			case listProductions:
				g, err := parser.Grammar()
				if err != nil {
					return err
				}
				names := make([]string, 0, len(g))
				for name := range g {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
			default:
				fmt.Fprintf(out, "grammar ok (start %s)\n", parser.GrammarStart)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printGrammar, "print", false, "print the grammar source")
	cmd.Flags().BoolVar(&listProductions, "productions", false, "list production names")

	return cmd
}

// conformance reports, per file, whether the grammar derives it, and fails
// when the validator reaches a different verdict.
func conformance(w io.Writer, paths []string, opts *options) error {
	r, err := parser.NewRecognizer()
	if err != nil {
		return err
	}
	dict := opts.dictionary()

	var disagree []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		tokens := parser.NewLexer(opts.parserOptions(path, dict)...).Tokenize(string(data))
		derr := r.Recognize(tokens)
		validated := len(parser.NewValidator().Validate(parser.Significant(tokens))) == 0

		switch {
		case derr == nil && validated:
			fmt.Fprintf(w, "%s: derived\n", path)
		case derr != nil && !validated:
			fmt.Fprintf(w, "%s: %s\n", path, derr)
		default:
			fmt.Fprintf(w, "%s: grammar and validator disagree (grammar derives: %t, validator accepts: %t)\n", path, derr == nil, validated)
			disagree = append(disagree, path)
		}
	}

	if len(disagree) > 0 {
		return fmt.Errorf("grammar and validator disagree on %d file(s)", len(disagree))
	}
	return nil
}

// printErrors prints one line per error when err wraps an ebnf error list.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
