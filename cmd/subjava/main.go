package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/subjava/format"
	"github.com/dhamidi/subjava/java/codebase"
	"github.com/dhamidi/subjava/java/dictionary"
	"github.com/dhamidi/subjava/java/parser"
)

const version = "0.1.0"

var log = commonlog.GetLogger("subjava")

// errRejected is returned once findings have been printed for input that
// failed analysis.
var errRejected = errors.New("input rejected")

type options struct {
	dictionaryPath string
	logFile        string
	verbose        int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "subjava",
		Short:         "Tokenize and validate a restricted subset of Java",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logFile != "" {
				commonlog.Configure(opts.verbose, &opts.logFile)
			} else {
				commonlog.Configure(opts.verbose, nil)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dictionaryPath, "dictionary", "", "lexeme dictionary overriding pattern names and IDs")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))
	rootCmd.AddCommand(newGrammarCmd(opts))

	return rootCmd
}

// dictionary loads the configured dictionary, or returns nil when none is
// configured so the built-in names apply.
func (o *options) dictionary() *dictionary.Dictionary {
	if o.dictionaryPath == "" {
		return nil
	}
	return dictionary.Load(o.dictionaryPath)
}

func (o *options) parserOptions(file string, dict *dictionary.Dictionary) []parser.Option {
	opts := []parser.Option{parser.WithFile(file)}
	if dict != nil {
		opts = append(opts, parser.WithDictionary(dict))
	}
	return opts
}

func (o *options) codebaseOptions() []codebase.Option {
	if o.dictionaryPath == "" {
		return nil
	}
	path := o.dictionaryPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return []codebase.Option{codebase.WithDictionary(path)}
}

// newEncoder picks the encoder for name. An empty name means table output
// on terminals and line output otherwise.
func newEncoder(w io.Writer, name string) (format.Encoder, error) {
	switch name {
	case "":
		if isTerminal(w) {
			return format.NewTableEncoder(w), nil
		}
		return format.NewLineEncoder(w), nil
	case "line":
		return format.NewLineEncoder(w), nil
	case "json":
		return format.NewJSONEncoder(w), nil
	case "table":
		return format.NewTableEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
