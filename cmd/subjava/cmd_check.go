package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/subjava/format"
	"github.com/dhamidi/subjava/java/codebase"
	"github.com/dhamidi/subjava/java/dictionary"
	"github.com/dhamidi/subjava/java/parser"
)

func newCheckCmd(opts *options) *cobra.Command {
	var outputFormat string
	var jobs int

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Tokenize and validate source files",
		Long: `Check every given file, and every .java file below every given
directory. Only lexical errors and syntax diagnostics are printed.

The exit status is 1 if any file is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "line" && outputFormat != "json" {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			paths, err := expandSources(args)
			if err != nil {
				return err
			}

			reports, err := checkFiles(cmd.Context(), paths, opts, jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				if err := format.NewJSONEncoder(out).EncodeAll(reports); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			default:
				enc := format.NewLineEncoder(out)
				for _, r := range reports {
					if err := enc.Encode(r); err != nil {
						return fmt.Errorf("encode: %w", err)
					}
				}
			}

			for _, r := range reports {
				if !r.Accepted() {
					return errRejected
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files analyzed concurrently")

	return cmd
}

// checkFiles analyzes paths concurrently and returns their findings in the
// order of paths.
func checkFiles(ctx context.Context, paths []string, opts *options, jobs int) ([]*format.Report, error) {
	dict := opts.dictionary()
	reports := make([]*format.Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := checkFile(path, opts, dict)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func checkFile(path string, opts *options, dict *dictionary.Dictionary) (*format.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	result := parser.Analyze(string(data), opts.parserOptions(path, dict)...)
	return format.NewReport(path, result).Findings(), nil
}

// expandSources replaces every directory in args with the source files
// below it. Hidden directories are skipped.
func expandSources(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if codebase.IsSource(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return paths, nil
}
