package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dhamidi/subjava/format"
	"github.com/dhamidi/subjava/java/codebase"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Check a file or directory again whenever it or the dictionary changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(target)
			if err != nil {
				return fmt.Errorf("stat: %w", err)
			}

			root := target
			if !info.IsDir() {
				root = filepath.Dir(target)
			}
			cb := codebase.New(root, opts.codebaseOptions()...)
			if info.IsDir() {
				err = cb.ScanAll()
			} else {
				err = cb.ScanFile(target)
			}
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			watching := func(path string) bool {
				return info.IsDir() || path == target
			}
			p := &statusPrinter{w: cmd.OutOrStdout()}
			for _, f := range cb.Files() {
				p.print(f)
			}

			w, err := codebase.NewFileWatcher(cb)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			w.OnChange = func(f *codebase.FileInfo) {
				if watching(f.Path) {
					p.print(f)
				}
			}
			w.OnRemove = func(path string) {
				if watching(path) {
					p.removed(path)
				}
			}
			if err := w.Start(); err != nil {
				w.Stop()
				return fmt.Errorf("watch: %w", err)
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
}

// statusPrinter serializes the output of watcher callbacks.
type statusPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *statusPrinter) print(f *codebase.FileInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := format.NewReport(f.Path, f.Result).Findings()
	if report.Accepted() {
		fmt.Fprintf(p.w, "%s: ok\n", f.Path)
		return
	}
	if err := format.NewLineEncoder(p.w).Encode(report); err != nil {
		log.Errorf("encode %s: %s", f.Path, err)
	}
}

func (p *statusPrinter) removed(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: removed\n", path)
}
