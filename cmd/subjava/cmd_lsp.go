package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/subjava/java/codebase"
)

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Infof("starting language server %s", version)
			server := codebase.NewLSPServer(version, opts.codebaseOptions()...)
			return server.RunStdio()
		},
	}
}
