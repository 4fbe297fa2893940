// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/golangee/malina/compiler"
	"github.com/golangee/malina/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdin and stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.New(compiler.Version, compiler.Options{MaxDepth: depth})
			return server.RunStdio()
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum alias expansion depth")

	return cmd
}
