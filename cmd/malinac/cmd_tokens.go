// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/golangee/malina/token"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return dumpTokens(cmd.OutOrStdout(), args[0], src)
		},
	}
}

// dumpTokens writes one token per line. Lexical errors are listed afterwards.
func dumpTokens(w io.Writer, filename string, src []byte) error {
	tokens, errs := token.Tokenize(filename, src)

	for _, t := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\n", t.Begin().Line, t.Begin().Col, t)
	}

	for _, err := range errs {
		fmt.Fprintln(w, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d lexical errors", len(errs))
	}

	return nil
}
