// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/golangee/malina/parser"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the EBNF of the module grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), parser.Grammar())
			return err
		},
	}
}
