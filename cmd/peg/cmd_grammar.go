package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/peg/calc"
)

func newGrammarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the arithmetic grammar in PEG notation",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(calc.Grammar().String())
			return nil
		},
	}
}
