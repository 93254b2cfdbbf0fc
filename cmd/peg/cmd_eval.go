package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/peg/calc"
	"github.com/dhamidi/peg/parse"
)

func newEvalCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate arithmetic expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parse.Option
			if debug {
				opts = append(opts, parse.WithDebug(true))
			}
			p, err := calc.New(opts...)
			if err != nil {
				return err
			}
			for _, input := range args {
				result, err := p.Parse(input)
				if err != nil {
					return err
				}
				if result.IsFailure() {
					return fmt.Errorf("evaluate %q: %w", input, result.Err())
				}
				value, err := result.Tree().Eval("value")
				if err != nil {
					return fmt.Errorf("evaluate %q: %w", input, err)
				}
				fmt.Printf("%s = %v\n", input, value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "trace matcher decisions")

	return cmd
}
