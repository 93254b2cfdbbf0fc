package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/peg/calc"
	"github.com/dhamidi/peg/parse"
)

func newTreeCmd() *cobra.Command {
	var debug bool
	var showStats bool

	cmd := &cobra.Command{
		Use:   "tree <expression>",
		Short: "Parse an arithmetic expression and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parse.Option
			if debug {
				opts = append(opts, parse.WithDebug(true))
			}
			p, err := calc.New(opts...)
			if err != nil {
				return err
			}
			result, err := p.Parse(args[0])
			if err != nil {
				return err
			}
			if showStats {
				stats := result.Stats()
				fmt.Printf("%d expressions evaluated, %d memo hits\n", stats.Expressions, stats.MemoHits)
			}
			if result.IsFailure() {
				return result.Err()
			}
			fmt.Print(result.Tree().String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "trace matcher decisions")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print matcher statistics")

	return cmd
}
