package cli

import (
	"fmt"
	"strings"

	"github.com/robotomize/gorates/calc"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "calc [expression]",
		Short:   "Evaluate an arithmetic expression",
		Long:    `Evaluates + - * / // % ** and parentheses over real numbers. Anything else is rejected.`,
		Example: `  gorates calc "2+2*5"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := calc.Evaluate(strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), calc.Format(v))

			return nil
		},
	}
}
