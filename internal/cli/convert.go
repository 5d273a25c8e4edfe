package cli

import (
	"fmt"
	"strings"

	"github.com/robotomize/gorates"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		marker string
		from   string
		to     string
		amount string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an amount between a foreign currency and roubles",
		Example: `  gorates convert --from USD --to RUB --amount 100
  gorates convert --from RUB --to EUR --amount 9010,50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return fmt.Errorf("amount %q is not a number", amount)
			}

			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			branch, err := snapshot.Branch(marker, quotedCodes(from, to)...)
			if err != nil {
				return err
			}

			resp, err := gorates.ConvertPair(branch, from, to, value)
			if err != nil {
				return err
			}

			printConversion(cmd.OutOrStdout(), resp)

			return nil
		},
	}

	cmd.Flags().StringVar(&marker, "branch", gorates.MoscowMarker, "substring of the branch name")
	cmd.Flags().StringVar(&from, "from", "", "currency code to convert from")
	cmd.Flags().StringVar(&to, "to", gorates.LocalCurrency, "currency code to convert to")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to convert")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// quotedCodes returns the foreign side of the pair, the code the branch has to quote
func quotedCodes(from, to string) []string {
	code := strings.ToUpper(strings.TrimSpace(from))
	if code == gorates.LocalCurrency {
		code = strings.ToUpper(strings.TrimSpace(to))
	}

	if code == "" || code == gorates.LocalCurrency {
		return nil
	}

	return []string{code}
}
