package cli

import (
	"github.com/robotomize/gorates"
	"github.com/spf13/cobra"
)

func (a *app) ratesCmd() *cobra.Command {
	var (
		marker string
		codes  string
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the buy and sell rates of a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			list := splitCodes(codes)
			branch, err := snapshot.Branch(marker, list...)
			if err != nil {
				return err
			}

			printRates(cmd.OutOrStdout(), snapshot, branch, list)

			return nil
		},
	}

	cmd.Flags().StringVar(&marker, "branch", gorates.MoscowMarker, "substring of the branch name")
	cmd.Flags().StringVar(&codes, "codes", "USD,EUR", "comma separated currency codes")

	return cmd
}
