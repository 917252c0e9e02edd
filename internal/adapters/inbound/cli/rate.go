package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invoicer/invoicer/internal/adapters/outbound/tui"
	"github.com/invoicer/invoicer/internal/domain"
)

func newRateCmd(opts *rootOptions) *cobra.Command {
	var (
		date       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rate PAIR",
		Short: "Resolve one exchange rate",
		Long: "Resolve the rate for a pair such as USD/EUR or EUR/NTX on a date, falling back to the " +
			"most recent published rate up to two days earlier.",
		Example: "  invoicer rate USD/EUR --date 2024-03-20",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := domain.ParsePair(args[0])
			if err != nil {
				return err
			}
			day := domain.Day(time.Now().UTC())
			if date != "" {
				if day, err = domain.ParseDate(date); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rate, err := a.Resolver.Resolve(cmd.Context(), pair, day)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, rate)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRate(rate))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the rate (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the rate as JSON")

	return cmd
}
