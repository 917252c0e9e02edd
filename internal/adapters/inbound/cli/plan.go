package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicer/invoicer/internal/adapters/outbound/tui"
	"github.com/invoicer/invoicer/internal/domain"
)

type kindPlan struct {
	Kind    domain.Kind            `json:"kind"`
	Periods []domain.BillingPeriod `json:"periods"`
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var (
		kind       string
		until      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List billing periods and their invoice numbers",
		Long:  "Print each invoice series month by month with its sequence number, period and issue date. Nothing is fetched or written.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := kindsFlag(kind)
			if err != nil {
				return err
			}
			untilMonth, err := monthFlag("until", until)
			if err != nil {
				return err
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if kinds == nil {
				kinds = a.Config.EnabledKinds()
			}

			plans := make([]kindPlan, 0, len(kinds))
			for _, k := range kinds {
				periods, err := a.Planner.Plan(k, untilMonth)
				if err != nil {
					return fmt.Errorf("planning %s invoices: %w", k, err)
				}
				plans = append(plans, kindPlan{Kind: k, Periods: periods})
			}

			if jsonOutput {
				return writeJSON(cmd, plans)
			}
			for _, p := range plans {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderPlan(p.Kind, p.Periods))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only plan one kind (fiat, token)")
	cmd.Flags().StringVar(&until, "until", "", "Last month to plan (YYYY-MM, defaults to the current month)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output periods as JSON")

	return cmd
}
