package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicer/invoicer/internal/adapters/outbound/tui"
	"github.com/invoicer/invoicer/internal/application"
	"github.com/invoicer/invoicer/internal/domain"
)

type generateResult struct {
	*domain.RunReport
	Conversions []domain.Conversion `json:"conversions,omitempty"`
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		recreate   bool
		withPDF    bool
		month      string
		until      string
		kind       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate every invoice that is due",
		Long: "Plan each enabled invoice series through the current month, price the invoices with the " +
			"exchange rates of their issue date and write one HTML file per month. Existing files are " +
			"kept unless --recreate is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genOpts := application.GenerateOptions{Recreate: recreate}
			var err error
			if genOpts.Month, err = monthFlag("month", month); err != nil {
				return err
			}
			if genOpts.Until, err = monthFlag("until", until); err != nil {
				return err
			}
			if genOpts.Kinds, err = kindsFlag(kind); err != nil {
				return err
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Generator.Run(cmd.Context(), genOpts)
			if err != nil {
				if report != nil && len(report.Outcomes) > 0 {
					_ = printGenerateResult(cmd, generateResult{RunReport: report}, a.Config.Token.Precision, jsonOutput)
				}
				return fmt.Errorf("generation failed: %w", err)
			}

			result := generateResult{RunReport: report}
			if withPDF {
				result.Conversions = a.PDF().Convert(cmd.Context(), report.Generated())
				application.AttachPDFs(report, result.Conversions)
			}
			if err := printGenerateResult(cmd, result, a.Config.Token.Precision, jsonOutput); err != nil {
				return err
			}

			if report.Failed() {
				return fmt.Errorf("%d invoice(s) failed", report.Count(domain.StatusFailed))
			}
			if application.ConversionsFailed(result.Conversions) {
				return errors.New("pdf conversion failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "Regenerate invoices whose file already exists")
	cmd.Flags().BoolVar(&withPDF, "pdf", false, "Also print the generated invoices to PDF")
	cmd.Flags().StringVar(&month, "month", "", "Generate a single month (YYYY-MM)")
	cmd.Flags().StringVar(&until, "until", "", "Last month to generate (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&kind, "kind", "", "Only generate one kind (fiat, token)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run report as JSON")

	return cmd
}

func printGenerateResult(cmd *cobra.Command, result generateResult, precision int, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd, result)
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(result.RunReport, precision))
	if application.ConversionsFailed(result.Conversions) {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderConversions(result.Conversions))
	}
	return nil
}
