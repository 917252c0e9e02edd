package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicer/invoicer/internal/adapters/outbound/tui"
	"github.com/invoicer/invoicer/internal/application"
)

func newPDFCmd(opts *rootOptions) *cobra.Command {
	var (
		kind       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Convert generated HTML invoices to PDF",
		Long:  "Print every HTML invoice under the output directory to a PDF next to it, using headless Chrome.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := kindsFlag(kind)
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

			convs, err := a.PDF().ConvertKinds(cmd.Context(), kinds)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, convs); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderConversions(convs))
			}

			if application.ConversionsFailed(convs) {
				return errors.New("pdf conversion failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only convert one kind (fiat, token)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output conversion results as JSON")

	return cmd
}
