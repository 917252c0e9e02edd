package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/invoicer/invoicer/internal/adapters/inbound/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the invoicer MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the invoicer MCP server (stdio)",
		Long:  "Start the invoicer MCP server using stdio transport. This lets AI assistants plan billing periods, look up rates and generate invoices.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			s := mcpadapter.NewInvoicerMCPServer(opts.configPath, logger)
			return server.ServeStdio(s)
		},
	}
}
