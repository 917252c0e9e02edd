package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewInvoicerMCPServer creates a new MCP server with all invoicer tools and
// resources registered. The config is re-read on every call so edits to the
// file apply without restarting the server.
func NewInvoicerMCPServer(configPath string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"invoicer",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, configPath, logger)
	registerResources(s, configPath, logger)

	return s
}
