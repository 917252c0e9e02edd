package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/app"
	"github.com/invoicer/invoicer/internal/domain"
)

const (
	configURI = "invoicer://config"
	plansURI  = "invoicer://plans/{kind}"
)

// registerResources registers all invoicer MCP resources on the given server.
func registerResources(s *server.MCPServer, configPath string, logger *zap.Logger) {
	// 1. invoicer://config - effective config after defaults
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Config",
			mcplib.WithResourceDescription("Effective invoicer configuration with defaults applied"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(configPath, logger),
	)

	// 2. invoicer://plans/{kind} - billing periods through the current month
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			plansURI,
			"Billing Plan",
			mcplib.WithTemplateDescription("Billing periods of one invoice series through the current month"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handlePlanResource(configPath, logger),
	)
}

func handleConfigResource(configPath string, logger *zap.Logger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		a, err := app.Load(configPath, logger)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		defer a.Close()

		return jsonContents(configURI, a.Config)
	}
}

func handlePlanResource(configPath string, logger *zap.Logger) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		uri := request.Params.URI
		name, ok := request.Params.Arguments["kind"].(string)
		if !ok || name == "" {
			name = kindFromURI(uri)
		}
		kind, err := domain.ParseKind(name)
		if err != nil {
			return nil, err
		}

		a, err := app.Load(configPath, logger)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		defer a.Close()

		periods, err := a.Planner.Plan(kind, domain.Month{})
		if err != nil {
			return nil, fmt.Errorf("planning %s invoices: %w", kind, err)
		}
		return jsonContents(uri, periods)
	}
}

// kindFromURI extracts the kind from "invoicer://plans/{kind}".
func kindFromURI(uri string) string {
	return strings.TrimPrefix(uri, strings.TrimSuffix(plansURI, "{kind}"))
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
