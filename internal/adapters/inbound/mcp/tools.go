package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/app"
	"github.com/invoicer/invoicer/internal/application"
	"github.com/invoicer/invoicer/internal/domain"
)

// registerTools registers all invoicer MCP tools on the given server.
func registerTools(s *server.MCPServer, configPath string, logger *zap.Logger) {
	// 1. invoicer_plan
	s.AddTool(
		mcplib.NewTool("invoicer_plan",
			mcplib.WithDescription("Lists the billing periods of an invoice series with their sequence numbers and issue dates"),
			mcplib.WithString("kind",
				mcplib.Required(),
				mcplib.Description("Invoice series: fiat or token"),
			),
			mcplib.WithString("until",
				mcplib.Description("Last month to plan as YYYY-MM (defaults to the current month)"),
			),
		),
		handlePlan(configPath, logger),
	)

	// 2. invoicer_resolve_rate
	s.AddTool(
		mcplib.NewTool("invoicer_resolve_rate",
			mcplib.WithDescription("Resolves an exchange rate on a date, falling back up to two days earlier"),
			mcplib.WithString("pair",
				mcplib.Required(),
				mcplib.Description("Currency pair such as USD/EUR or EUR/NTX"),
			),
			mcplib.WithString("date",
				mcplib.Required(),
				mcplib.Description("Date as YYYY-MM-DD"),
			),
		),
		handleResolveRate(configPath, logger),
	)

	// 3. invoicer_generate
	s.AddTool(
		mcplib.NewTool("invoicer_generate",
			mcplib.WithDescription("Generates every due invoice and returns the run report"),
			mcplib.WithBoolean("recreate",
				mcplib.Description("Regenerate invoices whose file already exists"),
			),
			mcplib.WithString("month",
				mcplib.Description("Generate a single month (YYYY-MM)"),
			),
		),
		handleGenerate(configPath, logger),
	)
}

func handlePlan(configPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		kindArg, err := request.RequireString("kind")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		kind, err := domain.ParseKind(kindArg)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		var until domain.Month
		if s, _ := request.GetArguments()["until"].(string); s != "" {
			if until, err = domain.ParseMonth(s); err != nil {
				return errorResult(err.Error()), nil
			}
		}

		a, err := app.Load(configPath, logger)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		defer a.Close()

		periods, err := a.Planner.Plan(kind, until)
		if err != nil {
			return errorResult(fmt.Sprintf("planning failed: %v", err)), nil
		}
		if periods == nil {
			periods = []domain.BillingPeriod{}
		}
		return jsonResult(periods)
	}
}

func handleResolveRate(configPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		pairArg, err := request.RequireString("pair")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		dateArg, err := request.RequireString("date")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		pair, err := domain.ParsePair(pairArg)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		date, err := domain.ParseDate(dateArg)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		a, err := app.Load(configPath, logger)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		defer a.Close()

		rate, err := a.Resolver.Resolve(ctx, pair, date)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(rate)
	}
}

func handleGenerate(configPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		opts := application.GenerateOptions{}
		opts.Recreate, _ = args["recreate"].(bool)

		if s, _ := args["month"].(string); s != "" {
			month, err := domain.ParseMonth(s)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			opts.Month = month
		}

		a, err := app.Load(configPath, logger)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		defer a.Close()

		report, err := a.Generator.Run(ctx, opts)
		if err != nil {
			res := errorResult(fmt.Sprintf("generation failed: %v", err))
			if report != nil && len(report.Outcomes) > 0 {
				if partial, jerr := jsonResult(report); jerr == nil {
					res.Content = append(res.Content, partial.Content...)
				}
			}
			return res, nil
		}
		return jsonResult(report)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
