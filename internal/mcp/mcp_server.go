// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Forecast MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Forecast Simulation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_scenario ---
	s.AddTool(mcp.NewTool("run_scenario",
		mcp.WithDescription("Simulate the items of a scenario over a time window and return their trajectories."),
		mcp.WithString("scenario_path", mcp.Description("Path to a scenario YAML file.")),
		mcp.WithString("scenario_yaml", mcp.Description("Inline scenario YAML. Takes precedence over scenario_path.")),
		mcp.WithString("start", mcp.Description("Start of the window (yyyy-mm-dd or RFC3339). Defaults to the scenario start.")),
		mcp.WithString("end", mcp.Description("End of the window, inclusive. Defaults to the scenario end.")),
		mcp.WithString("item", mcp.Description("Only simulate this item.")),
	), h.handleRunScenario)

	// --- 2. Tool: time_to_target ---
	s.AddTool(mcp.NewTool("time_to_target",
		mcp.WithDescription("Find how long an item takes to reach a target value, counted from 2025-01-01."),
		mcp.WithNumber("target", mcp.Description("The value to reach."), mcp.Required()),
		mcp.WithString("scenario_path", mcp.Description("Path to a scenario YAML file.")),
		mcp.WithString("scenario_yaml", mcp.Description("Inline scenario YAML. Takes precedence over scenario_path.")),
		mcp.WithString("item", mcp.Description("Item to search. Defaults to the first item of the scenario.")),
		mcp.WithString("max_horizon", mcp.Description("Longest interval to search (e.g., '10y', '36m'). Defaults to '100y'.")),
	), h.handleTimeToTarget)

	// --- 3. Tool: generate_schedule ---
	s.AddTool(mcp.NewTool("generate_schedule",
		mcp.WithDescription("Materialize the instants of one or more schedule specs within a window."),
		mcp.WithString("spec", mcp.Description("Comma-separated specs: intervals ('2d'), 'monthly', cron ('0 0 2 * *'), dates, or intervals joined by '|' to alternate."), mcp.Required()),
		mcp.WithString("start", mcp.Description("Start of the window."), mcp.Required()),
		mcp.WithString("end", mcp.Description("End of the window, inclusive."), mcp.Required()),
		mcp.WithBoolean("include_start", mcp.Description("Emit the start instant itself when it matches.")),
	), h.handleGenerateSchedule)

	return s
}

// StartMCPServer starts the Forecast MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
