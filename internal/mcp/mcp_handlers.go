package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/forecast/core"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Item = request.GetString("item", "")

	if err := contract.RevalidateScenario(cfg, request.GetString("scenario_path", ""), request.GetString("scenario_yaml", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scenario: %v", err)), nil
	}
	if err := contract.RevalidateTimeRange(cfg, request.GetString("start", ""), request.GetString("end", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid time range: %v", err)), nil
	}

	out, err := core.GetRunResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(out.Document(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTimeToTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Item = request.GetString("item", "")

	target, err := request.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid target: %v", err)), nil
	}
	if err := contract.RevalidateScenario(cfg, request.GetString("scenario_path", ""), request.GetString("scenario_yaml", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scenario: %v", err)), nil
	}
	if err := contract.RevalidateUntil(cfg, target, request.GetString("max_horizon", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid horizon: %v", err)), nil
	}

	out, err := core.GetUntilResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("target search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGenerateSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	if err := contract.RevalidateSchedule(cfg, request.GetString("spec", ""), request.GetBool("include_start", false)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid schedule parameters: %v", err)), nil
	}
	if err := contract.RevalidateTimeRange(cfg, request.GetString("start", ""), request.GetString("end", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid time range: %v", err)), nil
	}

	out, err := core.GetScheduleResults(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule generation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
