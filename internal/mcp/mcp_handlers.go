package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleAnalyzePackage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	report, err := core.AnalyzePackage(ctx, h.baseCfg.Clone(), h.mgr, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleScanPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Target = request.GetString("target", "")
	cfg.IncludeDev = request.GetBool("include_dev", cfg.IncludeDev)
	cfg.MetricsFile = ""

	result, err := core.RunScan(core.WithSuppressProgress(ctx), cfg, h.mgr)
	if err != nil && !result.Partial {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	if l := request.GetInt("limit", 0); l > 0 {
		ranked := slices.Clone(result.Dependencies)
		result.Dependencies = algo.RankDependencies(ranked, l)
	}
	return jsonResult(result)
}

func (h *toolHandler) handleSuggestAlternatives(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := core.LoadAlternatives(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load alternatives: %v", err)), nil
	}

	name := request.GetString("name", "")
	if name == "" {
		return jsonResult(table)
	}
	alts := table.Lookup(name)
	if len(alts) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no curated alternatives for %q", name)), nil
	}
	return jsonResult(alts)
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
