// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the DepShield MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"DepShield Supply Chain Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_package ---
	s.AddTool(mcp.NewTool("analyze_package",
		mcp.WithDescription("Score the supply-chain health of a single npm package (maintainers, takeover risk, slopsquatting, license changes)."),
		mcp.WithString("name", mcp.Description("npm package name, e.g. 'express' or '@types/node'."), mcp.Required()),
	), h.handleAnalyzePackage)

	// --- 2. Tool: scan_packages ---
	s.AddTool(mcp.NewTool("scan_packages",
		mcp.WithDescription("Scan every dependency of a package.json, an npm package or a GitHub repository."),
		mcp.WithString("target", mcp.Description("Path to package.json, npm package name, or GitHub owner/repo. Defaults to ./package.json.")),
		mcp.WithBoolean("include_dev", mcp.Description("Also scan devDependencies.")),
		mcp.WithNumber("limit", mcp.Description("Return only the N weakest dependencies.")),
	), h.handleScanPackages)

	// --- 3. Tool: suggest_alternatives ---
	s.AddTool(mcp.NewTool("suggest_alternatives",
		mcp.WithDescription("List curated replacements for an npm package, or the whole table when no name is given."),
		mcp.WithString("name", mcp.Description("npm package name to look up.")),
	), h.handleSuggestAlternatives)

	return s
}

// StartMCPServer starts the DepShield MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
