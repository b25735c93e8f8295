package cmd

import (
	"github.com/huangsam/depshield/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DepShield MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents vet npm packages.

Tools:
  analyze_package      - score a single package
  scan_packages        - scan a package.json, npm package or GitHub repository
  suggest_alternatives - look up curated replacements`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, version)
	},
}
