package cmd

import (
	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/spf13/cobra"
)

// packageCmd shows the detailed analysis of one npm package.
var packageCmd = &cobra.Command{
	Use:   "package <name>",
	Short: "Show the detailed risk analysis of a single npm package",
	Long: `Analyze one npm package and print every analyzer's score, signals and alerts,
together with curated alternatives when the package scores poorly.

Examples:
  # Inspect a package
  depshield package left-pad

  # Scoped packages work too
  depshield package @babel/core --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecutePackage(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot analyze package", err)
		}
	},
}
