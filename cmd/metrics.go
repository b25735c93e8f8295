package cmd

import (
	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the composite scoring model.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the composite health formula, weights and thresholds",
	Long: `Show how the composite health score is computed.

Includes:
- The four dimensions (maintainer, security, community, freshness) and their weights
- Custom weights if configured via .depshield.yaml
- The grade and risk level thresholds

No packages are fetched - this is purely informational.

Examples:
  # Show the default scoring model
  depshield metrics

  # View with custom weights from config file
  depshield metrics --config .depshield.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
