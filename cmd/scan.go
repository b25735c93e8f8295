package cmd

import (
	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/spf13/cobra"
)

// scanCmd focused on scanning every dependency of a project.
var scanCmd = &cobra.Command{
	Use:   "scan [target]",
	Short: "Score every dependency of a package.json, npm package or GitHub repository",
	Long: `Fetch registry metadata for each dependency and score it for supply-chain risk.

The target can be:
- a path to package.json, or a directory containing one (default: ./package.json)
- an npm package name, which scans the package and the dependencies of its latest version
- a GitHub repository URL or owner/repo shorthand

Each package is scored on maintainer health, takeover risk, slopsquatting and
license changes, then combined into a 0-100 health score and an A-F grade.
Packages are analyzed in batches of --concurrency. Pressing Ctrl-C stops after
the current batch and prints the partial result.

Examples:
  # Scan the project in the current directory
  depshield scan

  # Scan dev dependencies too and keep the 10 weakest
  depshield scan ./web/package.json --include-dev --limit 10

  # Scan a GitHub repository and export JSON
  depshield scan expressjs/express --output json --output-file express.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}
