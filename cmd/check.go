package cmd

import (
	"errors"
	"os"

	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Enforce a dependency risk policy for CI/CD pipelines (fails build on violations)",
	Long: `Scan the target and fail with a non-zero exit code when the policy is violated.

The check fails when:
- any alert is at or above --fail-on (default: critical)
- the overall score is below --min-score (default: 0)

Both settings can also live in the config file:

  check:
    fail_on: high
    min_score: 60

Command-line flags take precedence over the config file.

Examples:
  # Block merges that introduce high-severity risks
  depshield check --fail-on high

  # Require a healthy dependency tree and annotate the GitHub Actions run
  depshield check --min-score 70 --annotations`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, cacheManager)
		if errors.Is(err, core.ErrCheckFailed) {
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
