package cmd

import (
	"github.com/huangsam/depshield/core"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/spf13/cobra"
)

// alternativesCmd lists the curated migration table.
var alternativesCmd = &cobra.Command{
	Use:   "alternatives [name]",
	Short: "List curated replacements for weak or deprecated npm packages",
	Long: `Print the curated alternatives table used by the migration advisor.

Entries from --alternatives-file are merged over the built-in table.

Examples:
  # Show the whole table
  depshield alternatives

  # Show replacements for moment
  depshield alternatives moment`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		if err := core.ExecuteAlternatives(rootCtx, cfg, name); err != nil {
			contract.LogFatal("Cannot display alternatives", err)
		}
	},
}
