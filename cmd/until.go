package cmd

import (
	"github.com/huangsam/forecast/core"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/spf13/cobra"
)

// untilCmd finds how long an item takes to reach a target.
var untilCmd = &cobra.Command{
	Use:   "until <scenario.yaml>",
	Short: "Find how long an item takes to reach a target value.",
	Long: `Simulate an item from 2025-01-01 until its value reaches --target.

A target above the initial value is reached once the value is at or above it,
a target below once the value is at or below it. The search gives up after
--max-horizon (default 100y).

Examples:
  # Time until savings reach 10000
  forecast until savings.yaml --item savings --target 10000

  # Limit the search to ten years
  forecast until debt.yaml --target 0 --max-horizon 10y`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUntil(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot find time to target", err)
		}
	},
}
