package cmd

import (
	"github.com/huangsam/forecast/core"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd simulates the items of a scenario.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Simulate the items of a scenario over a time window.",
	Long: `Step a clock through the window and apply every scheduled pattern of each item.

The window comes from --start/--end, or from the start/end keys of the scenario.
Every tick records one sample, so the trajectory has one value per step of the
finest schedule the item uses.

Examples:
  # Simulate every item of a scenario
  forecast run savings.yaml --start 2024-05-01 --end 2024-12-31

  # Only one item, as bit-exact CSV
  forecast run savings.yaml --item savings --output csv --separator ','

  # Export the trajectories for pandas or DuckDB
  forecast run savings.yaml --output parquet --output-file savings.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run scenario", err)
		}
	},
}
