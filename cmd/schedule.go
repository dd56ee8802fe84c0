package cmd

import (
	"github.com/huangsam/forecast/core"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/spf13/cobra"
)

// scheduleCmd materializes schedule specs.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "List the instants a schedule spec produces within a window.",
	Long: `Materialize one or more schedule specs between --start and --end.

Spec forms:
- Interval:    2d, 3h, 15min, 1w, 1m (calendar month), 1y
- Alternating: 1d|2d cycles through the intervals
- Monthly:     monthly
- Cron:        "0 0 2 * *" (5 fields)
- Dates:       2024-5-1,2024-6-15 (all entries dates)

Examples:
  # Every other day in May
  forecast schedule --spec 2d --start 2024-05-01 --end 2024-05-31

  # Compare an interval with a cron expression
  forecast schedule --spec "1w,0 0 * * 1" --start 2024-05-01 --end 2024-06-01 --include-start`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchedule(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot generate schedule", err)
		}
	},
}
