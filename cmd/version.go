package cmd

import (
	"runtime"
	"time"

	"github.com/huangsam/forecast/core"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/spf13/cobra"
)

// versionCmd reports the build and the simulation defaults baked into it.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the forecast build and simulation defaults.",
	Long: `Report which forecast build is running and the defaults it simulates with.

Besides the release, commit, build time and Go toolchain, this prints the
fixed instant that until searches start from and the default --max-horizon,
since both affect the numbers a scenario produces.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("forecast %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())
		cmd.Printf("  until anchor: %s\n", core.UntilAnchor.Format(time.DateOnly))
		cmd.Printf("  max horizon:  %s\n", contract.DefaultMaxHorizon)
	},
}
