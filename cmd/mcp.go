package cmd

import (
	"github.com/huangsam/forecast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [scenario.yaml]",
	Short: "Start the Forecast MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents run scenarios, search for
target values and materialize schedules via standard tools.

An optional scenario file becomes the default for tools called without one.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

