package cmd

import (
	"github.com/huangsam/madu/internal/iocache"
	"github.com/huangsam/madu/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Start the madu MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents measure files.

Tools:
  analyze_files - rank files under a path by one metric
  summarize     - aggregate one metric by extension or directory

Flags given here become the defaults of every tool call.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(cmd.Context(), cfg, gitClient, iocache.Manager, version)
	},
}
