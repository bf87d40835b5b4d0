package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp [repo-path]",
	Short:   "Start the test identifier MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents identify tests, analyze change documents, and render test skeletons.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: serverSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
