package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	changeinput "github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/input"
)

// schemaCmd prints the change document schema.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of change documents",
	Long: `Print the JSON Schema accepted by --input, the HTTP API, and the MCP server.

Examples:
  testid schema > changes.schema.json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), changeinput.Schema)
	},
}
