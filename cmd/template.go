package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// templateCmd renders a test skeleton.
var templateCmd = &cobra.Command{
	Use:   "template <name|source-path>",
	Short: "Print a test skeleton for a function or module",
	Long: `Render a starter test for the given unit in the framework of the chosen language.
Without --language the argument is read as a source path and its extension picks the language.

Examples:
  testid template parseOrder --language go
  testid template cart --language .ts > src/cart.test.ts
  testid template app/models/user.py`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return serverSetup(rootCtx, cmd, nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		language, _ := cmd.Flags().GetString("language")
		if err := core.ExecuteTemplate(rootCtx, cfg, args[0], language); err != nil {
			contract.LogFatal("Cannot render template", err)
		}
	},
}
