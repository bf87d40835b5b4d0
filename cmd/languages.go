package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// languagesCmd lists the language profiles.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their test naming conventions",
	Long: `Print every language profile known to testid: its extensions, test
path patterns, and the framework used for generated skeletons.

Examples:
  testid languages
  testid languages --output json`,
	Args:    cobra.NoArgs,
	PreRunE: serverSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLanguages(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list languages", err)
		}
	},
}
