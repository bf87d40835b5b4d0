// main is the entry point of the testid CLI.
package main

import (
	"os"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/cmd"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.Logger.Error("Command failed", "err", err)
		iocache.CloseStores()
		os.Exit(1)
	}
}
