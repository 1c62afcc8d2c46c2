// main is the entry point for the propmatch CLI.
package main

import (
	"github.com/tharaga/propmatch/cmd"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Stores are opened lazily by each command's setup.
	iocache.CloseCaching()
	cmd.SyncLogger()

	if err != nil {
		contract.LogFatal("Error", err)
	}
}
