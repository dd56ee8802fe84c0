// Package main is the entry point of the forecast CLI.
package main

import (
	"github.com/huangsam/forecast/cmd"
	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
