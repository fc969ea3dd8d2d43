// main is the entry point for the gradestat CLI.
package main

import (
	"github.com/huangsam/gradestat/cmd"
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("gradestat failed", err)
	}
}
