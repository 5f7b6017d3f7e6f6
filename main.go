// main is the entry point of the finscore CLI.
package main

import (
	"github.com/huangsam/finscore/cmd"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/iocache"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; FINSCORE_* variables may come from the shell.
	_ = godotenv.Load()

	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("finscore", err)
	}
}
