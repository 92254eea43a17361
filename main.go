package main

import (
	"os"

	"github.com/voltflow/voltflow-go/cmd"
	"github.com/voltflow/voltflow-go/internal/conf"
	"github.com/voltflow/voltflow-go/internal/core"
	"github.com/voltflow/voltflow-go/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("Error while loading settings", "error", err)
	}

	ctx, err := core.NewContext(settings)
	if err != nil {
		logging.Fatal("Error while creating application context", "error", err)
	}
	defer func() {
		if err := ctx.Close(); err != nil {
			logging.Error("Error while closing application context", "error", err)
		}
	}()

	rootCmd := cmd.RootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
