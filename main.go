// main is the entry point of the depshield CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/depshield/cmd"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	if err := cmd.Execute(ctx); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
