// Command madu measures source files and ranks them by one metric.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/madu/cmd"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("madu", err)
	}
}
