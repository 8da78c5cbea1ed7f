package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/taskblaster/internal/cli"
)

var version = "dev"

func main() {
	// Create signal-aware context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
