// Command palomar is the loft catalogue: a CLI, terminal UI and MCP server
// over a published Google Sheet.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/palomar/internal/adapters/driving/cli"
	"github.com/custodia-labs/palomar/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetBuilder(buildServices)
	err := cli.ExecuteContext(ctx)

	if cerr := cli.Close(); cerr != nil {
		logger.Warn("closing services", "error", cerr)
	}
	_ = logger.Sync()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
