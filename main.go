package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hedgerow-pam/birdprep/cmd"
	"github.com/hedgerow-pam/birdprep/internal/buildinfo"
	"github.com/hedgerow-pam/birdprep/internal/config"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := config.NewContext()
	ctx.Build = buildinfo.NewContext(version, buildDate)
	defer func() {
		if err := ctx.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
		}
	}()

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.RootCommand(ctx).ExecuteContext(sigctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
