// Package main is the entry point for the nodeinit CLI.
//
// nodeinit is the initialization hook of a managed data-processing cluster
// node. Every node installs the shared Python dependencies; the node whose
// metadata role is the leader also clones the helper repository, installs
// the leader's OS packages and starts the secondary init scripts in the
// background.
//
// Commands: run (default), role, doctor, init, ship-logs.
//
// For detailed usage information, run:
//
//	nodeinit --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/nodeinit/cmd/nodeinit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
