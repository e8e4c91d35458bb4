// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/gateway"
	"taskdeck/internal/gateway/rest"

	// Import all command packages to register them via init()
	_ "taskdeck/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create gateway factory
	factory := func(ctx context.Context, cfg *config.Config) (gateway.Gateway, error) {
		opts := []rest.Option{rest.WithLogger(slog.Default())}
		if cfg.Timeout > 0 {
			opts = append(opts, rest.WithTimeout(cfg.Timeout))
		}
		return rest.New(cfg.GatewayURL, opts...), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, nil)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
