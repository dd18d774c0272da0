// Package main is the entry point for the deps installer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GrinlexGH/deps/cmd/deps/commands"
	"github.com/GrinlexGH/deps/internal/app"
	"github.com/GrinlexGH/deps/internal/core/domain"
	_ "github.com/GrinlexGH/deps/internal/wiring"
	"github.com/grindlemire/graft"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 5 * time.Second

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	// A .env file only fills variables the environment does not already set.
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, provideComponents))
}

func provideComponents(ctx context.Context) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		return nil, func() {}, err
	}
	return c, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Close(shutdownCtx); err != nil {
			c.Logger.Warn(err.Error())
		}
	}, nil
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// Interrupting the run kills in-flight cmake processes with it.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "deps: %v\n", err)
		return 1
	}
	defer cleanup()

	cli := commands.New(components.App, components.Logger)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	err = cli.Execute(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrJobFailed):
		// The summary already lists each failed job.
	default:
		components.Logger.Error(err)
	}
	return 1
}
