// Command camod simulates calcium-driven reaction networks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roach88/camod/internal/cli"
	"github.com/roach88/camod/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	env, err := cli.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitCommandError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "camod", env.Telemetry)
	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry disabled:", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(flushCtx)
	}()

	err = cli.NewRootCommand(env).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return cli.GetExitCode(err)
}
