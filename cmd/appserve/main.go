package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dogmatiq/appserve/bootstrap"
	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/imbue"
	"github.com/dogmatiq/linger"
)

var (
	// version is the current version, set at build time with -ldflags "-X main.version=...".
	version string

	// container is the dependency injection container.
	container = imbue.New()
)

func main() {
	ferrite.Init()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()
	defer container.Close()

	g := container.WaitGroup(ctx)

	imbue.Go2(
		g,
		func(
			ctx context.Context,
			server *bootstrap.Server,
			logger *slog.Logger,
		) error {
			if d, ok := startupDelay.Value(); ok {
				logger.InfoContext(
					ctx,
					"delaying startup",
					slog.Duration("delay", d),
				)

				if err := linger.Sleep(ctx, d); err != nil {
					return nil // stopped before the listener was bound
				}
			}

			lis, err := bootstrap.Listen(ctx, listenPort.Value())
			if err != nil {
				return err
			}

			return server.Serve(ctx, lis)
		},
	)

	return g.Wait()
}
