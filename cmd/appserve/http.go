package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dogmatiq/appserve/bootstrap"
	"github.com/dogmatiq/appserve/health"
	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/imbue"
)

var (
	listenPort = ferrite.
			Unsigned[uint16]("PORT", "the port to listen on for HTTP requests").
			WithMinimum(1).
			Required()

	shutdownTimeout = ferrite.
			Duration("SHUTDOWN_TIMEOUT", "the maximum time to wait for in-flight requests when shutting down").
			WithMinimum(time.Millisecond).
			WithDefault(bootstrap.DefaultShutdownTimeout).
			Required()

	startupDelay = ferrite.
			Duration("STARTUP_DELAY", "the time to wait before binding the listener").
			Optional()
)

func init() {
	imbue.With3(
		container,
		func(
			ctx imbue.Context,
			handler http.Handler,
			state *health.State,
			logger *slog.Logger,
		) (*bootstrap.Server, error) {
			return &bootstrap.Server{
				Handler:         handler,
				Logger:          logger,
				Health:          state,
				ShutdownTimeout: shutdownTimeout.Value(),
			}, nil
		},
	)
}
