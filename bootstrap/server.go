package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dogmatiq/appserve/health"
	"github.com/dogmatiq/linger"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout is the shutdown timeout used when
// [Server.ShutdownTimeout] is not positive.
const DefaultShutdownTimeout = 10 * time.Second

// Server serves HTTP requests on a listener, passing every request to a single
// handler.
type Server struct {
	// Handler is the application that handles every request.
	Handler http.Handler

	// Logger is the target for lifecycle messages.
	Logger *slog.Logger

	// Health is updated as the server starts and stops accepting requests. It
	// may be nil.
	Health *health.State

	// ShutdownTimeout is the amount of time to wait for in-flight requests
	// when the server is stopped.
	ShutdownTimeout time.Duration
}

// Serve accepts connections on lis until ctx is canceled, then shuts down
// gracefully.
//
// It returns nil if the server stopped because ctx was canceled. The listener
// is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	logger := s.logger()

	server := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 1 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-groupCtx.Done()
		return s.shutdown(ctx, server, logger)
	})

	g.Go(func() error {
		logger.InfoContext(
			ctx,
			"listening for HTTP requests",
			slog.String("listen_address", lis.Addr().String()),
		)

		if s.Health != nil {
			s.Health.MarkServing()
		}

		if err := server.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	return g.Wait()
}

func (s *Server) shutdown(
	ctx context.Context,
	server *http.Server,
	logger *slog.Logger,
) error {
	if s.Health != nil {
		s.Health.MarkDraining()
	}

	timeout := linger.MustCoalesce(s.ShutdownTimeout, DefaultShutdownTimeout)

	logger.InfoContext(
		ctx,
		"shutting down",
		slog.Duration("timeout", timeout),
	)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		server.Close()

		if errors.Is(err, context.DeadlineExceeded) {
			logger.WarnContext(
				ctx,
				"in-flight requests were abandoned",
				slog.Duration("timeout", timeout),
			)
			return nil
		}

		return err
	}

	return nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
