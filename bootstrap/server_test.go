package bootstrap_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/dogmatiq/appserve/bootstrap"
	"github.com/dogmatiq/appserve/health"
	"github.com/stretchr/testify/require"
)

func waitForHTTP(t *testing.T, url string, expect int, timeout time.Duration) string {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		res, err := http.Get(url)
		if err == nil {
			body, _ := io.ReadAll(res.Body)
			res.Body.Close()
			if res.StatusCode == expect {
				return string(body)
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s to return %d", url, expect)
	return ""
}

func TestServer_Serve(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("it passes every request to the handler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		port := freePort(t)
		lis, err := bootstrap.Listen(ctx, port)
		require.NoError(t, err)

		server := &bootstrap.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, "%s %s", r.Method, r.URL.Path)
			}),
			Logger: logger,
		}

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx, lis)
		}()

		for _, path := range []string{"/", "/any/path", "/health/live"} {
			body := waitForHTTP(
				t,
				fmt.Sprintf("http://127.0.0.1:%d%s", port, path),
				http.StatusOK,
				5*time.Second,
			)
			require.Equal(t, "GET "+path, body)
		}

		cancel()
		require.NoError(t, <-result)
	})

	t.Run("it updates the health state", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		port := freePort(t)
		lis, err := bootstrap.Listen(ctx, port)
		require.NoError(t, err)

		state := health.NewState()
		server := &bootstrap.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}),
			Logger: logger,
			Health: state,
		}

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx, lis)
		}()

		waitForHTTP(t, fmt.Sprintf("http://127.0.0.1:%d/", port), http.StatusNoContent, 5*time.Second)
		require.Equal(t, health.Serving, state.Status())

		cancel()
		require.NoError(t, <-result)
		require.Equal(t, health.Draining, state.Status())
	})

	t.Run("it closes the listener when stopped", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		port := freePort(t)
		lis, err := bootstrap.Listen(ctx, port)
		require.NoError(t, err)

		server := &bootstrap.Server{
			Handler: http.NotFoundHandler(),
			Logger:  logger,
		}

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx, lis)
		}()

		waitForHTTP(t, fmt.Sprintf("http://127.0.0.1:%d/", port), http.StatusNotFound, 5*time.Second)

		cancel()
		require.NoError(t, <-result)

		again, err := bootstrap.Listen(context.Background(), port)
		require.NoError(t, err)
		again.Close()
	})

	t.Run("it waits for in-flight requests", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		port := freePort(t)
		lis, err := bootstrap.Listen(ctx, port)
		require.NoError(t, err)

		started := make(chan struct{})
		release := make(chan struct{})

		server := &bootstrap.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				close(started)
				<-release
				io.WriteString(w, "done")
			}),
			Logger:          logger,
			ShutdownTimeout: 5 * time.Second,
		}

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx, lis)
		}()

		type response struct {
			body string
			err  error
		}
		responses := make(chan response, 1)
		go func() {
			res, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", port))
			if err != nil {
				responses <- response{err: err}
				return
			}
			defer res.Body.Close()
			body, err := io.ReadAll(res.Body)
			responses <- response{string(body), err}
		}()

		<-started
		cancel()

		select {
		case err := <-result:
			t.Fatalf("server stopped before the in-flight request completed: %v", err)
		case <-time.After(100 * time.Millisecond):
		}

		close(release)

		res := <-responses
		require.NoError(t, res.err)
		require.Equal(t, "done", res.body)
		require.NoError(t, <-result)
	})

	t.Run("it abandons requests that outlive the shutdown timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		port := freePort(t)
		lis, err := bootstrap.Listen(ctx, port)
		require.NoError(t, err)

		started := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		server := &bootstrap.Server{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				close(started)
				<-release
			}),
			Logger:          logger,
			ShutdownTimeout: 50 * time.Millisecond,
		}

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx, lis)
		}()

		go func() {
			res, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", port))
			if err == nil {
				res.Body.Close()
			}
		}()

		<-started
		cancel()

		select {
		case err := <-result:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop after the shutdown timeout elapsed")
		}
	})
}
