package mainapp

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// maxRequestIDLength bounds the length of a client-supplied request ID.
	maxRequestIDLength = 128
)

// assignRequestID propagates the client's request ID, or generates one.
func assignRequestID(ctx *gin.Context) {
	id := ctx.GetHeader(requestIDHeader)
	if id == "" || len(id) > maxRequestIDLength {
		id = uuid.NewString()
	}

	ctx.Set(requestIDKey, id)
	ctx.Header(requestIDHeader, id)
	ctx.Next()
}

// logRequests writes an access log entry for each request. Probe requests are
// logged at the debug level. It must run outside the panic recovery middleware
// so that requests which panic are logged with their final status.
func logRequests(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		level := slog.LevelInfo
		if p := ctx.Request.URL.Path; p == livePath || p == readyPath {
			level = slog.LevelDebug
		}

		logger.LogAttrs(
			ctx.Request.Context(),
			level,
			"handled HTTP request",
			slog.String("request_id", ctx.GetString(requestIDKey)),
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.Int("status", ctx.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("client_ip", ctx.ClientIP()),
		)
	}
}

// recoverPanic logs panics raised by handlers and responds with a generic
// error.
func recoverPanic(logger *slog.Logger) gin.RecoveryFunc {
	return func(ctx *gin.Context, recovered any) {
		logger.ErrorContext(
			ctx.Request.Context(),
			"recovered from panic while handling HTTP request",
			slog.String("request_id", ctx.GetString(requestIDKey)),
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.String("panic", fmt.Sprint(recovered)),
		)

		writeError(ctx, http.StatusInternalServerError)
	}
}
