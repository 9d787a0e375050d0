// Package mainapp is the application served under the "main:app" entry point.
package mainapp

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dogmatiq/appserve/application"
	"github.com/dogmatiq/appserve/health"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Reference is the entry point under which the application is registered.
const Reference = "main:app"

func init() {
	application.Register(Reference, New)
}

// New returns the application's HTTP handler.
func New(deps application.Dependencies) (http.Handler, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Health == nil {
		deps.Health = health.NewState()
	}

	if deps.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		assignRequestID,
		logRequests(deps.Logger),
		gin.CustomRecoveryWithWriter(io.Discard, recoverPanic(deps.Logger)),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"*"},
			AllowHeaders:    []string{"*"},
			ExposeHeaders:   []string{requestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	probes := &probeHandler{State: deps.Health}
	engine.GET(livePath, probes.Live)
	engine.GET(readyPath, probes.Ready)

	engine.NoRoute(func(ctx *gin.Context) {
		writeError(ctx, http.StatusNotFound)
	})

	engine.NoMethod(func(ctx *gin.Context) {
		writeError(ctx, http.StatusMethodNotAllowed)
	})

	return engine, nil
}

func writeError(ctx *gin.Context, code int) {
	ctx.AbortWithStatusJSON(
		code,
		gin.H{"error": http.StatusText(code)},
	)
}
