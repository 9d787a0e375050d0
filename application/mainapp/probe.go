package mainapp

import (
	"net/http"

	"github.com/dogmatiq/appserve/health"
	"github.com/gin-gonic/gin"
)

const (
	livePath  = "/health/live"
	readyPath = "/health/ready"
)

// probeHandler answers container liveness and readiness probes.
type probeHandler struct {
	State *health.State
}

// Live reports that the process is running.
func (h *probeHandler) Live(ctx *gin.Context) {
	ctx.JSON(
		http.StatusOK,
		gin.H{
			"status": "live",
			"uptime": h.State.Uptime().String(),
		},
	)
}

// Ready reports whether the process should receive traffic.
func (h *probeHandler) Ready(ctx *gin.Context) {
	code := http.StatusOK
	if !h.State.IsReady() {
		code = http.StatusServiceUnavailable
	}

	ctx.JSON(
		code,
		gin.H{
			"status": h.State.Status().String(),
			"uptime": h.State.Uptime().String(),
		},
	)
}
