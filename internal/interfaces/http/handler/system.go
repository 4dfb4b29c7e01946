package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// HealthChecker reports whether one backing dependency is reachable
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a function to the HealthChecker interface
type HealthCheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (f HealthCheckFunc) Name() string                    { return f.CheckName }
func (f HealthCheckFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	checkers  []HealthChecker
}

// NewSystemHandler creates a system handler. checkers are probed by
// the readiness endpoint; liveness never touches them.
func NewSystemHandler(version string, checkers ...HealthChecker) *SystemHandler {
	if version == "" {
		version = "dev"
	}
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		checkers:  checkers,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"RetailPOS Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Description  Returns the service version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "RetailPOS Backend API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Always returns 200 while the process is serving requests
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[map[string]string]
// @Router       /healthz [get]
func (h *SystemHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}

// ReadinessCheckResult reports one dependency probe
type ReadinessCheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Probes backing dependencies; returns 503 when any is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[[]ReadinessCheckResult]
// @Failure      503 {object} APIResponse[[]ReadinessCheckResult]
// @Router       /readyz [get]
func (h *SystemHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results := make([]ReadinessCheckResult, 0, len(h.checkers))
	healthy := true
	for _, checker := range h.checkers {
		result := ReadinessCheckResult{Name: checker.Name(), Status: "ok"}
		if err := checker.Check(ctx); err != nil {
			result.Status = "unavailable"
			result.Error = err.Error()
			healthy = false
		}
		results = append(results, result)
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(results))
}
