package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthCheck is one named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse is the body of the readiness probe
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler serves the readiness probe
type HealthHandler struct {
	checks    []HealthCheck
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a HealthHandler running checks on every probe
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// Register mounts GET /health on r
func (h *HealthHandler) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health answers 200 when every check passes and 503 otherwise.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks[check.Name] = err.Error()
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
