package handler

import (
	"context"
	"net/http"
	"time"

	"momentum/utils"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Dependency is a backing service the health check pings. A nil Ping
// marks the dependency as not configured.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	CPUUsage     float64           `json:"cpu_usage"`
}

func HealthHandler(c *gin.Context, dependencies ...Dependency) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:       "ok",
		Dependencies: make(map[string]string, len(dependencies)),
	}

	for _, dep := range dependencies {
		if dep.Ping == nil {
			response.Dependencies[dep.Name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			_ = c.Error(err)
			utils.TrackError("health", dep.Name+"_unreachable")
			response.Dependencies[dep.Name] = "down"
			response.Status = "degraded"
			continue
		}
		response.Dependencies[dep.Name] = "up"
	}

	response.CPUUsage = utils.GetCPUUsage(ctx)

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
