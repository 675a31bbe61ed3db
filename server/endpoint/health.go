// Package endpoint provides the server's unauthenticated operational routes.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// Health returns a handler reporting service health. Each named pinger is
// probed; any failure marks the service unhealthy with a 503.
func Health(serviceName string, pingers map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		components := make(map[string]string, len(pingers))

		for name, ping := range pingers {
			if err := ping(c.Request.Context()); err != nil {
				components[name] = err.Error()
				status = "unhealthy"
			} else {
				components[name] = "ok"
			}
		}

		httpStatus := http.StatusOK
		if status == "unhealthy" {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}
